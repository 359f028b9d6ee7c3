package shell

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/viewroute/pkg/middleware"
)

const (
	navWriteTimeout = 10 * time.Second
	navQueueSize    = 16
)

// NavRequest is sent by the client on the navigation channel.
type NavRequest struct {
	Seq  uint64 `json:"seq"`
	Path string `json:"path"`
}

// NavReply answers a NavRequest with the same Seq.
// Exactly one of HTML or Error is set.
type NavReply struct {
	Seq    uint64            `json:"seq"`
	Route  string            `json:"route,omitempty"`
	Params map[string]string `json:"params,omitempty"`
	HTML   string            `json:"html,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// pendingNav is one in-flight navigation on a connection.
type pendingNav struct {
	seq        uint64
	cancel     context.CancelFunc
	superseded atomic.Bool
	reply      chan *NavReply
}

// serveNav upgrades to a websocket and serves navigation requests.
//
// Requests are resolved concurrently but answered in request order. A new
// request supersedes the previous one: its context is cancelled and its
// reply is dropped.
func (s *Shell) serveNav(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("nav upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	queue := make(chan *pendingNav, navQueueSize)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writeNav(conn, queue)
	}()

	var last *pendingNav
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				s.logger.Debug("nav read error", "error", err)
			}
			break
		}

		var req NavRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.logger.Debug("nav decode error", "error", err)
			continue
		}

		if last != nil {
			last.superseded.Store(true)
			last.cancel()
		}

		navCtx, navCancel := context.WithCancel(ctx)
		p := &pendingNav{
			seq:    req.Seq,
			cancel: navCancel,
			reply:  make(chan *NavReply, 1),
		}
		last = p

		queue <- p
		go func() {
			p.reply <- s.navigate(navCtx, req)
		}()
	}

	if last != nil {
		last.cancel()
	}
	close(queue)
	<-done
}

// writeNav writes replies in request order, skipping superseded ones.
func (s *Shell) writeNav(conn *websocket.Conn, queue <-chan *pendingNav) {
	broken := false
	for p := range queue {
		reply := <-p.reply
		p.cancel()
		if broken || p.superseded.Load() {
			continue
		}

		_ = conn.SetWriteDeadline(time.Now().Add(navWriteTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Debug("nav write error", "seq", p.seq, "error", err)
			broken = true
			_ = conn.Close()
		}
	}
}

// navigate resolves one request into a reply.
func (s *Shell) navigate(ctx context.Context, req NavRequest) *NavReply {
	reply := &NavReply{Seq: req.Seq}

	nav, err := s.router.Navigate(ctx, req.Path)
	if err == nil {
		reply.HTML, err = s.render(nav)
	}
	if err != nil {
		reply.Error = middleware.Status(err)
		return reply
	}

	reply.Route = nav.RouteName()
	reply.Params = nav.Match.Params
	return reply
}
