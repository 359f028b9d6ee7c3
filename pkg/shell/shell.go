package shell

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/vango-dev/viewroute/pkg/router"
)

// Reserved paths under the base.
const (
	NavPath    = "/_nav"
	HealthPath = "/healthz"
)

// Shell serves a router's views to browsers.
type Shell struct {
	router      *router.Router
	logger      *slog.Logger
	title       string
	metrics     http.Handler
	metricsPath string
	upgrader    websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Shell.
type Option func(*Shell)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Shell) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTitle sets the document title of rendered pages.
func WithTitle(title string) Option {
	return func(s *Shell) {
		s.title = title
	}
}

// WithMetricsHandler mounts h at path, outside the base.
func WithMetricsHandler(path string, h http.Handler) Option {
	return func(s *Shell) {
		s.metricsPath = path
		s.metrics = h
	}
}

// WithCheckOrigin overrides the websocket origin check.
// The default rejects cross-origin upgrades.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Shell) {
		s.upgrader.CheckOrigin = fn
	}
}

// New creates a Shell for r.
func New(r *router.Router, opts ...Option) *Shell {
	s := &Shell{
		router: r,
		logger: slog.Default(),
		title:  "viewroute",
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close drops all open navigation channels.
// http.Server.Shutdown does not wait for hijacked connections, so call
// Close from RegisterOnShutdown.
func (s *Shell) Close() {
	s.cancel()
}

// Handler returns the HTTP handler.
//
// Under the router's base path it serves:
//
//	GET /_nav     websocket navigation channel
//	GET /healthz  health check
//	GET /*        server-rendered views
func (s *Shell) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	if s.metrics != nil {
		r.Method(http.MethodGet, s.metricsPath, s.metrics)
	}

	app := func(r chi.Router) {
		r.Get(NavPath, s.serveNav)
		r.Get(HealthPath, s.serveHealth)
		r.Get("/*", s.servePage)
	}

	if base := s.router.Base(); base != "" {
		r.Route(base, app)
	} else {
		app(r)
	}
	return r
}

func (s *Shell) serveHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// accessLog logs each request through the shell's logger.
func (s *Shell) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
