package shell

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"

	"github.com/vango-dev/viewroute/pkg/router"
)

// Renderer is implemented by views that render HTML.
type Renderer interface {
	Render(w io.Writer, data any) error
}

// PageData is passed to a view when it renders.
type PageData struct {
	// Route is the matched route name.
	Route string

	// Params are the route captures.
	Params map[string]string

	// Query is the parsed query string.
	Query url.Values

	// Base is the router base path, "" at root.
	Base string
}

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body data-base="{{.Base}}">
<main id="view" data-route="{{.Route}}">{{.Content}}</main>
<script>
(function () {
  var base = document.body.dataset.base;
  var view = document.getElementById("view");
  var seq = 0;
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + base + "/_nav");
  var pending = {};

  function go(path, push) {
    if (ws.readyState !== 1) { location.href = path; return; }
    seq++;
    pending[seq] = {path: path, push: push};
    ws.send(JSON.stringify({seq: seq, path: path}));
  }

  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    var req = pending[msg.seq];
    delete pending[msg.seq];
    if (!req) { return; }
    if (msg.error) { location.href = req.path; return; }
    view.innerHTML = msg.html;
    view.dataset.route = msg.route;
    if (req.push) { history.pushState({}, "", req.path); }
  };

  document.addEventListener("click", function (ev) {
    var a = ev.target.closest("a[data-nav]");
    if (!a || ev.metaKey || ev.ctrlKey || ev.shiftKey) { return; }
    ev.preventDefault();
    go(a.getAttribute("href"), true);
  });

  window.addEventListener("popstate", function () {
    go(location.pathname + location.search, false);
  });
})();
</script>
</body>
</html>
`))

type layoutData struct {
	Title   string
	Base    string
	Route   string
	Content template.HTML
}

// servePage navigates to the request path and writes the rendered view.
func (s *Shell) servePage(w http.ResponseWriter, r *http.Request) {
	nav, err := s.router.Navigate(r.Context(), r.URL.RequestURI())

	var (
		status  = http.StatusOK
		content string
	)
	if err == nil {
		if content, err = s.render(nav); err != nil {
			s.logger.Error("view render failed", "route", nav.RouteName(), "error", err)
		}
	}
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		status = statusFor(err)
		content = "<h1>" + template.HTMLEscapeString(http.StatusText(status)) + "</h1>"
	}

	var buf bytes.Buffer
	if lerr := layout.Execute(&buf, layoutData{
		Title:   s.title,
		Base:    s.router.Base(),
		Route:   nav.RouteName(),
		Content: template.HTML(content),
	}); lerr != nil {
		s.logger.Error("layout render failed", "error", lerr)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// render renders the navigation's view to a string.
func (s *Shell) render(nav *router.Navigation) (string, error) {
	rv, ok := nav.View.(Renderer)
	if !ok {
		return "", fmt.Errorf("shell: view %s cannot render", nav.View.Module())
	}

	params := nav.Match.Params
	if params == nil {
		params = map[string]string{}
	}

	var buf bytes.Buffer
	if err := rv.Render(&buf, PageData{
		Route:  nav.RouteName(),
		Params: params,
		Query:  nav.Match.Query,
		Base:   s.router.Base(),
	}); err != nil {
		return "", fmt.Errorf("shell: render %s: %w", nav.View.Module(), err)
	}
	return buf.String(), nil
}

// statusFor maps a navigation error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, router.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, router.ErrInvalidPath):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
