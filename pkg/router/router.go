package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vango-dev/viewroute/pkg/routepath"
)

// Router holds an immutable, ordered route table.
type Router struct {
	base       string
	routes     []route
	byName     map[string]int
	middleware []Middleware
	logger     *slog.Logger
}

// route pairs an entry with its compiled pattern.
type route struct {
	entry   RouteEntry
	pattern *pattern
}

// Option configures a Router.
type Option func(*Router)

// WithBase sets the deployment base URL. Paths given to Resolve and Navigate
// must lie under it; Href prefixes it.
func WithBase(base string) Option {
	return func(r *Router) {
		r.base = routepath.NormalizeBase(base)
	}
}

// WithLogger sets the router's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithMiddleware adds middleware run around every Navigate call.
// Middleware runs in the order given.
func WithMiddleware(mw ...Middleware) Option {
	return func(r *Router) {
		r.middleware = append(r.middleware, mw...)
	}
}

// New builds a router from entries, in match order.
// It fails if a name is empty or repeated, a loader is missing, or a pattern
// does not compile.
func New(entries []RouteEntry, opts ...Option) (*Router, error) {
	r := &Router{
		byName: make(map[string]int, len(entries)),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: route %q has no name", ErrInvalidRoute, e.Path)
		}
		if e.Loader == nil {
			return nil, fmt.Errorf("%w: route %q has no loader", ErrInvalidRoute, e.Name)
		}
		if _, dup := r.byName[e.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, e.Name)
		}
		p, err := compilePattern(e.Path)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", e.Name, err)
		}
		r.byName[e.Name] = len(r.routes)
		r.routes = append(r.routes, route{entry: e, pattern: p})
	}

	r.logger.Debug("route table ready", "routes", len(r.routes), "base", r.base)
	return r, nil
}

// MustNew is like New but panics on error.
func MustNew(entries []RouteEntry, opts ...Option) *Router {
	r, err := New(entries, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Base returns the normalized base path ("" for root).
func (r *Router) Base() string {
	return r.base
}

// Routes returns the route table in match order.
func (r *Router) Routes() []RouteEntry {
	out := make([]RouteEntry, len(r.routes))
	for i, rt := range r.routes {
		out[i] = rt.entry
	}
	return out
}

// Lookup returns the route with the given name.
func (r *Router) Lookup(name string) (RouteEntry, bool) {
	i, ok := r.byName[name]
	if !ok {
		return RouteEntry{}, false
	}
	return r.routes[i].entry, true
}

// Resolve finds the first route matching path.
//
// path may carry a query string and fragment; both are split off before
// matching and returned on the Match. Returns an error matching ErrNotFound
// if no route matches, or ErrInvalidPath if path cannot be parsed.
func (r *Router) Resolve(path string) (*Match, error) {
	loc, err := routepath.Parse(path)
	if err != nil {
		if errors.Is(err, ErrInvalidPath) {
			return nil, fmt.Errorf("router: %q: %w", path, err)
		}
		return nil, fmt.Errorf("router: %q: %w: %w", path, ErrInvalidPath, err)
	}

	rel, ok := routepath.StripBase(r.base, loc.Path)
	if !ok {
		return nil, &NotFoundError{Path: loc.Path}
	}

	segs := routepath.Segments(rel)
	for _, rt := range r.routes {
		params, ok := rt.pattern.match(segs)
		if !ok {
			continue
		}
		return &Match{
			Entry:    rt.entry,
			Params:   params,
			Path:     rel,
			Query:    loc.Values(),
			Fragment: loc.Fragment,
		}, nil
	}

	return nil, &NotFoundError{Path: loc.Path}
}

// ResolveView returns the entry's view, loading it if the entry is lazy.
//
// A lazy view is loaded at most once per successful load; concurrent callers
// share the in-flight load and receive the same view. Load failures are
// returned as *LoadError and are not retried.
func (r *Router) ResolveView(ctx context.Context, entry RouteEntry) (View, error) {
	if entry.Loader == nil {
		return nil, fmt.Errorf("%w: route %q has no loader", ErrInvalidRoute, entry.Name)
	}

	view, err := entry.Loader.Load(ctx)
	if err == nil {
		return view, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return nil, err
	}

	r.logger.DebugContext(ctx, "view load failed",
		"route", entry.Name,
		"module", entry.Loader.Module(),
		"error", err,
	)
	return nil, &LoadError{Route: entry.Name, Module: entry.Loader.Module(), Err: err}
}

// Navigate resolves path and its view through the middleware chain.
//
// The returned Navigation is non-nil even on error, so callers can inspect
// how far the navigation got.
func (r *Router) Navigate(ctx context.Context, path string) (*Navigation, error) {
	nav := &Navigation{Target: path}

	err := ComposeMiddleware(ctx, nav, r.middleware, func(ctx context.Context) error {
		m, err := r.Resolve(path)
		if err != nil {
			return err
		}
		nav.Match = m

		view, err := r.ResolveView(ctx, m.Entry)
		if err != nil {
			return err
		}
		nav.View = view
		return nil
	})

	return nav, err
}
