package router

import (
	"context"
	"net/url"
)

// View is the unit a loader produces. The router never renders it; it is
// handed to the host together with the resolved route.
type View interface {
	// Module identifies the unit the view was loaded from (e.g. "FormView").
	Module() string
}

// LoadFunc produces a view. It is called at most once per successful load.
type LoadFunc func(ctx context.Context) (View, error)

// Loader resolves the view of a route.
type Loader interface {
	// Load returns the view, loading it first if needed.
	Load(ctx context.Context) (View, error)

	// Loaded reports whether Load would return without blocking.
	Loaded() bool

	// Module identifies the view module this loader produces.
	Module() string
}

// RouteEntry is a single route definition.
type RouteEntry struct {
	// Path is the URL pattern (e.g., "/update/:id").
	Path string

	// Name is the unique symbolic identifier of the route.
	Name string

	// Loader produces the route's view.
	Loader Loader
}

// Lazy reports whether the route's view is loaded on first use.
func (e RouteEntry) Lazy() bool {
	_, eager := e.Loader.(eagerLoader)
	return !eager
}

// Match is the result of resolving a path.
type Match struct {
	// Entry is the matched route.
	Entry RouteEntry

	// Params are the captured path parameters, percent-decoded.
	Params map[string]string

	// Path is the matched path, relative to the router base.
	Path string

	// Query holds the parsed query string.
	Query url.Values

	// Fragment is the raw fragment, without "#".
	Fragment string
}

// Name returns the matched route's name.
func (m *Match) Name() string {
	if m == nil {
		return ""
	}
	return m.Entry.Name
}

// Navigation is a single navigation passed through the middleware chain.
// Match and View are filled in as the navigation progresses.
type Navigation struct {
	// Target is the requested path, as given to Navigate.
	Target string

	// Match is set once the target resolved to a route.
	Match *Match

	// View is set once the route's view is available.
	View View
}

// RouteName returns the matched route's name, or "" if nothing matched.
func (n *Navigation) RouteName() string {
	return n.Match.Name()
}

// Middleware wraps navigations.
type Middleware interface {
	// Handle processes the navigation and optionally calls next.
	// Return an error to stop the chain and report an error.
	Handle(ctx context.Context, nav *Navigation, next func(context.Context) error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(ctx context.Context, nav *Navigation, next func(context.Context) error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx context.Context, nav *Navigation, next func(context.Context) error) error {
	return f(ctx, nav, next)
}
