// Package router maps URL paths to views.
//
// The router provides:
//   - An ordered, immutable route table (first match wins)
//   - Named capture segments with optional type constraints
//   - Eager and lazily loaded views, memoized per loader
//   - Single-flight lazy loading shared by concurrent navigations
//   - Named navigation (building URLs from route names)
//   - Middleware around each navigation
//
// # Patterns
//
// A pattern is a slash-separated list of segments. A segment is either a
// literal, matched exactly and case-sensitively, or a named capture:
//
//	/                → root
//	/create          → literal
//	/update/:id      → :id binds any single non-empty segment
//	/update/:id:int  → :id only binds integers (int, uint, uuid supported)
//
// # Loading
//
// Every route has a Loader. Eager loaders hold a view constructed at startup.
// Lazy loaders call their LoadFunc on first use and cache the result for the
// lifetime of the process; concurrent callers share one in-flight load.
// Two routes that use the same lazy loader share its view.
//
//	form := router.Lazy("FormView", loadForm)
//
//	r, err := router.New([]router.RouteEntry{
//	    {Path: "/", Name: "Home", Loader: router.Eager(home)},
//	    {Path: "/create", Name: "Create", Loader: form},
//	    {Path: "/update/:id", Name: "Update", Loader: form},
//	}, router.WithBase("/app/"))
//
//	nav, err := r.Navigate(ctx, "/app/update/42")
//	if errors.Is(err, router.ErrNotFound) {
//	    // render 404
//	}
//	// nav.Match.Entry.Name == "Update", nav.Match.Params["id"] == "42"
//
// # Path Policy
//
// Query strings and fragments are split off before matching and exposed on
// the Match. One trailing slash is ignored; empty inner segments are kept and
// never match a capture.
package router
