// Package middleware provides navigation middleware for viewroute routers.
//
// This package includes:
//   - OpenTelemetry tracing of navigations
//   - Prometheus metrics for navigations and lazy view loads
//   - Structured logging with log/slog
//
// # OpenTelemetry Middleware
//
// Every navigation gets a span named after the matched route. Lazy loads run
// with the span context, so a loader that calls out (S3, HTTP) is traced as a
// child of the navigation.
//
//	r, err := router.New(routes,
//	    router.WithMiddleware(middleware.OpenTelemetry()),
//	)
//
// # Prometheus Metrics
//
// The metrics middleware also observes lazy loads when registered on the
// loader:
//
//	m := middleware.Prometheus(middleware.WithRegistry(reg))
//	form := router.Lazy("FormView", load, router.WithLoadObserver(m.ObserveLoad))
//	r, err := router.New(routes, router.WithMiddleware(m))
//
// # Logging
//
//	router.WithMiddleware(middleware.Logging(logger))
package middleware
