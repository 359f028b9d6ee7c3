package viewroute

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/viewroute/internal/views"
	"github.com/vango-dev/viewroute/pkg/router"
	"go.opentelemetry.io/otel/trace"
)

// =============================================================================
// Options
// =============================================================================

// Option configures an App beyond what the config file covers.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	source         views.Source
	registry       *prometheus.Registry
	tracerProvider trace.TracerProvider
	middleware     []router.Middleware
}

// WithLogger sets the structured logger. If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSource overrides the view source selected by the config.
func WithSource(src views.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithRegistry registers metrics with reg instead of a fresh registry.
// It has no effect when metrics are disabled.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithTracerProvider sets the tracer provider for navigation spans.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithMiddleware appends navigation middleware after the built-in chain
// (logging, tracing, metrics).
func WithMiddleware(mw ...router.Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, mw...)
	}
}
