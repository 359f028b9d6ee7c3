package middleware

import (
	"context"

	"github.com/vango-dev/viewroute/pkg/router"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name.
const defaultTracerName = "viewroute"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "viewroute").
	TracerName string

	// TracerProvider overrides the global tracer provider.
	TracerProvider trace.TracerProvider

	// IncludeParams adds captured route params as span attributes.
	// Params may carry identifiers - disabled by default.
	IncludeParams bool

	// Filter determines which navigations to trace.
	// Return true to trace the navigation, false to skip.
	// If nil, all navigations are traced.
	Filter func(target string) bool

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeParams enables including route params in spans.
func WithIncludeParams(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeParams = include
	}
}

// WithNavigationFilter sets a filter function for navigations.
func WithNavigationFilter(filter func(target string) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// OpenTelemetry creates middleware that traces every navigation.
//
// The middleware:
//   - Starts a span per navigation, named after the matched route
//   - Passes the span context down, so lazy loads run inside the span
//   - Records errors and sets span status
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure it in main() before navigating:
//
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) router.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	if config.TracerProvider != nil {
		config.tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}

	return router.MiddlewareFunc(func(ctx context.Context, nav *router.Navigation, next func(context.Context) error) error {
		if config.Filter != nil && !config.Filter(nav.Target) {
			return next(ctx)
		}

		spanCtx, span := config.tracer.Start(ctx, "navigate",
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attribute.String("viewroute.target", nav.Target)),
		)
		defer span.End()

		err := next(spanCtx)

		if m := nav.Match; m != nil {
			span.SetName("navigate " + m.Entry.Name)
			span.SetAttributes(
				attribute.String("viewroute.route", m.Entry.Name),
				attribute.String("viewroute.pattern", m.Entry.Path),
				attribute.Bool("viewroute.lazy", m.Entry.Lazy()),
			)
			if config.IncludeParams {
				for k, v := range m.Params {
					span.SetAttributes(attribute.String("viewroute.param."+k, v))
				}
			}
		}
		if nav.View != nil {
			span.SetAttributes(attribute.String("viewroute.module", nav.View.Module()))
		}

		span.SetAttributes(attribute.String("viewroute.status", Status(err)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	})
}
