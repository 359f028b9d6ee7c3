package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/vango-dev/viewroute/pkg/router"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTracedRouter(t *testing.T, opts ...OTelOption) (*router.Router, *tracetest.SpanRecorder, *trace.SpanContext) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	var loadSpan trace.SpanContext
	form := router.Lazy("FormView", func(ctx context.Context) (router.View, error) {
		loadSpan = trace.SpanContextFromContext(ctx)
		return &testView{module: "FormView"}, nil
	})

	opts = append([]OTelOption{WithTracerProvider(tp)}, opts...)
	r, err := router.New([]router.RouteEntry{
		{Path: "/", Name: "Home", Loader: router.Eager(&testView{module: "HomeView"})},
		{Path: "/update/:id", Name: "Update", Loader: form},
		{Path: "/broken", Name: "Broken", Loader: router.Lazy("Broken", func(context.Context) (router.View, error) {
			return nil, errors.New("boom")
		})},
	}, router.WithMiddleware(OpenTelemetry(opts...)))
	if err != nil {
		t.Fatal(err)
	}
	return r, sr, &loadSpan
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestOpenTelemetryMiddleware_SpanPerNavigation(t *testing.T) {
	r, sr, loadSpan := newTracedRouter(t, WithIncludeParams(true))

	if _, err := r.Navigate(context.Background(), "/update/42"); err != nil {
		t.Fatal(err)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "navigate Update" {
		t.Errorf("span name = %q", span.Name())
	}
	if v, ok := spanAttr(span, "viewroute.route"); !ok || v.AsString() != "Update" {
		t.Errorf("viewroute.route = %v", v)
	}
	if v, ok := spanAttr(span, "viewroute.param.id"); !ok || v.AsString() != "42" {
		t.Errorf("viewroute.param.id = %v", v)
	}
	if v, ok := spanAttr(span, "viewroute.module"); !ok || v.AsString() != "FormView" {
		t.Errorf("viewroute.module = %v", v)
	}
	if v, ok := spanAttr(span, "viewroute.lazy"); !ok || !v.AsBool() {
		t.Errorf("viewroute.lazy = %v", v)
	}
	if span.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", span.Status().Code)
	}

	// The lazy load ran inside the navigation span.
	if loadSpan.TraceID() != span.SpanContext().TraceID() {
		t.Error("loader did not receive the navigation span context")
	}
}

func TestOpenTelemetryMiddleware_RecordsErrors(t *testing.T) {
	r, sr, _ := newTracedRouter(t)

	r.Navigate(context.Background(), "/broken")
	r.Navigate(context.Background(), "/missing")

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}

	broken := spans[0]
	if broken.Status().Code != codes.Error {
		t.Errorf("broken status = %v, want Error", broken.Status().Code)
	}
	if len(broken.Events()) == 0 {
		t.Error("expected recorded error event")
	}
	if v, _ := spanAttr(broken, "viewroute.status"); v.AsString() != "load_failed" {
		t.Errorf("broken status attr = %q", v.AsString())
	}

	missing := spans[1]
	if missing.Name() != "navigate" {
		t.Errorf("unmatched span name = %q", missing.Name())
	}
	if _, ok := spanAttr(missing, "viewroute.param.id"); ok {
		t.Error("params should not be recorded by default")
	}
	if v, _ := spanAttr(missing, "viewroute.status"); v.AsString() != "not_found" {
		t.Errorf("missing status attr = %q", v.AsString())
	}
}

func TestOpenTelemetryMiddleware_FilterSkipsTracing(t *testing.T) {
	r, sr, _ := newTracedRouter(t, WithNavigationFilter(func(target string) bool {
		return target != "/"
	}))

	if _, err := r.Navigate(context.Background(), "/"); err != nil {
		t.Fatal(err)
	}
	if n := len(sr.Ended()); n != 0 {
		t.Errorf("filtered navigation produced %d spans", n)
	}
}

func TestOpenTelemetryMiddleware_GlobalProvider(t *testing.T) {
	// Without a provider the global no-op tracer is used and navigation works.
	r := router.MustNew([]router.RouteEntry{
		{Path: "/", Name: "Home", Loader: router.Eager(&testView{module: "HomeView"})},
	}, router.WithMiddleware(OpenTelemetry(WithTracerName("test"))))

	if _, err := r.Navigate(context.Background(), "/"); err != nil {
		t.Fatal(err)
	}
}
