package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/viewroute/pkg/router"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "viewroute").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation and load duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "viewroute",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// unmatchedRoute labels navigations that resolved to no route.
const unmatchedRoute = "unmatched"

// Metrics collects navigation and view load metrics.
//
// It is a router.Middleware; its ObserveLoad method is a router.LoadObserver
// for lazy loaders.
type Metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	loadsTotal         *prometheus.CounterVec
	loadDuration       *prometheus.HistogramVec
	viewsLoaded        prometheus.Gauge
}

// Prometheus creates the metrics middleware and registers its collectors.
// It panics if registration fails; see NewPrometheus.
//
// Metrics collected:
//   - viewroute_navigations_total: Counter of navigations by route and status
//   - viewroute_navigation_duration_seconds: Histogram of navigation duration by route
//   - viewroute_view_loads_total: Counter of lazy load invocations by module and status
//   - viewroute_view_load_duration_seconds: Histogram of lazy load duration by module
//   - viewroute_views_loaded: Gauge of lazily loaded views held in memory
//
// Example:
//
//	m := middleware.Prometheus(middleware.WithNamespace("myapp"))
//	form := router.Lazy("FormView", load, router.WithLoadObserver(m.ObserveLoad))
//	r, err := router.New(routes, router.WithMiddleware(m))
//
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) *Metrics {
	m, err := NewPrometheus(opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// NewPrometheus is like Prometheus but returns registration errors, such as
// a prometheus.AlreadyRegisteredError when the registry already holds the
// collectors of another Metrics with the same namespace. Nothing stays
// registered when it fails.
func NewPrometheus(opts ...MetricsOption) (*Metrics, error) {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	m := &Metrics{
		navigationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations by route and status",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "status"}),

		navigationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation duration in seconds, including lazy view loads",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		loadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "view_loads_total",
			Help:        "Total number of lazy view load invocations",
			ConstLabels: config.ConstLabels,
		}, []string{"module", "status"}),

		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "view_load_duration_seconds",
			Help:        "Lazy view load duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"module"}),

		viewsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "views_loaded",
			Help:        "Number of lazily loaded views held in memory",
			ConstLabels: config.ConstLabels,
		}),
	}

	collectors := []prometheus.Collector{
		m.navigationsTotal,
		m.navigationDuration,
		m.loadsTotal,
		m.loadDuration,
		m.viewsLoaded,
	}
	for i, c := range collectors {
		if err := config.Registry.Register(c); err != nil {
			for _, done := range collectors[:i] {
				config.Registry.Unregister(done)
			}
			return nil, err
		}
	}
	return m, nil
}

// Handle implements router.Middleware.
func (m *Metrics) Handle(ctx context.Context, nav *router.Navigation, next func(context.Context) error) error {
	start := time.Now()
	err := next(ctx)

	route := nav.RouteName()
	if route == "" {
		route = unmatchedRoute
	}
	m.navigationDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	m.navigationsTotal.WithLabelValues(route, Status(err)).Inc()

	return err
}

// ObserveLoad records a lazy load invocation. It satisfies router.LoadObserver.
func (m *Metrics) ObserveLoad(module string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	} else {
		m.viewsLoaded.Inc()
	}
	m.loadsTotal.WithLabelValues(module, status).Inc()
	m.loadDuration.WithLabelValues(module).Observe(d.Seconds())
}

// Status returns a low-cardinality label for a navigation outcome.
func Status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, router.ErrNotFound):
		return "not_found"
	case errors.Is(err, router.ErrLoadFailure):
		return "load_failed"
	case errors.Is(err, router.ErrInvalidPath):
		return "invalid_path"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
