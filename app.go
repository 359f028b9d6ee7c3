package viewroute

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/viewroute/internal/config"
	"github.com/vango-dev/viewroute/internal/errors"
	"github.com/vango-dev/viewroute/internal/views"
	"github.com/vango-dev/viewroute/pkg/middleware"
	"github.com/vango-dev/viewroute/pkg/router"
	"github.com/vango-dev/viewroute/pkg/shell"
)

// =============================================================================
// Route Table
// =============================================================================

// View modules of the route table.
const (
	HomeModule = "HomeView"
	FormModule = "FormView"
)

// Routes returns the application's route table, in match order.
//
// Create and Update share form, so the form module is loaded once for both.
func Routes(home, form router.Loader) []router.RouteEntry {
	return []router.RouteEntry{
		{Path: "/", Name: "Home", Loader: home},
		{Path: "/create", Name: "Create", Loader: form},
		{Path: "/update/:id", Name: "Update", Loader: form},
	}
}

// =============================================================================
// App Type
// =============================================================================

// App wires configuration, view source, router, middleware and shell into
// a single server.
//
//	cfg, err := config.Load("")
//	app, err := viewroute.New(ctx, cfg)
//	err = app.ListenAndServe(ctx)
type App struct {
	config *config.Config
	router *router.Router
	shell  *shell.Shell
	logger *slog.Logger

	registry *prometheus.Registry
	metrics  *middleware.Metrics
}

// New creates an App from cfg.
//
// The eager Home view is read from the view source immediately; the form
// view is loaded on first navigation to Create or Update.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	app := &App{
		config: cfg,
		logger: o.logger,
	}

	src := o.source
	if src == nil {
		var err error
		if src, err = SourceFor(ctx, cfg); err != nil {
			return nil, errors.New("V001").Wrap(err)
		}
	}

	if cfg.Metrics.Enabled {
		app.registry = o.registry
		if app.registry == nil {
			app.registry = prometheus.NewRegistry()
			app.registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}
		m, err := middleware.NewPrometheus(middleware.WithRegistry(app.registry))
		if err != nil {
			return nil, errors.New("X003").Wrap(err)
		}
		app.metrics = m
	}

	home, err := views.Eager(ctx, src, HomeModule)
	if err != nil {
		return nil, viewError(err)
	}

	lazyOpts := []router.LazyOption{router.WithLoadTimeout(cfg.LoadTimeout())}
	if app.metrics != nil {
		lazyOpts = append(lazyOpts, router.WithLoadObserver(app.metrics.ObserveLoad))
	}
	form := views.Lazy(src, FormModule, lazyOpts...)

	mw := []router.Middleware{
		middleware.Logging(o.logger),
		middleware.OpenTelemetry(middleware.WithTracerProvider(o.tracerProvider)),
	}
	if app.metrics != nil {
		mw = append(mw, app.metrics)
	}
	mw = append(mw, o.middleware...)

	app.router, err = router.New(Routes(home, form),
		router.WithBase(cfg.Base),
		router.WithLogger(o.logger),
		router.WithMiddleware(mw...),
	)
	if err != nil {
		return nil, errors.FromError(err, "R004")
	}

	shellOpts := []shell.Option{shell.WithLogger(o.logger)}
	if app.registry != nil {
		shellOpts = append(shellOpts, shell.WithMetricsHandler(cfg.Metrics.Path,
			promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{Registry: app.registry})))
	}
	app.shell = shell.New(app.router, shellOpts...)

	return app, nil
}

// SourceFor returns the view source selected by cfg. Building an S3 source
// loads the AWS config, which fails on an unknown profile or a malformed
// shared config file.
func SourceFor(ctx context.Context, cfg *config.Config) (views.Source, error) {
	switch cfg.Views.Source {
	case config.SourceDir:
		return views.Dir(cfg.Views.Dir), nil
	case config.SourceS3:
		client, err := views.NewS3Client(ctx, views.S3Config{
			Region:    cfg.Views.Region,
			Endpoint:  cfg.Views.Endpoint,
			PathStyle: cfg.Views.PathStyle,
			Profile:   cfg.Views.Profile,
		})
		if err != nil {
			return nil, err
		}
		return views.NewS3Source(client, cfg.Views.Bucket, cfg.Views.Prefix), nil
	default:
		return views.Embedded(), nil
	}
}

func viewError(err error) error {
	if stderrors.Is(err, views.ErrInvalidTemplate) {
		return errors.New("V002").Wrap(err)
	}
	return errors.New("V001").Wrap(err)
}

// =============================================================================
// Accessors
// =============================================================================

// Router returns the application router.
func (a *App) Router() *router.Router {
	return a.router
}

// Registry returns the metrics registry, or nil when metrics are disabled.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// Handler returns the HTTP handler serving the application.
func (a *App) Handler() http.Handler {
	return a.shell.Handler()
}

// Navigate resolves path and its view. See router.Router.Navigate.
func (a *App) Navigate(ctx context.Context, path string) (*router.Navigation, error) {
	return a.router.Navigate(ctx, path)
}

// =============================================================================
// Serving
// =============================================================================

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (a *App) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.Addr)
	if err != nil {
		return errors.New("X001").Wrap(err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	srv.RegisterOnShutdown(a.shell.Close)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			"address", ln.Addr().String(),
			"base", a.router.Base(),
			"views", a.config.Views.Source,
		)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return errors.New("X001").Wrap(err)
		}
		return nil

	case <-ctx.Done():
		a.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("shutdown error", "error", err)
			return errors.New("X001").Wrap(err)
		}
		a.logger.Info("server shutdown complete")
		return nil
	}
}
