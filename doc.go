// Package viewroute is a client-side style router for a three-route web UI.
//
// The route table maps paths to views, first match wins:
//
//	/             Home    eager  (HomeView)
//	/create       Create  lazy   (FormView)
//	/update/:id   Update  lazy   (FormView)
//
// Create and Update share one lazily loaded FormView; it is fetched from the
// view source on first use and reused afterwards. The routing core lives in
// pkg/router; this package wires it to configuration, view sources, metrics,
// tracing and the HTTP shell.
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app, err := viewroute.New(ctx, cfg, viewroute.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(app.ListenAndServe(ctx))
package viewroute
