package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vango-dev/viewroute"
)

func serveCmd(load configLoader) *cobra.Command {
	var (
		addr string
		base string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server.

Views are served under the base path; the navigation websocket is at
<base>/_nav, the health check at <base>/healthz and Prometheus metrics
at the configured metrics path.

Examples:
  viewroute serve
  viewroute serve --addr=:9000
  BASE_URL=https://example.com/app/ viewroute serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("base") {
				cfg.Base = base
			}

			logger := newLogger(cfg, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := viewroute.New(ctx, cfg, viewroute.WithLogger(logger))
			if err != nil {
				return err
			}
			return app.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&base, "base", "", "Deployment base URL (default from config or BASE_URL)")

	return cmd
}
