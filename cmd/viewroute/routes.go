package main

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vango-dev/viewroute"
	"github.com/vango-dev/viewroute/pkg/router"
)

// newApp builds the application without serving it. Logs go nowhere so
// command output stays clean.
func newApp(cmd *cobra.Command, load configLoader) (*viewroute.App, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	cfg.Metrics.Enabled = false
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return viewroute.New(cmd.Context(), cfg, viewroute.WithLogger(logger))
}

func routesCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the route table",
		Long:  `List the route table in match order, with each route's view module and loading mode.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, load)
			if err != nil {
				return err
			}
			printRoutes(cmd.OutOrStdout(), app.Router())
			return nil
		},
	}
}

func printRoutes(w io.Writer, r *router.Router) {
	if base := r.Base(); base != "" {
		fmt.Fprintf(w, "Base: %s\n\n", base)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tNAME\tVIEW\tLOADING")
	for _, e := range r.Routes() {
		loading := "eager"
		if e.Lazy() {
			loading = "lazy"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Path, e.Name, e.Loader.Module(), loading)
	}
	tw.Flush()
}
