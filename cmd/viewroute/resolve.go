package main

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/viewroute/internal/errors"
)

func resolveCmd(load configLoader) *cobra.Command {
	var noLoad bool

	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve a path against the route table",
		Long: `Resolve a path against the route table and report the matched route,
its captured params and its view.

Examples:
  viewroute resolve /update/42
  viewroute resolve '/create?draft=1'
  viewroute resolve --no-load /update/42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, load)
			if err != nil {
				return err
			}
			r := app.Router()
			w := cmd.OutOrStdout()

			m, err := r.Resolve(args[0])
			if err != nil {
				return err
			}
			success(w, "%s matches %s (%s)", args[0], m.Entry.Name, m.Entry.Path)
			if len(m.Params) > 0 {
				info(w, "params: %s", formatParams(m.Params))
			}
			if len(m.Query) > 0 {
				info(w, "query:  %s", m.Query.Encode())
			}
			if m.Fragment != "" {
				info(w, "hash:   #%s", m.Fragment)
			}

			if noLoad {
				return nil
			}
			view, err := r.ResolveView(cmd.Context(), m.Entry)
			if err != nil {
				return err
			}
			info(w, "view:   %s", view.Module())
			return nil
		},
	}

	cmd.Flags().BoolVar(&noLoad, "no-load", false, "Match only; do not load the view")

	return cmd
}

func hrefCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "href <name> [param=value...]",
		Short: "Build the URL of a named route",
		Long: `Build the URL of a named route, filling its captures.

Examples:
  viewroute href Create
  viewroute href Update id=42`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make(map[string]string, len(args)-1)
			for _, kv := range args[1:] {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					return errors.Newf(errors.CategoryCLI, "param %q: want name=value", kv)
				}
				params[k] = v
			}

			app, err := newApp(cmd, load)
			if err != nil {
				return err
			}
			href, err := app.Router().Href(args[0], params)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), href)
			return nil
		},
	}
}

// formatParams renders params in key order.
func formatParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + url.QueryEscape(params[k])
	}
	return strings.Join(parts, " ")
}
