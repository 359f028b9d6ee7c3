package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/viewroute/internal/errors"
)

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe error codes",
		Long: `Describe the error codes printed by viewroute.

Without arguments, lists every code. With a code, prints its category,
description and suggested fix.

Examples:
  viewroute explain
  viewroute explain R002`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			if len(args) == 0 {
				for _, code := range errors.GetAllCodes() {
					t, _ := errors.GetTemplate(code)
					fmt.Fprintf(w, "%s  %-8s %s\n", code, t.Category, t.Message)
				}
				return nil
			}

			code := strings.ToUpper(args[0])
			t, ok := errors.GetTemplate(code)
			if !ok {
				return errors.Newf(errors.CategoryCLI, "unknown error code %q", args[0]).
					WithSuggestion("Run viewroute explain to list all codes")
			}

			fmt.Fprintf(w, "%s: %s\n", code, t.Message)
			info(w, "Category: %s", t.Category)
			if t.Detail != "" {
				info(w, "%s", t.Detail)
			}
			if t.Suggestion != "" {
				info(w, "Hint: %s", t.Suggestion)
			}
			return nil
		},
	}
}
