package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/viewroute/internal/config"
	"github.com/vango-dev/viewroute/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		printError(os.Stderr, cmd, err)
		os.Exit(1)
	}
}

// printError writes err in the format selected by --error-format.
func printError(w io.Writer, cmd *cobra.Command, err error) {
	format, _ := cmd.PersistentFlags().GetString("error-format")
	errors.FprintAs(w, errors.FromError(err, "X002"), format)
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "viewroute",
		Short: "Serve and inspect the viewroute route table",
		Long: `viewroute serves a three-route web UI and lets you inspect how
paths resolve against its route table.

Configuration is read from viewroute.json or viewroute.toml in the
working directory, or from the file given with --config. BASE_URL
sets the deployment base URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var errorFormat string

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default viewroute.json or viewroute.toml)")
	rootCmd.PersistentFlags().StringVar(&errorFormat, "error-format", errors.OutputText, "Error output: text, compact or json")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !errors.ValidOutput(errorFormat) {
			return errors.Newf(errors.CategoryCLI, "unknown error format %q (want text, compact or json)", errorFormat)
		}
		return nil
	}

	load := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	rootCmd.AddCommand(
		serveCmd(load),
		routesCmd(load),
		resolveCmd(load),
		hrefCmd(load),
		explainCmd(),
		versionCmd(),
	)

	return rootCmd
}

// configLoader loads the effective configuration.
type configLoader func() (*config.Config, error)

// newLogger builds the logger described by cfg.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, _ := cfg.LogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
