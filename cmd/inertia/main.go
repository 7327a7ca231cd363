// Package main is the entry point for the inertia pager.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/inertia/internal/app"
	"github.com/dshills/inertia/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd(runApp)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// newRootCmd builds the command line. start receives the parsed options.
func newRootCmd(start func(ctx context.Context, opts app.Options) error) *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "inertia [files...]",
		Short: "Terminal pager with inertial mouse-wheel scrolling",
		Long: `inertia opens text files in a terminal pager. Turning the mouse wheel
gives the view momentum: it keeps scrolling after the wheel stops and
slows down smoothly. Without files it shows the key bindings.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Files = args
			return start(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "settings file (TOML or YAML)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.LogFile, "log-file", "", "write logs to this file")
	flags.BoolVar(&opts.NoWatch, "no-watch", false, "do not reload the settings file when it changes")
	cmd.SetVersionTemplate("inertia {{.Version}}\n")

	return cmd
}

func runApp(ctx context.Context, opts app.Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(opts)
	if application == nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	// Ensure cleanup on all exit paths
	defer application.Shutdown()
	if err != nil {
		// Files that failed to open are listed; the rest still run.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	term, err := backend.NewTerminal()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	if err := application.SetBackend(term); err != nil {
		return fmt.Errorf("failed to set backend: %w", err)
	}

	if err := application.Run(ctx); err != nil && !errors.Is(err, app.ErrQuit) {
		return err
	}
	return nil
}
