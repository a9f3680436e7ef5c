package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meenmo/krdhedge/config"
)

// errItemsFailed signals that output was written but at least one request
// item carried an error.
var errItemsFailed = errors.New("one or more items failed")

// app is the state shared by all subcommands of one invocation.
type app struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "hedgecalc",
		Short:         "Key-rate DV01 and least-squares hedge calculator",
		Long:          "Computes localized key-rate sensitivities of bonds on a zero curve and solves ridge least-squares hedges.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "YAML config file (defaults apply when omitted)")
	f.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	root.AddCommand(newKRDCmd(a))
	root.AddCommand(newHedgeCmd(a))
	root.AddCommand(newHistoryCmd(a))
	return root
}

func (a *app) setup(stderr io.Writer) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.LoadAndValidate(a.configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	if a.logLevel != "" {
		cfg.Log.Level = strings.ToLower(a.logLevel)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return fmt.Errorf("log level %q: %w", cfg.Log.Level, err)
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	a.logger.Debug("config loaded", "path", a.configPath, "ridge_lambda", cfg.Solver.RidgeLambda,
		"key_grid_years", cfg.Risk.KeyGridYears, "archive", cfg.Archive.Driver)
	return nil
}

// Execute runs hedgecalc with os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

// ExitCode maps an Execute error to a process exit status. Errors other than
// failed items have not produced JSON yet, so they are reported on stderr.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if !errors.Is(err, errItemsFailed) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return 1
}
