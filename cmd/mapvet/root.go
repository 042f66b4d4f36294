package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mapvet/internal/config"
)

// Output formats.
const (
	formatText = "text"
	formatYAML = "yaml"
)

// errViolations is returned by commands whose input has validation errors.
// The violations themselves have already been printed.
var errViolations = errors.New("mapping has violations")

// app carries the state shared by subcommands once flags are parsed.
type app struct {
	configPath string
	logLevel   string
	format     string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "mapvet",
		Short:         "Validate conceptual-to-store mapping documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a mapvet configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.format, "format", formatText, "output format: text or yaml")

	root.AddCommand(newValidateCmd(a), newGroupsCmd(a), newVersionCmd())

	return root
}

// setup loads the configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()

	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}

		cfg = loaded
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if a.format != formatText && a.format != formatYAML {
		return fmt.Errorf("unknown output format %q", a.format)
	}

	a.cfg = cfg
	a.logger = cfg.Log.NewLogger(cmd.ErrOrStderr())

	return nil
}
