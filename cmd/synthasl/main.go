// Command synthasl generates, inspects and reports on synthetic
// abstract-letter image datasets.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/synthasl/config"
	"github.com/YuminosukeSato/synthasl/pkg/log"
)

// rootOptions carries the global flags and the configuration resolved from
// them before any subcommand runs.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "synthasl",
		Short: "Synthetic abstract-letter image dataset generator",
		Long: `synthasl fabricates a labeled image dataset from procedural patterns.

Every letter A-Z maps to one of four pattern families. Each sample carries
the letter as its class and a sampled distance as its regression target;
farther samples are drawn smaller. Images are written under one directory
per letter and indexed by labels.xlsx at the dataset root.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML config file")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format: console or json")

	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newInspectCmd(opts))
	cmd.AddCommand(newReportCmd(opts))
	return cmd
}

// setup loads the configuration and installs the process-wide logger.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}
	if err := log.SetupLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.GetLogger().Error("Command failed", log.ErrAttrKey, err)
		stop()
		os.Exit(1)
	}
}
