package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/synthasl/dataset/index"
	"github.com/YuminosukeSato/synthasl/pkg/errors"
	"github.com/YuminosukeSato/synthasl/pkg/log"
	"github.com/YuminosukeSato/synthasl/report"
)

// Chart file names written by the report command.
const (
	distanceChart = "distance_histogram.png"
	styleChart    = "style_counts.png"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	var root, out string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write distribution charts for a dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("root") {
				opts.cfg.OutputRoot = root
			}
			return runReport(cmd, opts, out)
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "Dataset directory (default from config)")
	cmd.Flags().StringVar(&out, "out", "", "Chart directory (default: the dataset root)")
	return cmd
}

func runReport(cmd *cobra.Command, opts *rootOptions, out string) error {
	cfg := opts.cfg
	if out == "" {
		out = cfg.OutputRoot
	}
	logger := log.GetLogger().With(log.ComponentKey, "report", log.RootKey, cfg.OutputRoot)

	records, err := index.Read(filepath.Join(cfg.OutputRoot, cfg.IndexFile))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return errors.NewPersistenceError("create directory", out, err)
	}

	hist := filepath.Join(out, distanceChart)
	if err := report.PlotDistanceHistogram(records, hist); err != nil {
		return err
	}
	bars := filepath.Join(out, styleChart)
	if err := report.PlotStyleCounts(records, bars); err != nil {
		return err
	}
	logger.Info("Charts written",
		log.OperationKey, log.OperationReport,
		log.SamplesKey, len(records),
		log.PathKey, out,
	)

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", hist, bars)
	return nil
}
