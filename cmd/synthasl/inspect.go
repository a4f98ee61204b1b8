package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/synthasl/core/parallel"
	"github.com/YuminosukeSato/synthasl/loader"
	"github.com/YuminosukeSato/synthasl/pkg/log"
	"github.com/YuminosukeSato/synthasl/report"
)

func newInspectCmd(opts *rootOptions) *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Validate a dataset and print its label distribution",
		Long: `Reads labels.xlsx, decodes every image listed in it and prints
per-letter and per-style counts with distance statistics. The first
malformed row or unreadable image fails the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("root") {
				opts.cfg.OutputRoot = root
			}
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "Dataset directory (default from config)")
	return cmd
}

func runInspect(cmd *cobra.Command, opts *rootOptions) error {
	cfg := opts.cfg
	ds, err := loader.Open(cfg.OutputRoot, append(cfg.LoaderOptions(), loader.WithLogger(log.GetLogger()))...)
	if err != nil {
		return err
	}

	err = parallel.ForEach(cmd.Context(), ds.Len(), cfg.Workers, func(_ context.Context, i int) error {
		_, err := ds.Get(i)
		return err
	})
	if err != nil {
		return err
	}

	s, err := report.Summarize(ds.Records())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "dataset %s: %d images decoded\n", ds.Root(), ds.Len())
	return s.Fprint(cmd.OutOrStdout())
}
