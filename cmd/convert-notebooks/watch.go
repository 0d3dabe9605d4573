// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/convert-notebooks/internal/convert"
	"github.com/pdiddy/convert-notebooks/internal/nbconvert"
	"github.com/pdiddy/convert-notebooks/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <input_dir> <output_dir>",
	Short: "Convert all notebooks, then reconvert whenever one changes",
	Long: `Watch runs a full conversion, then polls <input_dir> and reruns the
conversion each time a notebook is created, modified, or removed. Runs until
interrupted.`,
	Args: usageArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("interval", 500*time.Millisecond, "polling interval")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	inputDir, outputDir := args[0], args[1]
	if err := convert.ValidateDirs(inputDir, outputDir); err != nil {
		return err
	}
	cmd.SilenceUsage = true

	interval, _ := cmd.Flags().GetDuration("interval")

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	conv, err := nbconvert.New(cfg.Converter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rebuild := func(ctx context.Context) {
		if _, err := convertAll(ctx, cfg, conv, inputDir, outputDir, out, logger); err != nil {
			logger.Error("conversion run failed", "err", err)
		}
	}
	rebuild(cmd.Context())

	w, err := watch.New(inputDir, logger)
	if err != nil {
		return err
	}
	return w.Run(cmd.Context(), interval, rebuild)
}
