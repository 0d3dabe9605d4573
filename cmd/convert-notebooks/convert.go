// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/convert-notebooks/internal/convert"
	"github.com/pdiddy/convert-notebooks/internal/gitdate"
	"github.com/pdiddy/convert-notebooks/internal/nbconvert"
	"github.com/pdiddy/convert-notebooks/pkg/types"
)

func runConvert(cmd *cobra.Command, args []string) error {
	inputDir, outputDir := args[0], args[1]
	if err := convert.ValidateDirs(inputDir, outputDir); err != nil {
		return err
	}
	cmd.SilenceUsage = true

	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	conv, err := nbconvert.New(cfg.Converter)
	if err != nil {
		return err
	}

	result, err := convertAll(cmd.Context(), cfg, conv, inputDir, outputDir, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d notebook(s) failed conversion", result.Failed)
	}
	return nil
}

// setup loads the configuration and builds the logger from it.
func setup() (types.Config, *slog.Logger, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return types.Config{}, nil, err
	}
	logger, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return types.Config{}, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// convertAll discovers every notebook under inputDir and converts it into
// outputDir, printing per-notebook status to w.
func convertAll(ctx context.Context, cfg types.Config, conv nbconvert.Converter, inputDir, outputDir string, w io.Writer, logger *slog.Logger) (convert.BatchResult, error) {
	dates := gitdate.New(cfg.Git, logger)
	pipeline := convert.NewPipeline(outputDir, conv, dates, cfg.Post, logger)
	if err := pipeline.EnsureLayout(); err != nil {
		return convert.BatchResult{}, err
	}

	notebooks, err := convert.Discover(inputDir, types.Languages)
	if err != nil {
		return convert.BatchResult{}, err
	}
	logger.Debug("discovered notebooks", "count", len(notebooks), "input", inputDir)

	batch := &convert.Batch{
		Converter: pipeline,
		Exclude:   cfg.Exclude,
		FailFast:  cfg.FailFast,
	}
	result := batch.Run(ctx, notebooks, w)
	if err := result.Err(); err != nil {
		logger.Error("conversion failures", "failed", result.Failed, "err", err)
	}
	return result, nil
}
