// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the convert-notebooks CLI, which turns
// Jupyter notebooks into blog posts with front matter and relocated images.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/convert-notebooks/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd converts every notebook under an input directory.
var rootCmd = &cobra.Command{
	Use:   "convert-notebooks <input_dir> <output_dir>",
	Short: "Convert Jupyter notebooks into blog-ready markdown posts",
	Long: `convert-notebooks finds notebooks under <input_dir>/python and <input_dir>/R,
converts each one to markdown with jupyter nbconvert, and writes it to the
_posts directory of <output_dir> with front matter (layout, title, category,
author, tags). The post date comes from the notebook's last git commit. Images
emitted by the converter are moved to the sibling images directory and the
references to them rewritten.

Every notebook is attempted; failures are reported at the end and make the
command exit non-zero. Use --fail-fast to stop at the first failure.`,
	Args: usageArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	},
	RunE: runConvert,
}

// usageArgs requires exactly an input and an output directory.
func usageArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w (got %d arguments)", types.ErrUsage, len(args))
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := types.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./convert-notebooks.yaml or ~/.config/convert-notebooks/convert-notebooks.yaml)")
	flags.String("repo-root", defaults.Git.RepoRoot, "git working tree the notebooks are versioned in")
	flags.String("backend", string(defaults.Converter.Backend), "converter backend: local or container")
	flags.String("format", string(defaults.Post.Format), "front matter format: yaml or toml")
	flags.String("images-url", defaults.Post.ImagesURL, "URL prefix that replaces the posts directory in image references")
	flags.StringSlice("exclude", defaults.Exclude, "notebook paths or glob patterns to skip")
	flags.Bool("fail-fast", false, "stop at the first notebook that fails")
	flags.String("log-level", defaults.Log.Level, "log level: debug, info, warn, error")
	flags.String("log-format", defaults.Log.Format, "log format: text or json")

	bindFlags(map[string]string{
		"git.repo_root":     "repo-root",
		"converter.backend": "backend",
		"post.format":       "format",
		"post.images_url":   "images-url",
		"exclude":           "exclude",
		"fail_fast":         "fail-fast",
		"log.level":         "log-level",
		"log.format":        "log-format",
	})
}

func bindFlags(keys map[string]string) {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("convert-notebooks")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "convert-notebooks"))
		}
	}

	setDefaults(viper.GetViper(), types.DefaultConfig())

	viper.SetEnvPrefix("CONVERT_NOTEBOOKS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
