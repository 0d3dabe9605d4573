// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/convert-notebooks/pkg/types"
)

// setDefaults registers every config key so environment variables can
// override keys that appear in neither the config file nor the flags.
func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("converter.backend", string(d.Converter.Backend))
	v.SetDefault("converter.command", d.Converter.Command)
	v.SetDefault("converter.image", d.Converter.Image)
	v.SetDefault("git.command", d.Git.Command)
	v.SetDefault("git.repo_root", d.Git.RepoRoot)
	v.SetDefault("post.format", string(d.Post.Format))
	v.SetDefault("post.strip_substring", d.Post.StripSubstring)
	v.SetDefault("post.images_url", d.Post.ImagesURL)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("fail_fast", d.FailFast)
}

// loadConfig decodes the merged flag, environment, file, and default
// settings into a Config.
func loadConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	switch cfg.Post.Format {
	case types.FormatYAML, types.FormatTOML:
	default:
		return types.Config{}, fmt.Errorf("unsupported front matter format %q: use yaml or toml", cfg.Post.Format)
	}
	return cfg, nil
}

// newLogger builds the diagnostic logger. Status lines for each notebook go
// to stdout separately; the logger carries warnings and debug detail.
func newLogger(cfg types.LogConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unsupported log format %q: use text or json", cfg.Format)
}
