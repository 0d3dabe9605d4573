// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// ErrUsage is returned when the command line arguments do not describe a
// runnable conversion (wrong argument count, missing directories).
var ErrUsage = errors.New("usage: convert-notebooks input_dir output_dir")

// ConverterBackend identifies how the notebook-to-markdown converter is run.
type ConverterBackend string

const (
	// BackendLocal runs jupyter nbconvert from PATH.
	BackendLocal ConverterBackend = "local"
	// BackendContainer runs jupyter nbconvert inside a docker or podman container.
	BackendContainer ConverterBackend = "container"
)

// ConverterConfig holds settings for the external notebook converter.
type ConverterConfig struct {
	// Backend selects local or container execution.
	Backend ConverterBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Command is the converter binary for the local backend (default "jupyter").
	Command string `json:"command" yaml:"command" mapstructure:"command"`

	// Image is the container image for the container backend.
	Image string `json:"image" yaml:"image" mapstructure:"image"`
}

// GitConfig holds settings for the date resolver.
type GitConfig struct {
	// Command is the version-control client binary (default "git").
	Command string `json:"command" yaml:"command" mapstructure:"command"`

	// RepoRoot is the working tree the log query is scoped to (default "tutorials").
	RepoRoot string `json:"repo_root" yaml:"repo_root" mapstructure:"repo_root"`
}

// PostConfig holds settings that shape the generated posts.
type PostConfig struct {
	// Format selects YAML or TOML front matter (default yaml).
	Format FrontMatterFormat `json:"format" yaml:"format" mapstructure:"format"`

	// StripSubstring is removed from notebook names before building the
	// output filename (default "tutorials").
	StripSubstring string `json:"strip_substring" yaml:"strip_substring" mapstructure:"strip_substring"`

	// ImagesURL replaces the posts directory in image references (default "/images").
	ImagesURL string `json:"images_url" yaml:"images_url" mapstructure:"images_url"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is text or json (default text).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all settings for a conversion run.
type Config struct {
	Converter ConverterConfig `json:"converter" yaml:"converter" mapstructure:"converter"`
	Git       GitConfig       `json:"git" yaml:"git" mapstructure:"git"`
	Post      PostConfig      `json:"post" yaml:"post" mapstructure:"post"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`

	// Exclude lists notebook paths (or glob patterns) that are never converted.
	Exclude []string `json:"exclude" yaml:"exclude" mapstructure:"exclude"`

	// FailFast aborts the batch on the first failed notebook instead of
	// attempting every notebook and reporting failures at the end.
	FailFast bool `json:"fail_fast" yaml:"fail_fast" mapstructure:"fail_fast"`
}

// DefaultExclude lists notebooks known not to render as posts.
var DefaultExclude = []string{"tutorials/python/introduction_to_bokeh.ipynb"}

// DefaultConfig returns the configuration used when no file, environment,
// or flag overrides a setting.
func DefaultConfig() Config {
	return Config{
		Converter: ConverterConfig{
			Backend: BackendLocal,
			Command: "jupyter",
			Image:   "jupyter/base-notebook:latest",
		},
		Git: GitConfig{
			Command:  "git",
			RepoRoot: "tutorials",
		},
		Post: PostConfig{
			Format:         FormatYAML,
			StripSubstring: "tutorials",
			ImagesURL:      "/images",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Exclude: append([]string(nil), DefaultExclude...),
	}
}
