// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package nbconvert runs the external notebook-to-markdown converter
// (jupyter nbconvert) either from the local PATH or inside a container.
package nbconvert

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pdiddy/convert-notebooks/internal/container"
	"github.com/pdiddy/convert-notebooks/pkg/types"
)

// Converter renders a notebook to markdown. The markdown is written to
// outputPrefix + ".md" and any extracted images next to it, named after
// outputPrefix.
type Converter interface {
	Convert(ctx context.Context, notebookPath, outputPrefix string) error
}

// New returns the converter selected by cfg.Backend.
func New(cfg types.ConverterConfig) (Converter, error) {
	switch cfg.Backend {
	case types.BackendLocal, "":
		return NewLocalConverter(cfg.Command), nil
	case types.BackendContainer:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return NewContainerConverter(rt, cfg.Image)
	}
	return nil, fmt.Errorf("unknown converter backend %q: use local or container", cfg.Backend)
}

// nbconvertArgs builds the nbconvert argument list that writes
// <outDir>/<name>.md from input.
func nbconvertArgs(input, outDir, name string) []string {
	return []string{
		"nbconvert", "--to", "markdown",
		"--output-dir", outDir,
		"--output", name,
		input,
	}
}

// runner abstracts command execution for testing.
type runner interface {
	Run(ctx context.Context, name string, args []string) ([]byte, error)
}

// osRunner runs the command and returns its combined output.
type osRunner struct{}

func (osRunner) Run(ctx context.Context, name string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// LocalConverter runs jupyter nbconvert from PATH.
type LocalConverter struct {
	command string
	run     runner
}

// NewLocalConverter creates a converter that invokes command (default
// "jupyter") with the nbconvert subcommand.
func NewLocalConverter(command string) *LocalConverter {
	if command == "" {
		command = "jupyter"
	}
	return &LocalConverter{command: command, run: osRunner{}}
}

// Convert invokes nbconvert with absolute input and output paths. A nonzero
// exit is reported as types.ErrConverterFailed along with the tool's output.
func (c *LocalConverter) Convert(ctx context.Context, notebookPath, outputPrefix string) error {
	input, err := filepath.Abs(notebookPath)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", notebookPath, err)
	}
	output, err := filepath.Abs(outputPrefix)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", outputPrefix, err)
	}

	args := nbconvertArgs(input, filepath.Dir(output), filepath.Base(output))
	if out, err := c.run.Run(ctx, c.command, args); err != nil {
		return fmt.Errorf("%w: %s %s: %w: %s", types.ErrConverterFailed,
			c.command, strings.Join(args, " "), err, lastLine(out))
	}
	return nil
}

// lastLine returns the final non-empty line of tool output, which for
// nbconvert is the traceback's error message.
func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
