// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gitdate derives a post's publication date from the most recent
// commit touching its source notebook.
package gitdate

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/convert-notebooks/pkg/types"
)

// logFormat prints the abbreviated hash and subject, then the committer
// date and author on a second line.
const logFormat = "--format=%h %s%n%x09%ci, %an <%ae>"

// datePattern matches the first YYYY-MM-DD date in the log output. The
// subject line is searched too, so a date in the commit message wins.
var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// runner abstracts command execution for testing.
type runner interface {
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// osRunner is the production runner backed by os/exec.
type osRunner struct{}

func (osRunner) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return out, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, err
}

// Resolver queries the commit history of a working tree. The query runs with
// the repository root as its working directory; the process working
// directory is never changed.
type Resolver struct {
	git    string
	root   string
	run    runner
	logger *slog.Logger
}

// New creates a Resolver for the working tree at cfg.RepoRoot.
func New(cfg types.GitConfig, logger *slog.Logger) *Resolver {
	return newResolver(cfg, osRunner{}, logger)
}

func newResolver(cfg types.GitConfig, run runner, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	git := cfg.Command
	if git == "" {
		git = "git"
	}
	return &Resolver{git: git, root: cfg.RepoRoot, run: run, logger: logger}
}

// Resolve returns the date of the last commit touching notebookPath as
// "YYYY-MM-DD-". When the log output holds no date it returns "-" and logs a
// warning; the post is still produced, just without a date prefix.
func (r *Resolver) Resolve(ctx context.Context, notebookPath string) (string, error) {
	absPath, err := filepath.Abs(notebookPath)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", notebookPath, err)
	}
	root, err := filepath.Abs(r.root)
	if err != nil {
		return "", fmt.Errorf("resolving repository root %s: %w", r.root, err)
	}

	out, err := r.run.Output(ctx, root, r.git, "log", "-1", logFormat, "--", absPath)
	if err != nil {
		return "", fmt.Errorf("%w for %s: %w", types.ErrGitFailed, notebookPath, err)
	}

	date, ok := ParseDate(string(out))
	if !ok {
		r.logger.Warn("date not found in commit info",
			"notebook", notebookPath,
			"commit_info", strings.TrimSpace(string(out)))
	}
	return date + "-", nil
}

// ParseDate returns the first YYYY-MM-DD substring of s.
func ParseDate(s string) (string, bool) {
	date := datePattern.FindString(s)
	return date, date != ""
}

