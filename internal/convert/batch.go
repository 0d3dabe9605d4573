// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdiddy/convert-notebooks/pkg/types"
)

const notebookExt = ".ipynb"

// ValidateDirs checks that the input and output directories exist.
func ValidateDirs(inputDir, outputDir string) error {
	for _, d := range []struct{ role, path string }{
		{"input", inputDir},
		{"output", outputDir},
	} {
		info, err := os.Stat(d.path)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: please specify an existing %s directory (got %q)", types.ErrUsage, d.role, d.path)
		}
	}
	return nil
}

// Discover returns the notebooks under inputDir/<lang dir>/*.ipynb for each
// language, in language order and then by path.
func Discover(inputDir string, langs []types.Language) ([]types.Notebook, error) {
	var notebooks []types.Notebook
	for _, lang := range langs {
		pattern := filepath.Join(inputDir, lang.Dir(), "*"+notebookExt)
		paths, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("globbing %s: %w", pattern, err)
		}
		sort.Strings(paths)
		for _, p := range paths {
			notebooks = append(notebooks, types.Notebook{Path: p, Language: lang})
		}
	}
	return notebooks, nil
}

// Excluded reports whether path matches an entry of the exclusion list. An
// entry matches when it names the same cleaned path or is a glob pattern
// matching it.
func Excluded(path string, exclude []string) bool {
	clean := filepath.Clean(path)
	for _, e := range exclude {
		pattern := filepath.Clean(e)
		if pattern == clean {
			return true
		}
		if ok, err := filepath.Match(pattern, clean); err == nil && ok {
			return true
		}
	}
	return false
}

// notebookConverter is the per-notebook step a Batch drives.
type notebookConverter interface {
	ConvertNotebook(ctx context.Context, nb types.Notebook) (*types.Post, error)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Excluded  int
	Failed    int
	Results   []types.Result
}

// Total returns the number of notebooks attempted or excluded.
func (r BatchResult) Total() int {
	return r.Converted + r.Excluded + r.Failed
}

// HasFailures reports whether any notebook failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Err joins the errors of all failed notebooks, or returns nil.
func (r BatchResult) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Notebook.Path, res.Err))
		}
	}
	return errors.Join(errs...)
}

// Batch converts a list of notebooks, skipping excluded ones. Each notebook
// is attempted even when an earlier one failed, unless FailFast is set.
type Batch struct {
	Converter notebookConverter
	Exclude   []string
	FailFast  bool
}

// Run converts notebooks in order, printing per-notebook status to w and a
// summary at the end.
func (b *Batch) Run(ctx context.Context, notebooks []types.Notebook, w io.Writer) BatchResult {
	var result BatchResult
	for _, nb := range notebooks {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(w, "stopped: %v\n", err)
			break
		}

		if Excluded(nb.Path, b.Exclude) {
			fmt.Fprintf(w, "excluded:  %s\n", nb.Path)
			result.Excluded++
			result.Results = append(result.Results, types.Result{Notebook: nb, Status: types.ConversionExcluded})
			continue
		}

		post, err := b.Converter.ConvertNotebook(ctx, nb)
		if err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", nb.Path, err)
			result.Failed++
			result.Results = append(result.Results, types.Result{Notebook: nb, Status: types.ConversionFailed, Err: err})
			if b.FailFast {
				break
			}
			continue
		}

		fmt.Fprintf(w, "converted: %s -> %s\n", nb.Path, post.MarkdownPath)
		result.Converted++
		result.Results = append(result.Results, types.Result{Notebook: nb, Status: types.ConversionDone, Post: post})
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d excluded, %d failed (total: %d)\n",
		result.Converted, result.Excluded, result.Failed, result.Total())
	return result
}
