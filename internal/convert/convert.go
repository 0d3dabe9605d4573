// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns notebooks into blog posts. A Pipeline handles one
// notebook: date resolution, external conversion, front matter, and image
// relocation. A Batch drives the pipeline over every discovered notebook.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/convert-notebooks/internal/frontmatter"
	"github.com/pdiddy/convert-notebooks/internal/images"
	"github.com/pdiddy/convert-notebooks/internal/nbconvert"
	"github.com/pdiddy/convert-notebooks/pkg/types"
)

const (
	// postsDirName is the directory the static site generator reads posts from.
	postsDirName = "_posts"
	// imagesDirName is the sibling of the posts directory holding image assets.
	imagesDirName = "images"
	// markdownExt is the extension the converter gives its output.
	markdownExt = ".md"
)

// DateResolver returns the date prefix ("YYYY-MM-DD-" or "-") for a notebook.
type DateResolver interface {
	Resolve(ctx context.Context, notebookPath string) (string, error)
}

// PostsDir returns the posts directory for an output directory: the output
// directory itself when it is already named _posts, else its _posts child.
func PostsDir(outputDir string) string {
	clean := filepath.Clean(outputDir)
	if filepath.Base(clean) == postsDirName {
		return clean
	}
	return filepath.Join(clean, postsDirName)
}

// ImagesDir returns the images directory that sits next to postsDir.
func ImagesDir(postsDir string) string {
	return filepath.Join(filepath.Dir(postsDir), imagesDirName)
}

// Pipeline converts single notebooks into posts under one output directory.
type Pipeline struct {
	converter nbconvert.Converter
	dates     DateResolver
	cfg       types.PostConfig
	postsDir  string
	imagesDir string
	logger    *slog.Logger
}

// NewPipeline creates a pipeline that writes posts below outputDir.
func NewPipeline(outputDir string, conv nbconvert.Converter, dates DateResolver, cfg types.PostConfig, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ImagesURL == "" {
		cfg.ImagesURL = "/images"
	}
	posts := PostsDir(outputDir)
	return &Pipeline{
		converter: conv,
		dates:     dates,
		cfg:       cfg,
		postsDir:  posts,
		imagesDir: ImagesDir(posts),
		logger:    logger,
	}
}

// EnsureLayout creates the posts and images directories.
func (p *Pipeline) EnsureLayout() error {
	for _, dir := range []string{p.postsDir, p.imagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// OutputPrefix returns the path, without extension, of the post for nb:
// <posts>/<date><name>-<lang>. The configured substring is removed from the
// notebook name and underscores in the file name become hyphens; the posts
// directory itself is left as is.
func (p *Pipeline) OutputPrefix(nb types.Notebook, date string) string {
	base := filepath.Base(nb.Path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if p.cfg.StripSubstring != "" {
		name = strings.ReplaceAll(name, p.cfg.StripSubstring, "")
	}
	filename := date + name + "-" + string(nb.Language)
	filename = strings.ReplaceAll(filename, "_", "-")
	return filepath.Join(p.postsDir, filename)
}

// ConvertNotebook runs every step for one notebook. Files written before a
// failing step are left on disk.
func (p *Pipeline) ConvertNotebook(ctx context.Context, nb types.Notebook) (*types.Post, error) {
	date, err := p.dates.Resolve(ctx, nb.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving date: %w", err)
	}

	prefix := p.OutputPrefix(nb, date)
	mdPath := prefix + markdownExt
	p.logger.Debug("converting notebook", "notebook", nb.Path, "output", mdPath)

	if err := p.converter.Convert(ctx, nb.Path, prefix); err != nil {
		return nil, err
	}

	meta, err := frontmatter.Build(mdPath, nb.Language, p.cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("adding front matter: %w", err)
	}

	moves, err := images.Relocate(prefix, p.postsDir, p.imagesDir)
	if err != nil {
		return nil, fmt.Errorf("relocating images: %w", err)
	}
	if err := images.RewritePaths(mdPath, p.postsDir, p.cfg.ImagesURL, moves); err != nil {
		return nil, fmt.Errorf("rewriting image paths: %w", err)
	}

	post := &types.Post{
		Prefix:       prefix,
		MarkdownPath: mdPath,
		Date:         date,
		FrontMatter:  *meta,
	}
	for _, m := range moves {
		post.Images = append(post.Images, m.To)
	}
	p.logger.Debug("converted notebook", "notebook", nb.Path, "images", len(moves), "tags", meta.Tags)
	return post, nil
}
