// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frontmatter adds publishing metadata to markdown files produced by
// the notebook converter. It derives the title, author, and tags from the
// rendered body, removes the title and author lines from the body, and
// rewrites the file with a YAML or TOML front matter block.
package frontmatter

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	fm "github.com/adrg/frontmatter"

	"github.com/pdiddy/convert-notebooks/internal/header"
	"github.com/pdiddy/convert-notebooks/internal/tags"
	"github.com/pdiddy/convert-notebooks/pkg/types"
)

// reservedKeys are the keys Build always sets; existing values are replaced.
var reservedKeys = map[string]bool{
	"layout":   true,
	"title":    true,
	"category": true,
	"author":   true,
	"tags":     true,
}

// Build rewrites the markdown file at path with front matter derived from its
// contents. Keys already present in the file are kept unless Build sets them.
func Build(path string, lang types.Language, format types.FrontMatterFormat) (*types.FrontMatter, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading post: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading post: %w", err)
	}

	meta, body, err := Split(data)
	if err != nil {
		return nil, fmt.Errorf("parsing front matter in %s: %w", path, err)
	}

	out, err := Apply(meta, body, lang, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := os.WriteFile(path, out.Content, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("writing post: %w", err)
	}
	return &out.FrontMatter, nil
}

// Output is the result of applying front matter to a post body.
type Output struct {
	FrontMatter types.FrontMatter
	Content     []byte
}

// Apply derives front matter from body, merges it over existing, and returns
// the serialized post. The title and author lines are removed by position, so
// identical text elsewhere in the body is left alone.
func Apply(existing map[string]any, body []byte, lang types.Language, format types.FrontMatterFormat) (*Output, error) {
	lines := strings.SplitAfter(string(body), "\n")

	title, titleIdx, err := header.Title(lines)
	if err != nil {
		return nil, fmt.Errorf("finding title: %w", err)
	}
	author, authorIdx, err := header.Author(lines)
	if err != nil {
		return nil, fmt.Errorf("finding author: %w", err)
	}
	postTags, err := tags.Extract(string(body), lang)
	if err != nil {
		return nil, fmt.Errorf("extracting tags: %w", err)
	}

	meta := types.FrontMatter{
		Layout:   types.DefaultLayout,
		Title:    title,
		Category: string(lang),
		Author:   author,
		Tags:     postTags,
		Extra:    extraKeys(existing),
	}

	trimmed := removeLines(lines, titleIdx, authorIdx)
	content, err := Render(meta, trimmed, format)
	if err != nil {
		return nil, err
	}
	return &Output{FrontMatter: meta, Content: content}, nil
}

// Split separates an existing front matter block from the markdown body.
// Content without front matter yields an empty map and the full input.
func Split(data []byte) (map[string]any, []byte, error) {
	meta := map[string]any{}
	body, err := fm.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return nil, nil, err
	}
	return sanitize(meta), body, nil
}

// Render serializes meta in the requested format followed by body.
func Render(meta types.FrontMatter, body string, format types.FrontMatterFormat) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case types.FormatYAML, "":
		if err := writeYAML(&buf, meta); err != nil {
			return nil, fmt.Errorf("encoding yaml front matter: %w", err)
		}
	case types.FormatTOML:
		if err := writeTOML(&buf, meta); err != nil {
			return nil, fmt.Errorf("encoding toml front matter: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported front matter format %q", format)
	}

	buf.WriteString("\n")
	buf.WriteString(strings.TrimLeft(body, "\r\n"))
	return buf.Bytes(), nil
}

func removeLines(lines []string, drop ...int) string {
	skip := make(map[int]bool, len(drop))
	for _, i := range drop {
		skip[i] = true
	}
	var b strings.Builder
	for i, line := range lines {
		if skip[i] {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}

func extraKeys(existing map[string]any) map[string]any {
	extra := make(map[string]any, len(existing))
	for k, v := range existing {
		if reservedKeys[k] {
			continue
		}
		extra[k] = v
	}
	return extra
}

// sanitize converts the map[interface{}]interface{} values produced by YAML
// decoding into string-keyed maps so every encoder accepts them.
func sanitize(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return sanitize(v)
	case map[any]any:
		normalized := make(map[string]any, len(v))
		for key, inner := range v {
			normalized[fmt.Sprint(key)] = sanitizeValue(inner)
		}
		return normalized
	case []any:
		slice := make([]any, len(v))
		for i := range v {
			slice[i] = sanitizeValue(v[i])
		}
		return slice
	default:
		return v
	}
}
