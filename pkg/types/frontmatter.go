// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Front matter lookup failures. A converted post without a header line or an
// author line cannot be published.
var (
	ErrNoTitle  = errors.New("no header line found")
	ErrNoAuthor = errors.New("no author line found")
)

// DefaultLayout is the site layout assigned to every converted post.
const DefaultLayout = "single"

// FrontMatter is the metadata block placed at the top of a post. The five
// named fields are always emitted first, in declaration order.
type FrontMatter struct {
	Layout   string   `json:"layout" yaml:"layout" toml:"layout"`
	Title    string   `json:"title" yaml:"title" toml:"title"`
	Category string   `json:"category" yaml:"category" toml:"category"`
	Author   string   `json:"author" yaml:"author" toml:"author"`
	Tags     []string `json:"tags" yaml:"tags" toml:"tags"`

	// Extra holds keys that were already present in the file and are not one
	// of the fields above. They are preserved after the named fields.
	Extra map[string]any `json:"-" yaml:"-" toml:"-"`
}

// FrontMatterFormat selects the front matter serialization.
type FrontMatterFormat string

const (
	FormatYAML FrontMatterFormat = "yaml"
	FormatTOML FrontMatterFormat = "toml"
)
