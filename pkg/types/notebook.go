// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the notebook-to-post
// pipeline: source notebooks, converted posts, front matter, and the
// configuration consumed by each stage.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// Language identifies the kernel language of a notebook. It selects the
// input subdirectory, the post category, and the tag extraction rules.
type Language string

const (
	LanguagePython Language = "python"
	LanguageR      Language = "r"
)

// Languages lists the supported languages in processing order.
var Languages = []Language{LanguagePython, LanguageR}

// ErrUnsupportedLanguage is returned when a language has no tag keyword or
// input directory mapping.
var ErrUnsupportedLanguage = errors.New("unsupported language (not R or python)")

// ParseLanguage maps a user-supplied name to a Language. Matching is
// case-insensitive so "R" and "r" are equivalent.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguagePython:
		return LanguagePython, nil
	case LanguageR:
		return LanguageR, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}

// Dir returns the input subdirectory holding notebooks for the language.
// R notebooks live under an uppercase "R" directory.
func (l Language) Dir() string {
	if l == LanguageR {
		return strings.ToUpper(string(l))
	}
	return string(l)
}

// Keyword returns the token that marks a package-loading statement in the
// language's source code.
func (l Language) Keyword() (string, error) {
	switch l {
	case LanguagePython:
		return "import ", nil
	case LanguageR:
		return "library(", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, string(l))
}

// External tool failures. The converter or the version-control client
// exited with an error.
var (
	ErrConverterFailed = errors.New("notebook converter failed")
	ErrGitFailed       = errors.New("git log failed")
)

// Notebook is a source notebook discovered under the input directory.
type Notebook struct {
	// Path is the notebook path as discovered (relative or absolute).
	Path string `json:"path" yaml:"path"`

	// Language is inferred from the language subdirectory the notebook was found in.
	Language Language `json:"language" yaml:"language"`
}

// ConversionStatus indicates the outcome of converting one notebook.
type ConversionStatus string

const (
	ConversionDone     ConversionStatus = "converted"
	ConversionExcluded ConversionStatus = "excluded"
	ConversionFailed   ConversionStatus = "failed"
)

// Post describes a markdown post produced from a notebook.
type Post struct {
	// Prefix is the shared path prefix of the markdown file and its images
	// (e.g. "site/_posts/2021-07-04-foo-python").
	Prefix string `json:"prefix" yaml:"prefix"`

	// MarkdownPath is Prefix with the ".md" extension.
	MarkdownPath string `json:"markdown_path" yaml:"markdown_path"`

	// Date is the resolved date prefix, including its trailing hyphen.
	Date string `json:"date" yaml:"date"`

	// FrontMatter is the metadata block written to the top of the post.
	FrontMatter FrontMatter `json:"front_matter" yaml:"front_matter"`

	// Images lists the destination paths of relocated image assets.
	Images []string `json:"images,omitempty" yaml:"images,omitempty"`
}

// Result pairs a notebook with the outcome of converting it.
type Result struct {
	Notebook Notebook
	Status   ConversionStatus
	Post     *Post
	Err      error
}
