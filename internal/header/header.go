// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package header extracts the title and author of a converted notebook from
// its rendered markdown lines.
package header

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pdiddy/convert-notebooks/pkg/types"
)

const (
	// headerMarker identifies a markdown header line.
	headerMarker = "#"
	// authorMarker identifies the author line.
	authorMarker = "Author:"
)

// Title returns the title taken from the first line containing a header
// marker, along with that line's index. The marker symbols and any other
// leading non-alphanumeric characters are dropped, as is trailing whitespace.
func Title(lines []string) (string, int, error) {
	for i, line := range lines {
		if !strings.Contains(line, headerMarker) {
			continue
		}
		title := ParseHeader(line)
		if title == "" {
			return "", -1, fmt.Errorf("%w: line %d has no title text", types.ErrNoTitle, i+1)
		}
		return title, i, nil
	}
	return "", -1, types.ErrNoTitle
}

// ParseHeader strips trailing whitespace and the leading run of
// non-alphanumeric characters from a header line.
func ParseHeader(line string) string {
	line = strings.TrimRightFunc(line, unicode.IsSpace)
	return strings.TrimLeftFunc(line, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Author returns the author named on the first line containing "Author:",
// along with that line's index.
func Author(lines []string) (string, int, error) {
	for i, line := range lines {
		if strings.Contains(line, authorMarker) {
			return ParseAuthor(line), i, nil
		}
	}
	return "", -1, types.ErrNoAuthor
}

// ParseAuthor returns the text following the "Author:" marker with
// surrounding whitespace removed.
func ParseAuthor(line string) string {
	_, after, found := strings.Cut(line, authorMarker)
	if !found {
		return strings.TrimSpace(line)
	}
	return strings.TrimSpace(after)
}
