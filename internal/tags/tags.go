// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tags derives post tags from the packages a notebook loads.
// Candidate lines are found by keyword in the rendered markdown, so prose that
// happens to mention the keyword can leak through; lines ending in a period
// are skipped to keep most sentences out.
package tags

import (
	"sort"
	"strings"

	"github.com/pdiddy/convert-notebooks/pkg/types"
)

// excluded lists modules that are loaded by nearly every notebook and say
// nothing about its subject.
var excluded = map[string]bool{
	"__future__": true,
	"sys":        true,
}

// Extract returns the sorted, deduplicated packages loaded in content for
// the given language, minus the excluded set.
func Extract(content string, lang types.Language) ([]string, error) {
	keyword, err := lang.Keyword()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, line := range CandidateLines(content, keyword) {
		for _, pkg := range packages(line, lang) {
			seen[pkg] = true
		}
	}

	tags := make([]string, 0, len(seen))
	for pkg := range seen {
		if pkg == "" || excluded[pkg] {
			continue
		}
		tags = append(tags, pkg)
	}
	sort.Strings(tags)
	return tags, nil
}

// CandidateLines returns the lines of content that contain keyword and whose
// last two characters, counting the newline terminator, hold no period.
func CandidateLines(content, keyword string) []string {
	var lines []string
	for _, line := range strings.SplitAfter(content, "\n") {
		if !strings.Contains(line, keyword) {
			continue
		}
		if strings.Contains(tail(line, 2), ".") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func packages(line string, lang types.Language) []string {
	switch lang {
	case types.LanguageR:
		if pkg := RPackage(line); pkg != "" {
			return []string{pkg}
		}
		return nil
	case types.LanguagePython:
		return PythonModules(line)
	}
	return nil
}

// RPackage returns the package named in a library(...) call, with quotes removed.
func RPackage(line string) string {
	_, after, found := strings.Cut(line, "library(")
	if !found {
		return ""
	}
	inParen, _, _ := strings.Cut(after, ")")
	inParen = strings.NewReplacer(`'`, "", `"`, "").Replace(inParen)
	return strings.TrimSpace(inParen)
}

// PythonModules returns the modules loaded by an import statement. For
// "from X import Y" the module is X. Aliases introduced with "as" are
// discarded, and comma-separated imports yield one module each.
func PythonModules(line string) []string {
	stmt := strings.TrimSpace(line)

	if rest, ok := strings.CutPrefix(stmt, "from "); ok {
		fields := strings.Fields(rest)
		if len(fields) == 0 || fields[0] == "import" {
			return nil
		}
		return []string{fields[0]}
	}

	_, after, found := strings.Cut(stmt, "import ")
	if !found {
		return nil
	}

	var modules []string
	for _, part := range strings.Split(after, ",") {
		part = strings.TrimSpace(part)
		if strings.Contains(part, " as ") {
			part = strings.Fields(part)[0]
		}
		if part != "" {
			modules = append(modules, part)
		}
	}
	return modules
}
