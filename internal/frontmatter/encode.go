// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package frontmatter

import (
	"bytes"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/convert-notebooks/pkg/types"
)

const (
	yamlDelimiter = "---\n"
	tomlDelimiter = "+++\n"
)

// writeYAML emits the named fields in declaration order, then any extra keys
// sorted by name. Tags are written in flow style: tags: [numpy, os].
func writeYAML(buf *bytes.Buffer, meta types.FrontMatter) error {
	mapping := &yaml.Node{Kind: yaml.MappingNode}

	add := func(key string, value any) error {
		var v yaml.Node
		if err := v.Encode(value); err != nil {
			return err
		}
		if v.Kind == yaml.SequenceNode && key == "tags" {
			v.Style = yaml.FlowStyle
		}
		k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		mapping.Content = append(mapping.Content, k, &v)
		return nil
	}

	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}
	fields := []struct {
		key   string
		value any
	}{
		{"layout", meta.Layout},
		{"title", meta.Title},
		{"category", meta.Category},
		{"author", meta.Author},
		{"tags", tags},
	}
	for _, f := range fields {
		if err := add(f.key, f.value); err != nil {
			return err
		}
	}
	for _, key := range sortedKeys(meta.Extra) {
		if err := add(key, meta.Extra[key]); err != nil {
			return err
		}
	}

	buf.WriteString(yamlDelimiter)
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(mapping); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	buf.WriteString(yamlDelimiter)
	return nil
}

// writeTOML emits the named fields as top-level keys followed by extra keys.
// Extra tables land after the scalar keys, which keeps the document valid.
func writeTOML(buf *bytes.Buffer, meta types.FrontMatter) error {
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	named, err := toml.Marshal(meta)
	if err != nil {
		return err
	}

	buf.WriteString(tomlDelimiter)
	buf.Write(named)
	if len(meta.Extra) > 0 {
		extra, err := toml.Marshal(meta.Extra)
		if err != nil {
			return err
		}
		buf.Write(extra)
	}
	buf.WriteString(tomlDelimiter)
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
