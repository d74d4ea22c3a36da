package catalog

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a catalog file. YAML and JSON are both accepted. Two shapes
// are understood: the explicit form with a top-level "subjects" list, and
// the compact form mapping subject -> chapter -> list of file names, whose
// key order is kept.
func Load(path string, knownKind func(string) bool) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	if err := c.Validate(knownKind); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Parse decodes catalog bytes without validating them.
func Parse(data []byte) (Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Catalog{}, fmt.Errorf("empty catalog")
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Catalog{}, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return Catalog{}, fmt.Errorf("unexpected catalog document")
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return Catalog{}, fmt.Errorf("catalog must be a mapping, got %s", nodeKind(doc))
	}

	if hasKey(doc, "subjects") {
		var c Catalog
		if err := doc.Decode(&c); err != nil {
			return Catalog{}, err
		}
		return c, nil
	}
	return decodeCompact(doc)
}

// decodeCompact reads {"Subject": {"Chapter": ["file.json", ...]}}.
func decodeCompact(doc *yaml.Node) (Catalog, error) {
	var c Catalog
	for i := 0; i+1 < len(doc.Content); i += 2 {
		subject := Subject{Name: doc.Content[i].Value}
		chapters := doc.Content[i+1]
		if chapters.Kind != yaml.MappingNode {
			return Catalog{}, fmt.Errorf("subject %q: chapters must be a mapping, got %s", subject.Name, nodeKind(chapters))
		}
		for j := 0; j+1 < len(chapters.Content); j += 2 {
			ch := Chapter{Name: chapters.Content[j].Value}
			var files []string
			if err := chapters.Content[j+1].Decode(&files); err != nil {
				return Catalog{}, fmt.Errorf("subject %q chapter %q: %w", subject.Name, ch.Name, err)
			}
			for _, f := range files {
				ch.Lessons = append(ch.Lessons, Lesson{File: f})
			}
			subject.Chapters = append(subject.Chapters, ch)
		}
		c.Subjects = append(c.Subjects, subject)
	}
	return c, nil
}

func hasKey(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "document"
}
