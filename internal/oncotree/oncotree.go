// Package oncotree provides a read-only index from a curated tumor type
// name to the set of OncoTree codes it and its descendants cover, used by
// the tumor_type_oncotree transform (SPEC_FULL.md §4.5). The real OncoTree
// hierarchy is maintained externally; this package only loads and walks
// whatever tree a YAML file hands it, the same "interface in scope,
// connection out of scope" split spec.md §1 draws for the document store.
package oncotree

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// node is one entry of the loaded hierarchy file: a tumor type name, its
// own OncoTree code, and the names of its immediate children.
type node struct {
	Code     string   `yaml:"code"`
	Children []string `yaml:"children"`
}

// Index resolves a tumor type name to its own code plus every descendant
// code, by name, in a static hierarchy loaded once at startup.
type Index struct {
	nodes map[string]node
}

// Load reads a tumor-type hierarchy file: a mapping of tumor type name to
// {code, children}, where children are themselves names defined elsewhere
// in the same file.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading oncotree hierarchy: %w", err)
	}
	raw := map[string]node{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing oncotree hierarchy: %w", err)
	}
	normalized := make(map[string]node, len(raw))
	for name, n := range raw {
		normalized[strings.ToLower(name)] = n
	}
	return &Index{nodes: normalized}, nil
}

// Descendants returns tumorTypeName's own code plus every descendant
// code, reached by breadth-first walk over the children names. An unknown
// tumor type name yields an empty set, which the tumor_type_oncotree
// transform treats as a SkipCriterion rather than an error.
func (idx *Index) Descendants(tumorTypeName string) []string {
	start, ok := idx.nodes[strings.ToLower(tumorTypeName)]
	if !ok {
		return nil
	}

	var codes []string
	seen := map[string]bool{}
	queue := []node{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.Code != "" && !seen[n.Code] {
			seen[n.Code] = true
			codes = append(codes, n.Code)
		}
		for _, childName := range n.Children {
			if child, ok := idx.nodes[strings.ToLower(childName)]; ok {
				queue = append(queue, child)
			}
		}
	}
	return codes
}
