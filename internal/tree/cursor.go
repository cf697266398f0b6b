// Package tree resolves and records paths through the untyped nested
// documents (trial, clinical, genomic) that flow through the matching
// pipeline: a dot/bracket path into a tree of map[string]interface{},
// []interface{} and scalars.
package tree

import (
	"fmt"
	"strconv"
	"strings"
)

// Cursor is an ordered sequence of path components — dict keys and list
// indices — locating a node inside a document tree.
type Cursor struct {
	Nodes []string
}

// New builds a Cursor directly from its components.
func New(nodes ...string) *Cursor {
	c := &Cursor{Nodes: make([]string, len(nodes))}
	copy(c.Nodes, nodes)
	return c
}

// Copy returns an independent copy of the cursor.
func (c *Cursor) Copy() *Cursor {
	return New(c.Nodes...)
}

// Push appends a path component, returning the cursor for chaining.
func (c *Cursor) Push(n string) *Cursor {
	c.Nodes = append(c.Nodes, n)
	return c
}

// PushIndex appends an integer list index as a path component.
func (c *Cursor) PushIndex(i int) *Cursor {
	return c.Push(strconv.Itoa(i))
}

// String renders the cursor as a dot-separated path, e.g.
// "treatment_list.0.arm.1.match".
func (c *Cursor) String() string {
	return strings.Join(c.Nodes, ".")
}

// Depth reports how many components the cursor has.
func (c *Cursor) Depth() int {
	return len(c.Nodes)
}

// Last returns the final path component, or "" if the cursor is empty.
func (c *Cursor) Last() string {
	if len(c.Nodes) == 0 {
		return ""
	}
	return c.Nodes[len(c.Nodes)-1]
}

// NotFoundError reports that a cursor path does not resolve against a
// given document.
type NotFoundError struct {
	Path []string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("path `%s` could not be found in the document", strings.Join(e.Path, "."))
}

// TypeMismatchError reports that a cursor path resolved to a node of an
// unexpected shape (e.g. indexing into a scalar).
type TypeMismatchError struct {
	Path   []string
	Wanted string
	Got    interface{}
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("$.%s is %T (wanted %s)", strings.Join(e.Path, "."), e.Got, e.Wanted)
}

// Resolve walks the cursor's path components against the given document,
// returning the value found at the end of the path.
func (c *Cursor) Resolve(doc interface{}) (interface{}, error) {
	node := doc
	var path []string

	for _, k := range c.Nodes {
		path = append(path, k)

		switch v := node.(type) {
		case map[string]interface{}:
			next, ok := v[k]
			if !ok {
				return nil, NotFoundError{Path: path}
			}
			node = next

		case []interface{}:
			i, err := strconv.Atoi(k)
			if err != nil || i < 0 || i >= len(v) {
				return nil, NotFoundError{Path: path}
			}
			node = v[i]

		default:
			return nil, TypeMismatchError{
				Path:   path[:len(path)-1],
				Wanted: "a map or a list",
				Got:    node,
			}
		}
	}

	return node, nil
}
