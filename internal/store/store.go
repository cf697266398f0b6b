// Package store defines the document-store interface the matching
// pipeline queries against, and a deterministic in-memory reference
// implementation used by this module's own tests. The real document
// store's connection and authentication are external collaborators per
// spec.md §1 — only the interface lives in this module.
package store

import (
	"context"
	"fmt"
)

// RawDoc is an untyped document, identical in shape to
// pkg/matchengine.RawDoc (kept as its own type alias here so this package
// has no import-time dependency on pkg/matchengine).
type RawDoc = map[string]interface{}

// Predicate is a single document-store predicate: either a scalar
// equality value, or an operator mapping such as {"in": [...]},
// {"ne": ...}, {"regex": "..."}.
type Predicate = interface{}

// AndClause is a field → predicate mapping, implicitly conjoined with its
// siblings (spec.md glossary: "AndClause").
type AndClause map[string]Predicate

// DocumentStore is the interface every pipeline component queries
// through. collection is one of "trial", "clinical", "genomic".
type DocumentStore interface {
	// Find returns every document in collection matching the conjunction
	// of filter's predicates, projected to the given fields (an empty
	// projection returns whole documents).
	Find(ctx context.Context, collection string, filter AndClause, projection []string) ([]RawDoc, error)
}

// ErrCollectionNotFound is returned by the in-memory store when a query
// names a collection it was never seeded with.
type ErrCollectionNotFound string

func (e ErrCollectionNotFound) Error() string {
	return fmt.Sprintf("collection %q not found", string(e))
}
