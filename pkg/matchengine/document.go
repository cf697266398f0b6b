// Package matchengine implements the clinical-trial matching pipeline:
// extracting eligibility clauses from curated trial documents, expanding
// them into a disjunction of conjunctive match paths, translating those
// paths into multi-collection document-store queries, and running the
// resulting two-phase join against patient and genomic facts.
package matchengine

import (
	"sort"
	"strings"

	"github.com/oncomatch/matchengine/internal/tree"
)

// RawDoc is an untyped document as read from the document store: a
// mapping whose values are scalars, other mappings, or lists thereof.
// Trial, clinical, and genomic documents are all represented this way —
// curation schemas vary too much, and too quickly, to model statically.
type RawDoc = map[string]interface{}

// sortedKeys returns a doc's keys in ascending order. Go's native map
// iteration order is randomized per process; the extractor and tree
// builder need a traversal order that is stable for a given input (see
// SPEC_FULL.md §3), so every walk over a RawDoc goes through this helper
// rather than ranging over the map directly.
func sortedKeys(doc RawDoc) []string {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stringField reads a string field from a document, normalized
// (lowercased, trimmed), returning def if the field is absent or not a
// string. Used for the suspension flags and status checks that spec.md
// §4.2/§4.1 describe as "read with an explicit default" — the extractor
// must never write a default back into the document it's reading.
func stringField(doc RawDoc, key, def string) string {
	v, ok := doc[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// asList returns v as a []interface{}, or a nil slice if v isn't one.
func asList(v interface{}) []interface{} {
	l, _ := v.([]interface{})
	return l
}

// asDoc returns v as a RawDoc, or nil if v isn't one.
func asDoc(v interface{}) RawDoc {
	d, _ := v.(RawDoc)
	return d
}

// resolveParentPath walks cur component by component, verifying the
// ParentPath invariant from spec.md §8: every emitted MatchClauseData's
// parent_path must reconstruct a navigable path from the trial root to a
// "match" key.
func resolveParentPath(trial RawDoc, cur *tree.Cursor) (interface{}, error) {
	return cur.Resolve(trial)
}
