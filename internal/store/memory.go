package store

import (
	"context"
	"fmt"
	"regexp"
	"sort"
)

// Memory is a deterministic, read-only in-memory DocumentStore. It exists
// for this module's own tests, as an in-tree double for an external
// dependency, and as a runnable reference for wiring a real store driver.
type Memory struct {
	collections map[string][]RawDoc
}

// NewMemory builds a Memory store seeded with the given collections.
func NewMemory(collections map[string][]RawDoc) *Memory {
	return &Memory{collections: collections}
}

// Find implements DocumentStore by scanning the named collection and
// keeping documents that satisfy every predicate in filter (logical AND),
// in a deterministic order (stable sort by the document's "_id" field).
func (m *Memory) Find(ctx context.Context, collection string, filter AndClause, projection []string) ([]RawDoc, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	docs, ok := m.collections[collection]
	if !ok {
		return nil, ErrCollectionNotFound(collection)
	}

	matched := make([]RawDoc, 0, len(docs))
	for _, doc := range docs {
		if matchesAll(doc, filter) {
			matched = append(matched, project(doc, projection))
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return fmt.Sprint(matched[i]["_id"]) < fmt.Sprint(matched[j]["_id"])
	})
	return matched, nil
}

// matchesAll reports whether doc satisfies every field/predicate pair in
// filter.
func matchesAll(doc RawDoc, filter AndClause) bool {
	for field, pred := range filter {
		if !matchesOne(doc[field], pred) {
			return false
		}
	}
	return true
}

// matchesOne evaluates a single field's value against a predicate: either
// a bare scalar (equality) or an operator mapping ({"in": [...]},
// {"ne": ...}, {"regex": "..."}).
func matchesOne(value interface{}, pred Predicate) bool {
	op, ok := pred.(map[string]interface{})
	if !ok {
		if value == nil {
			return pred == nil
		}
		return fmt.Sprint(value) == fmt.Sprint(pred)
	}

	for name, arg := range op {
		switch name {
		case "in":
			if !containsAny(value, arg) {
				return false
			}
		case "ne":
			if fmt.Sprint(value) == fmt.Sprint(arg) {
				return false
			}
		case "ge":
			if fmt.Sprint(value) < fmt.Sprint(arg) {
				return false
			}
		case "le":
			if fmt.Sprint(value) > fmt.Sprint(arg) {
				return false
			}
		case "regex":
			pattern, _ := arg.(string)
			re, err := regexp.Compile(pattern)
			if err != nil {
				return false
			}
			s, _ := value.(string)
			if !re.MatchString(s) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func containsAny(value interface{}, set interface{}) bool {
	list, ok := set.([]interface{})
	if !ok {
		return false
	}
	for _, v := range list {
		if fmt.Sprint(v) == fmt.Sprint(value) {
			return true
		}
	}
	return false
}

// project returns a shallow copy of doc restricted to the named fields
// plus "_id", or doc itself when fields is empty (spec.md §4.1: "projects
// only the fields needed downstream").
func project(doc RawDoc, fields []string) RawDoc {
	if len(fields) == 0 {
		return doc
	}
	out := make(RawDoc, len(fields)+1)
	if id, ok := doc["_id"]; ok {
		out["_id"] = id
	}
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}
