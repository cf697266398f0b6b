package matchengine

import (
	"fmt"

	"github.com/oncomatch/matchengine/internal/logging"
	"github.com/oncomatch/matchengine/internal/tree"
)

// MatchClauseData is one eligibility clause found inside a trial, plus
// the context needed to interpret and reassemble it (spec.md §3).
type MatchClauseData struct {
	MatchClause []RawDoc     // the ordered sequence of criterion items
	ParentPath  *tree.Cursor // trial-root-to-"match"-key path
	Level       string       // "step", "arm", "dose", or whatever innermost key enclosed it
	Parent      RawDoc       // the dict the "match" key was found on (read-only)
}

// work is one item of the extractor's traversal stack: the path up to
// (not including) key, and the value found at path+key.
type work struct {
	path  *tree.Cursor
	key   string
	value interface{}
}

// MatchClauseExtractor walks a trial document to find every embedded
// eligibility clause (spec.md §4.2).
type MatchClauseExtractor struct {
	Log *logging.Logger
}

// Extract returns every non-suspended MatchClauseData found in trial. A
// match clause item that isn't itself a dict is a malformed clause: it's
// dropped from the returned MatchClauseData and accumulated into a
// MultiError rather than failing the whole trial, so one bad clause among
// several doesn't hide the rest (spec.md §7).
func (x *MatchClauseExtractor) Extract(trial Trial) ([]MatchClauseData, error) {
	var out []MatchClauseData
	var errs MultiError

	var stack []work
	// Seed the queue with every top-level entry except the top-level
	// "match" key, which is intentionally suppressed (spec.md §4.2, §9).
	for _, key := range sortedKeys(trial.raw) {
		if key == "match" {
			continue
		}
		stack = append(stack, work{path: tree.New(), key: key, value: trial.raw[key]})
	}

	// Depth-first via stack (pop-from-tail), matching spec.md §4.2's
	// documented (but not guaranteed) traversal order.
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch v := item.value.(type) {
		case RawDoc:
			for _, innerKey := range sortedKeys(v) {
				innerValue := v[innerKey]
				if innerKey == "match" {
					parentPath := item.path.Copy().Push(item.key).Push("match")
					level := deriveLevel(item.path.Copy().Push(item.key))
					clause := asList(innerValue)
					items := make([]RawDoc, 0, len(clause))
					for i, c := range clause {
						d := asDoc(c)
						if d == nil {
							errs.Append(NewMalformedTrialError(trial.ProtocolNo,
								fmt.Sprintf("match clause item %d at %s is not a dict", i, parentPath), nil))
							continue
						}
						items = append(items, d)
					}
					if suspended(level, v) {
						if x.Log != nil {
							x.Log.Infof("trial %s: skipping suspended %s clause at %s", trial.ProtocolNo, level, parentPath)
						}
						continue
					}
					out = append(out, MatchClauseData{
						MatchClause: items,
						ParentPath:  parentPath,
						Level:       level,
						Parent:      v,
					})
				} else {
					stack = append(stack, work{path: item.path.Copy().Push(item.key), key: innerKey, value: innerValue})
				}
			}

		case []interface{}:
			for i, elem := range v {
				stack = append(stack, work{
					path:  item.path.Copy().Push(item.key),
					key:   indexKey(i),
					value: elem,
				})
			}

		default:
			// scalar, ignored
		}
	}

	return out, errs.ErrOrNil()
}

// deriveLevel returns the innermost named container enclosing a clause:
// the last non-integer component of the path leading up to (but not
// including) its "match" key (spec.md §4.2).
func deriveLevel(pathToMatchParent *tree.Cursor) string {
	nodes := pathToMatchParent.Nodes
	for i := len(nodes) - 1; i >= 0; i-- {
		if !isIndex(nodes[i]) {
			return nodes[i]
		}
	}
	return ""
}

// suspended implements spec.md §4.2's three suspension rules. surrounding
// is the dict the "match" key was found on — read only, never mutated.
func suspended(level string, surrounding RawDoc) bool {
	switch level {
	case "arm":
		return stringField(surrounding, "arm_suspended", "n") == "y"
	case "dose":
		return stringField(surrounding, "level_suspended", "n") == "y"
	case "step":
		arms := asList(surrounding["arm"])
		if len(arms) == 0 {
			// Missing arm list is treated as fully suspended (spec.md §9:
			// kept as documented behavior pending curator confirmation).
			return true
		}
		for _, a := range arms {
			armDoc := asDoc(a)
			if stringField(armDoc, "arm_suspended", "n") != "y" {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func indexKey(i int) string {
	return tree.New().PushIndex(i).Nodes[0]
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
