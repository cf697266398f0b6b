package matchengine

import "time"

// TransformArgs is everything a transform function needs to turn one
// curated trial key/value pair into document-store predicates (spec.md
// §4.5).
type TransformArgs struct {
	SampleKey     string                 // document-store field this trial key maps to, by default
	TrialKey      string                 // the upper-cased curation key, e.g. "AGE_NUMERICAL"
	TrialValue    interface{}            // the curated value for that key
	ParentPath    string                 // rendered ParentPath of the owning MatchClauseData
	TrialPath     string                 // category the key was found under, "genomic" or "clinical"
	Settings      map[string]interface{} // arbitrary extra key-settings, passed through
	ReferenceTime time.Time              // the translate run's reference clock (SPEC_FULL.md §9)
	OncoTree      OncoTreeIndex          // tumor-type descendant lookup for tumor_type_oncotree
}

// OncoTreeIndex resolves a curated tumor-type name to the set of OncoTree
// codes it and its descendants cover (SPEC_FULL.md §4.5). Read-only,
// shared across workers.
type OncoTreeIndex interface {
	Descendants(tumorTypeName string) []string
}

// TransformFunc maps one curated trial key/value pair to zero or more
// document-field predicates, or returns SkipCriterion to contribute
// nothing (spec.md §4.5).
type TransformFunc func(args TransformArgs) (AndClause, error)

// TransformRegistry is the fixed, named lookup table of transform
// functions (spec.md §4.5/§9): a plain map keyed by name, populated once
// at startup and read-only for the remainder of the run so it can be
// shared freely across workers (spec.md §5).
type TransformRegistry struct {
	functions map[string]TransformFunc
}

// NewTransformRegistry creates an empty registry. Use RegisterBuiltins
// (pkg/matchengine/transforms) to populate it with the standard set.
func NewTransformRegistry() *TransformRegistry {
	return &TransformRegistry{functions: make(map[string]TransformFunc)}
}

// Register adds a named transform function to the registry.
func (r *TransformRegistry) Register(name string, fn TransformFunc) {
	r.functions[name] = fn
}

// Lookup returns the transform function registered under name, and
// whether it was found.
func (r *TransformRegistry) Lookup(name string) (TransformFunc, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}
