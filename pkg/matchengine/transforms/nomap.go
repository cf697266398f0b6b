// Package transforms holds the fixed set of named transform functions
// the CriteriaTranslator dispatches by name (spec.md §4.5, §9). Each
// function is a small, self-contained unit: one concern per file, no
// shared mutable state.
package transforms

import "github.com/oncomatch/matchengine/pkg/matchengine"

// Nomap passes a trial key/value straight through onto its sample key
// (the upper-cased trial key), unchanged. It is the table-driven default when no
// sample_value is configured (spec.md §4.5).
func Nomap(args matchengine.TransformArgs) (matchengine.AndClause, error) {
	return matchengine.AndClause{args.SampleKey: args.TrialValue}, nil
}

// RegisterBuiltins populates r with the full named transform set
// SPEC_FULL.md §4.5 names.
func RegisterBuiltins(r *matchengine.TransformRegistry) {
	r.Register("nomap", Nomap)
	r.Register("age_range", AgeRange)
	r.Register("tumor_type_oncotree", TumorTypeOncotree)
	r.Register("hugo_symbol", HugoSymbol)
	r.Register("wildcard_protein_change", WildcardProteinChange)
	r.Register("variant_classification", VariantClassification)
}
