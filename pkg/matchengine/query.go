package matchengine

import "github.com/oncomatch/matchengine/internal/store"

// Predicate and AndClause are the document-store-style building blocks a
// translated match path compiles down to (spec.md glossary).
type Predicate = store.Predicate
type AndClause = store.AndClause

// MultiCollectionQuery is the translator's output for one match path: the
// conjunctive clauses to run against each collection (spec.md §3).
type MultiCollectionQuery struct {
	Clinical []AndClause
	Genomic  []AndClause
}

// RawQueryResult pairs one clinical document with the genomic documents
// that satisfied the path's genomic predicates (spec.md §3).
type RawQueryResult struct {
	ClinicalID  string
	ClinicalDoc RawDoc
	GenomicDocs []RawDoc
}

// TrialMatch is the final emitted unit (spec.md §3/§6).
type TrialMatch struct {
	Trial           Trial
	MatchClauseData MatchClauseData
	MatchPath       MatchCriterion
	Query           MultiCollectionQuery
	RawResults      []RawQueryResult
}
