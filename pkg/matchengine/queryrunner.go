package matchengine

import (
	"context"
	"fmt"
	"sort"

	"github.com/oncomatch/matchengine/internal/config"
	"github.com/oncomatch/matchengine/internal/logging"
	"github.com/oncomatch/matchengine/internal/store"
)

// TwoPhaseQueryRunner executes one MultiCollectionQuery against the
// document store in two phases (spec.md §4.6): narrow the clinical
// collection first, then filter the genomic collection by the surviving
// clinical join-field values, short-circuiting when phase one returns
// nothing.
type TwoPhaseQueryRunner struct {
	Store  store.DocumentStore
	Config *config.TransformConfig
	Log    *logging.Logger
}

// Run executes query's clinical and genomic clauses and groups the
// surviving genomic documents onto the clinical document they join to. A
// query-level timeout or transient store failure abandons the whole path
// (trial and run continue) per spec.md §7.
func (r *TwoPhaseQueryRunner) Run(ctx context.Context, trialProtocolNo, pathLabel string, query MultiCollectionQuery) ([]RawQueryResult, error) {
	clinicalFilter := mergeClauses(query.Clinical)
	clinicalProjection := r.Config.ClinicalProjection

	clinicalDocs, err := r.find(ctx, "clinical", clinicalFilter, clinicalProjection, trialProtocolNo, pathLabel)
	if err != nil {
		return nil, err
	}
	if len(clinicalDocs) == 0 {
		return nil, nil
	}

	joinField := r.Config.Mapping("genomic").JoinField
	if joinField == "" {
		return nil, NewConfigError("collection_mappings.genomic.join_field is required to run the genomic phase", nil)
	}

	clinicalByJoinValue := make(map[string][]store.RawDoc, len(clinicalDocs))
	clinicalIDs := make(map[string]bool, len(clinicalDocs))
	for _, doc := range clinicalDocs {
		key := fmt.Sprint(doc[joinField])
		clinicalByJoinValue[key] = append(clinicalByJoinValue[key], doc)
		clinicalIDs[key] = true
	}

	// Each genomic AndClause is its own query, progressively intersecting
	// clinicalIDs with the join-field values it returns (spec.md §4.6 steps
	// 1-4): two genomic criteria can be satisfied by two different genomic
	// documents belonging to the same patient, not just one document
	// satisfying both. A clause with no criteria still runs once, to find
	// the set of patients with any genomic document at all.
	genomicClauses := query.Genomic
	if len(genomicClauses) == 0 {
		genomicClauses = []AndClause{{}}
	}

	genomicByJoinValue := make(map[string][]store.RawDoc)
	for _, clause := range genomicClauses {
		if len(clinicalIDs) == 0 {
			break
		}

		ids := make([]interface{}, 0, len(clinicalIDs))
		for id := range clinicalIDs {
			ids = append(ids, id)
		}
		filter := AndClause{joinField: map[string]interface{}{"in": ids}}
		for field, pred := range clause {
			filter[field] = pred
		}

		docs, err := r.find(ctx, "genomic", filter, r.Config.GenomicProjection, trialProtocolNo, pathLabel)
		if err != nil {
			return nil, err
		}

		returned := make(map[string]bool, len(docs))
		for _, doc := range docs {
			key := fmt.Sprint(doc[joinField])
			returned[key] = true
			genomicByJoinValue[key] = append(genomicByJoinValue[key], doc)
		}
		for id := range clinicalIDs {
			if !returned[id] {
				delete(clinicalIDs, id)
			}
		}
	}

	if len(clinicalIDs) == 0 {
		return nil, nil
	}

	results := make([]RawQueryResult, 0, len(clinicalDocs))
	for key := range clinicalIDs {
		for _, doc := range clinicalByJoinValue[key] {
			results = append(results, RawQueryResult{
				ClinicalID:  fmt.Sprint(doc["_id"]),
				ClinicalDoc: doc,
				GenomicDocs: genomicByJoinValue[key],
			})
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].ClinicalID < results[j].ClinicalID })
	return results, nil
}

// find wraps one store.Find call, translating a context deadline or a
// transient store failure into the path-scoped MatchError kinds spec.md
// §7 requires.
func (r *TwoPhaseQueryRunner) find(ctx context.Context, collection string, filter store.AndClause, projection []string, trial, path string) ([]store.RawDoc, error) {
	docs, err := r.Store.Find(ctx, collection, filter, projection)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewQueryTimeoutError(trial, path, err)
		}
		return nil, NewTransientStoreError(trial, path, err)
	}
	return docs, nil
}

// mergeClauses flattens a list of AndClauses into one, since every clause
// in the list is implicitly conjoined (spec.md §3). A later clause's
// field wins over an earlier one naming the same field, which only
// happens when the translator's configuration maps two trial keys onto
// the same document field.
func mergeClauses(clauses []AndClause) AndClause {
	merged := AndClause{}
	for _, c := range clauses {
		for field, pred := range c {
			merged[field] = pred
		}
	}
	return merged
}
