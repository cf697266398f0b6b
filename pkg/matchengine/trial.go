package matchengine

import (
	"context"

	"github.com/oncomatch/matchengine/internal/logging"
	"github.com/oncomatch/matchengine/internal/store"
)

// openToAccrualStatus is the normalized status a trial must have to be
// eligible for extraction (spec.md §9: exact equality after lowercasing
// and trimming resolves the original source's two inconsistent checks).
const openToAccrualStatus = "open to accrual"

// trialProjection lists the fields TrialSource reads from the store,
// matching spec.md §4.1's "projects only the fields needed downstream".
var trialProjection = []string{"protocol_no", "nct_id", "status", "treatment_list", "_summary"}

// Trial is a projected trial document (spec.md §3).
type Trial struct {
	ProtocolNo    string
	NCTID         string
	Status        string
	TreatmentList []interface{}
	Summary       RawDoc
	raw           RawDoc
}

// newTrial projects a raw trial document into a Trial, or reports
// MalformedTrial if protocol_no is missing (the one field every other
// component keys off of).
func newTrial(doc RawDoc) (Trial, error) {
	protocolNo, _ := doc["protocol_no"].(string)
	if protocolNo == "" {
		return Trial{}, NewMalformedTrialError("", "missing protocol_no", nil)
	}
	nctID, _ := doc["nct_id"].(string)
	return Trial{
		ProtocolNo:    protocolNo,
		NCTID:         nctID,
		Status:        stringField(doc, "status", ""),
		TreatmentList: asList(doc["treatment_list"]),
		Summary:       asDoc(doc["_summary"]),
		raw:           doc,
	}, nil
}

// isOpen reports whether the trial's normalized status is "open to
// accrual" (spec.md §3).
func (t Trial) isOpen() bool {
	return t.Status == openToAccrualStatus
}

// TrialSource reads trial documents from a DocumentStore, optionally
// filtered to an explicit set of protocol numbers, yielding only trials
// open to accrual (spec.md §4.1).
type TrialSource struct {
	Store store.DocumentStore
	Log   *logging.Logger
}

// Open returns the open trials matching protocolFilter, read in one store
// query and returned as a slice. A nil/empty protocolFilter means "no filter".
// Per spec.md §4.1, no per-trial error is fatal: malformed documents are
// logged and skipped.
func (s *TrialSource) Open(ctx context.Context, protocolFilter map[string]bool) ([]Trial, error) {
	filter := store.AndClause{}
	if len(protocolFilter) > 0 {
		ids := make([]interface{}, 0, len(protocolFilter))
		for pn := range protocolFilter {
			ids = append(ids, pn)
		}
		filter["protocol_no"] = map[string]interface{}{"in": ids}
	}

	docs, err := s.Store.Find(ctx, "trial", filter, trialProjection)
	if err != nil {
		return nil, NewStoreConnectivityError("reading trial collection", err)
	}

	trials := make([]Trial, 0, len(docs))
	for _, doc := range docs {
		trial, err := newTrial(doc)
		if err != nil {
			if s.Log != nil {
				s.Log.Infof("skipping malformed trial document: %v", err)
			}
			continue
		}
		if !trial.isOpen() {
			if s.Log != nil {
				s.Log.Infof("skipping trial %s: status %q is not open to accrual", trial.ProtocolNo, trial.Status)
			}
			continue
		}
		trials = append(trials, trial)
	}
	return trials, nil
}
