package matchengine

import (
	"sort"
	"strings"
	"time"

	"github.com/oncomatch/matchengine/internal/config"
	"github.com/oncomatch/matchengine/internal/logging"
)

// CriteriaTranslator maps the curation-side vocabulary to the document
// store's field vocabulary using the transform configuration (spec.md
// §4.5), via named-operator dispatch over a small registry of transform
// functions.
type CriteriaTranslator struct {
	Config        *config.TransformConfig
	Registry      *TransformRegistry
	OncoTree      OncoTreeIndex
	ReferenceTime time.Time // SPEC_FULL.md §9: pure function of this, never time.Now()
	Log           *logging.Logger
}

// Translate builds the MultiCollectionQuery for one match path (spec.md
// §4.5). sampleIDs is the caller-supplied filter; when empty, the
// alive-only default is appended per spec.md §4.5's contract.
func (t *CriteriaTranslator) Translate(path MatchCriterion, sampleIDs []string, trialProtocolNo, pathLabel string) (MultiCollectionQuery, error) {
	query := MultiCollectionQuery{}

	for _, criterion := range path {
		for _, category := range sortedKeys(criterion) {
			inner := asDoc(criterion[category])
			if inner == nil {
				continue
			}
			clause, err := t.translateCategory(category, inner, trialProtocolNo, pathLabel)
			if err != nil {
				return MultiCollectionQuery{}, err
			}
			switch category {
			case "genomic":
				query.Genomic = append(query.Genomic, clause)
			case "clinical":
				query.Clinical = append(query.Clinical, clause)
			}
		}
	}

	if len(sampleIDs) > 0 {
		ids := make([]interface{}, len(sampleIDs))
		for i, id := range sampleIDs {
			ids[i] = id
		}
		query.Clinical = append(query.Clinical, AndClause{"SAMPLE_ID": map[string]interface{}{"in": ids}})
	} else {
		query.Clinical = append(query.Clinical, AndClause{"VITAL_STATUS": "alive"})
	}

	return query, nil
}

// translateCategory builds one AndClause from a category's inner
// trial-key/value mapping, invoking the configured transform for every
// entry that isn't ignored (spec.md §4.5).
func (t *CriteriaTranslator) translateCategory(category string, inner RawDoc, trialProtocolNo, pathLabel string) (AndClause, error) {
	clause := AndClause{}

	keys := make([]string, 0, len(inner))
	for k := range inner {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, trialKey := range keys {
		trialValue := inner[trialKey]

		setting, _ := t.Config.KeySettingFor(category, trialKey)
		if setting.Ignore {
			continue
		}

		transformName := setting.SampleValue
		if transformName == "" {
			transformName = "nomap"
		}
		fn, ok := t.Registry.Lookup(transformName)
		if !ok {
			return nil, NewUnknownTransformError(transformName)
		}

		result, err := fn(TransformArgs{
			SampleKey:     strings.ToUpper(trialKey),
			TrialKey:      strings.ToUpper(trialKey),
			TrialValue:    trialValue,
			ParentPath:    pathLabel,
			TrialPath:     category,
			Settings:      setting.Extra,
			ReferenceTime: t.ReferenceTime,
			OncoTree:      t.OncoTree,
		})
		if err != nil {
			if IsSkipCriterion(err) {
				if t.Log != nil {
					t.Log.Debugf("trial %s: skipping criterion %s.%s: %v", trialProtocolNo, category, trialKey, err)
				}
				continue
			}
			return nil, err
		}
		for field, pred := range result {
			clause[field] = pred
		}
	}

	return clause, nil
}
