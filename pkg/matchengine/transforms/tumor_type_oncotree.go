package transforms

import (
	"fmt"

	"github.com/oncomatch/matchengine/pkg/matchengine"
)

// TumorTypeOncotree expands a curated ONCOTREE_PRIMARY_DIAGNOSIS_NAME value
// into the set of OncoTree codes it and its descendants cover, matching
// against any of them (spec.md §4.5). The "_SOLID_" and "_LIQUID_" curation
// sentinels pass straight through since OncoTree has no node for them.
func TumorTypeOncotree(args matchengine.TransformArgs) (matchengine.AndClause, error) {
	name, ok := args.TrialValue.(string)
	if !ok {
		return nil, fmt.Errorf("tumor_type_oncotree: trial value for %s must be a string, got %T", args.TrialKey, args.TrialValue)
	}

	if name == "_SOLID_" || name == "_LIQUID_" {
		return matchengine.AndClause{"ONCOTREE_PRIMARY_DIAGNOSIS_NAME": name}, nil
	}

	if args.OncoTree == nil {
		return nil, fmt.Errorf("tumor_type_oncotree: no OncoTree index configured")
	}

	codes := args.OncoTree.Descendants(name)
	if len(codes) == 0 {
		return nil, matchengine.SkipCriterion{Reason: fmt.Sprintf("no oncotree descendants for %q", name)}
	}

	values := make([]interface{}, len(codes))
	for i, c := range codes {
		values[i] = c
	}

	return matchengine.AndClause{"ONCOTREE_PRIMARY_DIAGNOSIS_NAME": map[string]interface{}{"in": values}}, nil
}
