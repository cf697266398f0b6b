package transforms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oncomatch/matchengine/pkg/matchengine"
)

// negationPrefix marks a curated value as an exclusion: "!Silent" matches
// anything except "Silent" (spec.md §4.5).
const negationPrefix = "!"

// VariantClassification handles the three exclusion-aware trial keys that
// share one shape: VARIANT_CLASSIFICATION, CNV_CALL, and WILDTYPE. For
// every key but WILDTYPE, a leading "!" negates the match; WILDTYPE instead
// normalizes its trial-side true/false spelling to the document store's
// boolean field, and a "!"-prefixed WILDTYPE value is a parse error.
func VariantClassification(args matchengine.TransformArgs) (matchengine.AndClause, error) {
	if args.TrialKey == "WILDTYPE" {
		return wildtypeClause(args)
	}

	raw, ok := args.TrialValue.(string)
	if !ok {
		return nil, fmt.Errorf("variant_classification: trial value for %s must be a string, got %T", args.TrialKey, args.TrialValue)
	}

	if strings.HasPrefix(raw, negationPrefix) {
		excluded := strings.TrimPrefix(raw, negationPrefix)
		return matchengine.AndClause{args.TrialKey: map[string]interface{}{"ne": excluded}}, nil
	}

	return matchengine.AndClause{args.TrialKey: raw}, nil
}

// wildtypeClause normalizes the curated WILDTYPE value, which may arrive
// as a bool or as one of several truthy/falsy string spellings.
func wildtypeClause(args matchengine.TransformArgs) (matchengine.AndClause, error) {
	switch v := args.TrialValue.(type) {
	case bool:
		return matchengine.AndClause{"WILDTYPE": v}, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("variant_classification: cannot parse WILDTYPE value %q: %w", v, err)
		}
		return matchengine.AndClause{"WILDTYPE": b}, nil
	default:
		return nil, fmt.Errorf("variant_classification: unsupported WILDTYPE value type %T", v)
	}
}
