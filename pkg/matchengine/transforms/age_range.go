package transforms

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/oncomatch/matchengine/pkg/matchengine"
)

var ageRangePattern = regexp.MustCompile(`^\s*(>=|<=|>|<)\s*(\d+(?:\.\d+)?)\s*$`)

// daysPerYear approximates a year count in days, matching how trial
// curation expresses age eligibility as whole/fractional years.
const daysPerYear = 365.25

// AgeRange translates an AGE_NUMERICAL-style trial value (">=18", "<=70")
// into a BIRTH_DATE predicate relative to args.ReferenceTime, rather than
// a live age comparison — so the same query run always produces the same
// predicate (SPEC_FULL.md §9, spec.md §8's determinism law).
func AgeRange(args matchengine.TransformArgs) (matchengine.AndClause, error) {
	raw, ok := args.TrialValue.(string)
	if !ok {
		return nil, fmt.Errorf("age_range: trial value for %s must be a string, got %T", args.TrialKey, args.TrialValue)
	}

	m := ageRangePattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("age_range: cannot parse trial value %q for %s", raw, args.TrialKey)
	}
	op := m[1]
	years, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, fmt.Errorf("age_range: cannot parse years in %q: %w", raw, err)
	}

	threshold := args.ReferenceTime.AddDate(0, 0, -int(years*daysPerYear))
	birthDate := threshold.Format("2006-01-02")

	// ">= N years old" means born on or before the threshold date;
	// "<= N years old" means born on or after it.
	switch op {
	case ">=", ">":
		return matchengine.AndClause{"BIRTH_DATE": map[string]interface{}{"le": birthDate}}, nil
	case "<=", "<":
		return matchengine.AndClause{"BIRTH_DATE": map[string]interface{}{"ge": birthDate}}, nil
	default:
		return nil, fmt.Errorf("age_range: unsupported operator %q", op)
	}
}
