package transforms

import (
	"fmt"
	"strings"

	"github.com/oncomatch/matchengine/pkg/matchengine"
)

// anyGeneSentinel is the curated value meaning "this criterion doesn't
// restrict by gene" — it carries no predicate and is skipped outright.
const anyGeneSentinel = "any gene"

// HugoSymbol normalizes a curated gene symbol to upper case before
// matching it against TRUE_HUGO_SYMBOL (spec.md §4.5). Trials curated with
// the "any gene" sentinel contribute no predicate at all.
func HugoSymbol(args matchengine.TransformArgs) (matchengine.AndClause, error) {
	symbol, ok := args.TrialValue.(string)
	if !ok {
		return nil, fmt.Errorf("hugo_symbol: trial value for %s must be a string, got %T", args.TrialKey, args.TrialValue)
	}

	if strings.EqualFold(strings.TrimSpace(symbol), anyGeneSentinel) {
		return nil, matchengine.SkipCriterion{Reason: "any gene"}
	}

	return matchengine.AndClause{"TRUE_HUGO_SYMBOL": strings.ToUpper(strings.TrimSpace(symbol))}, nil
}
