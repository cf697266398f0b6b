package transforms

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oncomatch/matchengine/pkg/matchengine"
)

// wildcardSuffix is the "p." protein-notation prefix a curated value must
// carry to be considered for a prefix match; the prefix match itself is
// triggered by a bare codon position, e.g. "p.V600" matches p.V600E,
// p.V600K, and so on.
const wildcardSuffix = "p."

// WildcardProteinChange translates a curated TRUE_PROTEIN_CHANGE value into
// either an exact-match predicate or, when the value starts with "p." and
// is a bare codon position (no terminal amino acid letter), a prefix regex
// over the same field (spec.md §4.5). A value without the "p." prefix is
// always matched exactly.
func WildcardProteinChange(args matchengine.TransformArgs) (matchengine.AndClause, error) {
	change, ok := args.TrialValue.(string)
	if !ok {
		return nil, fmt.Errorf("wildcard_protein_change: trial value for %s must be a string, got %T", args.TrialKey, args.TrialValue)
	}
	change = strings.TrimSpace(change)

	if !strings.HasPrefix(change, wildcardSuffix) {
		return matchengine.AndClause{"TRUE_PROTEIN_CHANGE": change}, nil
	}

	codon := strings.TrimPrefix(change, wildcardSuffix)
	if codonIsComplete(codon) {
		return matchengine.AndClause{"TRUE_PROTEIN_CHANGE": change}, nil
	}

	pattern := "^" + regexp.QuoteMeta(wildcardSuffix) + regexp.QuoteMeta(codon)
	return matchengine.AndClause{"TRUE_PROTEIN_CHANGE": map[string]interface{}{"regex": pattern}}, nil
}

// codonIsComplete reports whether codon already names both the wild-type
// and variant residues (e.g. "V600E"), as opposed to a bare position like
// "V600" that stands for any substitution at that codon.
func codonIsComplete(codon string) bool {
	if codon == "" {
		return false
	}
	last := codon[len(codon)-1]
	return last < '0' || last > '9'
}
