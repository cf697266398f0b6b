package matchengine

import (
	"testing"
	"time"

	"github.com/oncomatch/matchengine/internal/config"
)

func nomapOnlyRegistry() *TransformRegistry {
	r := NewTransformRegistry()
	r.Register("nomap", func(args TransformArgs) (AndClause, error) {
		return AndClause{args.SampleKey: args.TrialValue}, nil
	})
	return r
}

func TestTranslateAppliesIgnoreSetting(t *testing.T) {
	cfg := &config.TransformConfig{
		TrialKeyMappings: map[string]map[string]config.KeySetting{
			"clinical": {"INTERNAL_NOTE": {Ignore: true}},
		},
	}
	tr := &CriteriaTranslator{Config: cfg, Registry: nomapOnlyRegistry(), ReferenceTime: time.Unix(0, 0)}

	path := MatchCriterion{{"clinical": RawDoc{"INTERNAL_NOTE": "ignore me", "AGE_NUMERICAL": ">=18"}}}
	query, err := tr.Translate(path, nil, "001", "treatment_list.0.match")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if len(query.Clinical) != 2 { // the AGE_NUMERICAL clause + the default alive filter
		t.Fatalf("Clinical clauses = %v, want 2 (the non-ignored criterion plus the default filter)", query.Clinical)
	}
	for _, clause := range query.Clinical {
		if _, ok := clause["INTERNAL_NOTE"]; ok {
			t.Errorf("ignored trial key leaked into query: %v", clause)
		}
	}
}

func TestTranslateDefaultsToAliveWhenNoSampleIDs(t *testing.T) {
	tr := &CriteriaTranslator{Config: &config.TransformConfig{}, Registry: nomapOnlyRegistry(), ReferenceTime: time.Unix(0, 0)}
	query, err := tr.Translate(nil, nil, "001", "match")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if len(query.Clinical) != 1 || query.Clinical[0]["VITAL_STATUS"] != "alive" {
		t.Fatalf("query.Clinical = %v, want the default alive-only filter", query.Clinical)
	}
}

func TestTranslateUsesSampleIDsWhenGiven(t *testing.T) {
	tr := &CriteriaTranslator{Config: &config.TransformConfig{}, Registry: nomapOnlyRegistry(), ReferenceTime: time.Unix(0, 0)}
	query, err := tr.Translate(nil, []string{"s1", "s2"}, "001", "match")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if len(query.Clinical) != 1 {
		t.Fatalf("query.Clinical = %v, want exactly one SAMPLE_ID filter", query.Clinical)
	}
	pred, ok := query.Clinical[0]["SAMPLE_ID"].(map[string]interface{})
	if !ok {
		t.Fatalf("SAMPLE_ID predicate = %v, want an 'in' operator map", query.Clinical[0]["SAMPLE_ID"])
	}
	ids, _ := pred["in"].([]interface{})
	if len(ids) != 2 {
		t.Errorf("in-list = %v, want 2 sample ids", ids)
	}
}

func TestTranslateUnknownTransformIsFatal(t *testing.T) {
	cfg := &config.TransformConfig{
		TrialKeyMappings: map[string]map[string]config.KeySetting{
			"clinical": {"WEIRD_KEY": {SampleValue: "does_not_exist"}},
		},
	}
	tr := &CriteriaTranslator{Config: cfg, Registry: nomapOnlyRegistry(), ReferenceTime: time.Unix(0, 0)}
	path := MatchCriterion{{"clinical": RawDoc{"WEIRD_KEY": "x"}}}
	_, err := tr.Translate(path, nil, "001", "match")
	if err == nil {
		t.Fatal("expected an UnknownTransform error")
	}
	merr, ok := err.(*MatchError)
	if !ok || merr.Kind != KindUnknownTransform {
		t.Errorf("err = %v, want a KindUnknownTransform MatchError", err)
	}
}

func TestTranslateSkipCriterionDropsNoClause(t *testing.T) {
	r := NewTransformRegistry()
	r.Register("skip_always", func(args TransformArgs) (AndClause, error) {
		return nil, SkipCriterion{Reason: "test"}
	})
	cfg := &config.TransformConfig{
		TrialKeyMappings: map[string]map[string]config.KeySetting{
			"genomic": {"TRUE_HUGO_SYMBOL": {SampleValue: "skip_always"}},
		},
	}
	tr := &CriteriaTranslator{Config: cfg, Registry: r, ReferenceTime: time.Unix(0, 0)}
	path := MatchCriterion{{"genomic": RawDoc{"TRUE_HUGO_SYMBOL": "any gene"}}}
	query, err := tr.Translate(path, nil, "001", "match")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if len(query.Genomic) != 1 || len(query.Genomic[0]) != 0 {
		t.Fatalf("query.Genomic = %v, want one empty clause from a skipped criterion", query.Genomic)
	}
}
