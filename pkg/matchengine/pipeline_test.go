package matchengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/oncomatch/matchengine/internal/config"
	"github.com/oncomatch/matchengine/internal/store"
	"github.com/oncomatch/matchengine/pkg/matchengine"
	"github.com/oncomatch/matchengine/pkg/matchengine/transforms"
)

func TestPipelineRunEndToEnd(t *testing.T) {
	mem := store.NewMemory(map[string][]store.RawDoc{
		"trial": {
			{
				"protocol_no": "001",
				"status":      "Open to Accrual",
				"treatment_list": []interface{}{
					map[string]interface{}{
						"arm": []interface{}{
							map[string]interface{}{
								"arm_suspended": "n",
								"match": []interface{}{
									map[string]interface{}{"clinical": map[string]interface{}{"AGE_NUMERICAL": ">=18"}},
									map[string]interface{}{"genomic": map[string]interface{}{"TRUE_HUGO_SYMBOL": "braf"}},
								},
							},
						},
					},
				},
			},
			{
				"protocol_no": "002",
				"status":      "Suspended",
			},
		},
		"clinical": {
			{"_id": "c1", "SAMPLE_ID": "s1", "VITAL_STATUS": "alive", "BIRTH_DATE": "1980-01-01"},
		},
		"genomic": {
			{"_id": "g1", "SAMPLE_ID": "s1", "TRUE_HUGO_SYMBOL": "BRAF"},
		},
	})

	cfg := &config.TransformConfig{
		TrialKeyMappings: map[string]map[string]config.KeySetting{
			"genomic":  {"TRUE_HUGO_SYMBOL": {SampleValue: "hugo_symbol"}},
			"clinical": {"AGE_NUMERICAL": {SampleValue: "age_range"}},
		},
		CollectionMappings: map[string]config.CollectionMapping{
			"genomic": {JoinField: "SAMPLE_ID"},
		},
	}

	registry := matchengine.NewTransformRegistry()
	transforms.RegisterBuiltins(registry)

	pipeline := matchengine.Pipeline{
		Source:    &matchengine.TrialSource{Store: mem},
		Extractor: &matchengine.MatchClauseExtractor{},
		Translator: &matchengine.CriteriaTranslator{
			Config:        cfg,
			Registry:      registry,
			ReferenceTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Runner: &matchengine.TwoPhaseQueryRunner{Store: mem, Config: cfg},
	}

	matches, err := pipeline.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Run() produced %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.Trial.ProtocolNo != "001" {
		t.Errorf("matched trial = %q, want 001", m.Trial.ProtocolNo)
	}
	if len(m.RawResults) != 1 || m.RawResults[0].ClinicalID != "c1" {
		t.Fatalf("RawResults = %v, want exactly clinical doc c1", m.RawResults)
	}
}

func TestPipelineRunRespectsProtocolFilter(t *testing.T) {
	mem := store.NewMemory(map[string][]store.RawDoc{
		"trial": {
			{"protocol_no": "001", "status": "Open to Accrual"},
			{"protocol_no": "002", "status": "Open to Accrual"},
		},
	})
	cfg := &config.TransformConfig{
		CollectionMappings: map[string]config.CollectionMapping{"genomic": {JoinField: "SAMPLE_ID"}},
	}
	pipeline := matchengine.Pipeline{
		Source:     &matchengine.TrialSource{Store: mem},
		Extractor:  &matchengine.MatchClauseExtractor{},
		Translator: &matchengine.CriteriaTranslator{Config: cfg, Registry: matchengine.NewTransformRegistry(), ReferenceTime: time.Now()},
		Runner:     &matchengine.TwoPhaseQueryRunner{Store: mem, Config: cfg},
	}

	matches, err := pipeline.Run(context.Background(), map[string]bool{"002": true})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("Run() = %v, want no matches since neither trial has any match clause", matches)
	}
}
