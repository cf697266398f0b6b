package matchengine

import "testing"

func trialWith(treatmentList []interface{}) Trial {
	return Trial{ProtocolNo: "001", raw: RawDoc{"treatment_list": treatmentList}}
}

func TestExtractFindsClauseAtArmLevel(t *testing.T) {
	trial := trialWith([]interface{}{
		RawDoc{
			"arm": []interface{}{
				RawDoc{
					"arm_suspended": "n",
					"match":         []interface{}{RawDoc{"clinical": RawDoc{"AGE_NUMERICAL": ">=18"}}},
				},
			},
		},
	})

	got, err := (&MatchClauseExtractor{}).Extract(trial)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Extract() = %v, want exactly one clause", got)
	}
	if got[0].Level != "arm" {
		t.Errorf("Level = %q, want %q", got[0].Level, "arm")
	}
	if got[0].ParentPath.String() != "treatment_list.0.arm.0.match" {
		t.Errorf("ParentPath = %q, want %q", got[0].ParentPath.String(), "treatment_list.0.arm.0.match")
	}
}

func TestExtractSkipsSuspendedArm(t *testing.T) {
	trial := trialWith([]interface{}{
		RawDoc{
			"arm": []interface{}{
				RawDoc{
					"arm_suspended": "y",
					"match":         []interface{}{RawDoc{"clinical": RawDoc{"AGE_NUMERICAL": ">=18"}}},
				},
			},
		},
	})
	if got, err := (&MatchClauseExtractor{}).Extract(trial); len(got) != 0 || err != nil {
		t.Errorf("Extract() = %v, %v, want no clauses from a suspended arm", got, err)
	}
}

func TestExtractSkipsSuspendedDose(t *testing.T) {
	trial := trialWith([]interface{}{
		RawDoc{
			"arm": []interface{}{
				RawDoc{
					"dose": []interface{}{
						RawDoc{
							"level_suspended": "y",
							"match":           []interface{}{RawDoc{"clinical": RawDoc{"AGE_NUMERICAL": ">=18"}}},
						},
					},
				},
			},
		},
	})
	if got, err := (&MatchClauseExtractor{}).Extract(trial); len(got) != 0 || err != nil {
		t.Errorf("Extract() = %v, %v, want no clauses from a suspended dose", got, err)
	}
}

func TestExtractStepFullySuspendedWhenAllArmsSuspended(t *testing.T) {
	trial := trialWith([]interface{}{
		RawDoc{
			"step": []interface{}{
				RawDoc{
					"arm": []interface{}{
						RawDoc{"arm_suspended": "y"},
						RawDoc{"arm_suspended": "y"},
					},
					"match": []interface{}{RawDoc{"clinical": RawDoc{"AGE_NUMERICAL": ">=18"}}},
				},
			},
		},
	})
	if got, err := (&MatchClauseExtractor{}).Extract(trial); len(got) != 0 || err != nil {
		t.Errorf("Extract() = %v, %v, want a step clause suspended when every arm is suspended", got, err)
	}
}

func TestExtractStepNotSuspendedWhenOneArmOpen(t *testing.T) {
	trial := trialWith([]interface{}{
		RawDoc{
			"step": []interface{}{
				RawDoc{
					"arm": []interface{}{
						RawDoc{"arm_suspended": "y"},
						RawDoc{"arm_suspended": "n"},
					},
					"match": []interface{}{RawDoc{"clinical": RawDoc{"AGE_NUMERICAL": ">=18"}}},
				},
			},
		},
	})
	if got, err := (&MatchClauseExtractor{}).Extract(trial); len(got) != 1 || err != nil {
		t.Errorf("Extract() = %v, %v, want the step clause kept when at least one arm is open", got, err)
	}
}

func TestExtractStepMissingArmListIsFullySuspended(t *testing.T) {
	trial := trialWith([]interface{}{
		RawDoc{
			"step": []interface{}{
				RawDoc{
					"match": []interface{}{RawDoc{"clinical": RawDoc{"AGE_NUMERICAL": ">=18"}}},
				},
			},
		},
	})
	if got, err := (&MatchClauseExtractor{}).Extract(trial); len(got) != 0 || err != nil {
		t.Errorf("Extract() = %v, %v, want a step with no arm list treated as fully suspended", got, err)
	}
}

func TestExtractIgnoresTopLevelMatchKey(t *testing.T) {
	trial := Trial{ProtocolNo: "001", raw: RawDoc{
		"match": []interface{}{RawDoc{"clinical": RawDoc{"AGE_NUMERICAL": ">=18"}}},
	}}
	if got, err := (&MatchClauseExtractor{}).Extract(trial); len(got) != 0 || err != nil {
		t.Errorf("Extract() = %v, %v, want the top-level match key suppressed", got, err)
	}
}

func TestExtractAccumulatesMalformedClauseItemsWithoutFailingTheTrial(t *testing.T) {
	trial := trialWith([]interface{}{
		RawDoc{
			"arm": []interface{}{
				RawDoc{
					"arm_suspended": "n",
					"match": []interface{}{
						RawDoc{"clinical": RawDoc{"AGE_NUMERICAL": ">=18"}},
						"not a dict",
					},
				},
			},
		},
	})

	got, err := (&MatchClauseExtractor{}).Extract(trial)
	if err == nil {
		t.Fatal("Extract() error = nil, want a MultiError for the malformed clause item")
	}
	merr, ok := err.(MultiError)
	if !ok || merr.Count() != 1 {
		t.Fatalf("Extract() error = %v, want a MultiError with exactly one entry", err)
	}
	if len(got) != 1 || len(got[0].MatchClause) != 1 {
		t.Fatalf("Extract() = %v, want the well-formed clause item kept despite the malformed one", got)
	}
}
