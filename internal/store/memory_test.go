package store

import (
	"context"
	"testing"
)

func sampleCollections() map[string][]RawDoc {
	return map[string][]RawDoc{
		"clinical": {
			{"_id": "c1", "SAMPLE_ID": "s1", "VITAL_STATUS": "alive", "BIRTH_DATE": "1980-01-01"},
			{"_id": "c2", "SAMPLE_ID": "s2", "VITAL_STATUS": "deceased", "BIRTH_DATE": "1950-01-01"},
		},
		"genomic": {
			{"_id": "g1", "SAMPLE_ID": "s1", "TRUE_HUGO_SYMBOL": "BRAF"},
			{"_id": "g2", "SAMPLE_ID": "s2", "TRUE_HUGO_SYMBOL": "KRAS"},
		},
	}
}

func TestMemoryFindEquality(t *testing.T) {
	m := NewMemory(sampleCollections())
	docs, err := m.Find(context.Background(), "clinical", AndClause{"VITAL_STATUS": "alive"}, nil)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if len(docs) != 1 || docs[0]["_id"] != "c1" {
		t.Fatalf("Find(VITAL_STATUS=alive) = %v, want [c1]", docs)
	}
}

func TestMemoryFindOperators(t *testing.T) {
	m := NewMemory(sampleCollections())

	tests := []struct {
		name   string
		filter AndClause
		wantID string
	}{
		{name: "in", filter: AndClause{"SAMPLE_ID": map[string]interface{}{"in": []interface{}{"s2"}}}, wantID: "c2"},
		{name: "ne", filter: AndClause{"VITAL_STATUS": map[string]interface{}{"ne": "alive"}}, wantID: "c2"},
		{name: "le", filter: AndClause{"BIRTH_DATE": map[string]interface{}{"le": "1960-01-01"}}, wantID: "c2"},
		{name: "ge", filter: AndClause{"BIRTH_DATE": map[string]interface{}{"ge": "1960-01-01"}}, wantID: "c1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := m.Find(context.Background(), "clinical", tt.filter, nil)
			if err != nil {
				t.Fatalf("Find returned error: %v", err)
			}
			if len(docs) != 1 || docs[0]["_id"] != tt.wantID {
				t.Fatalf("Find(%v) = %v, want [%s]", tt.filter, docs, tt.wantID)
			}
		})
	}
}

func TestMemoryFindUnknownCollection(t *testing.T) {
	m := NewMemory(sampleCollections())
	if _, err := m.Find(context.Background(), "nope", AndClause{}, nil); err == nil {
		t.Fatal("Find on an unseeded collection should return an error")
	}
}

func TestMemoryFindProjection(t *testing.T) {
	m := NewMemory(sampleCollections())
	docs, err := m.Find(context.Background(), "clinical", AndClause{"SAMPLE_ID": "s1"}, []string{"VITAL_STATUS"})
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected one doc, got %d", len(docs))
	}
	if _, ok := docs[0]["BIRTH_DATE"]; ok {
		t.Error("projected document should not include unrequested fields")
	}
	if docs[0]["_id"] != "c1" {
		t.Error("projected document should always keep _id")
	}
}

func TestMemoryFindDeterministicOrder(t *testing.T) {
	m := NewMemory(sampleCollections())
	first, _ := m.Find(context.Background(), "clinical", AndClause{}, nil)
	second, _ := m.Find(context.Background(), "clinical", AndClause{}, nil)
	for i := range first {
		if first[i]["_id"] != second[i]["_id"] {
			t.Fatalf("Find order is not stable across calls: %v vs %v", first, second)
		}
	}
}

func TestMemoryFindContextCancelled(t *testing.T) {
	m := NewMemory(sampleCollections())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Find(ctx, "clinical", AndClause{}, nil); err == nil {
		t.Fatal("Find with a cancelled context should return an error")
	}
}
