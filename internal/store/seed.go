package store

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadSeed reads a JSON file shaped as {"trial": [...], "clinical": [...],
// "genomic": [...]} into the collection map NewMemory expects. It exists
// so cmd/match can run end-to-end against a throwaway fixture without a
// real store connection, exactly the "runnable example for an operator
// wiring a real store later" role SPEC_FULL.md §6.1 describes for Memory.
func LoadSeed(path string) (map[string][]RawDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	var collections map[string][]RawDoc
	if err := json.Unmarshal(data, &collections); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return collections, nil
}
