package services

import (
	"reflect"
	"testing"

	"apartment-hunter/config"
)

func testGroups() []config.KeywordGroup {
	return []config.KeywordGroup{
		{Name: "gym", Synonyms: []string{"gym", "fitness", "fitnesscenter"}, Required: false},
		{Name: "parking", Synonyms: []string{"parking", "garage"}, Required: true},
	}
}

func TestKeywordExtract(t *testing.T) {
	e := NewKeywordExtractor(testGroups())

	tests := []struct {
		name        string
		body        string
		wantMatched []string
		wantOK      bool
	}{
		{
			name:        "optional only",
			body:        "Full gym on the second floor.",
			wantMatched: []string{"gym"},
			wantOK:      false,
		},
		{
			name:        "required matched",
			body:        "Unit comes with a parking garage spot.",
			wantMatched: []string{"parking"},
			wantOK:      true,
		},
		{
			name:        "both matched case-insensitive",
			body:        "FITNESS center and covered PARKING included",
			wantMatched: []string{"gym", "parking"},
			wantOK:      true,
		},
		{
			name:        "nothing matched",
			body:        "Cozy studio close to everything.",
			wantMatched: nil,
			wantOK:      false,
		},
		{
			name:        "absent body is a vacuous pass",
			body:        "",
			wantMatched: nil,
			wantOK:      true,
		},
	}

	for _, tt := range tests {
		matched, ok := e.Extract(tt.body)
		if !reflect.DeepEqual(matched, tt.wantMatched) {
			t.Errorf("%s: matched = %v; want %v", tt.name, matched, tt.wantMatched)
		}
		if ok != tt.wantOK {
			t.Errorf("%s: requiredOK = %v; want %v", tt.name, ok, tt.wantOK)
		}
	}
}

func TestKeywordExtractCollectsAfterRequiredMiss(t *testing.T) {
	groups := []config.KeywordGroup{
		{Name: "parking", Synonyms: []string{"parking"}, Required: true},
		{Name: "pool", Synonyms: []string{"pool", "swimming"}, Required: false},
	}
	e := NewKeywordExtractor(groups)

	// The required miss must not short-circuit collection of later groups.
	matched, ok := e.Extract("rooftop swimming pool")
	if ok {
		t.Errorf("requiredOK = true; want false")
	}
	if !reflect.DeepEqual(matched, []string{"pool"}) {
		t.Errorf("matched = %v; want [pool]", matched)
	}
}
