package anonymize

import (
	"testing"

	"dataengine/internal/asset"
)

func TestGeneralizeNumericBuckets(t *testing.T) {
	tests := []struct {
		value    float64
		level    int
		expected interface{}
	}{
		{37.0, 0, 37.0},
		{37.0, 1, "35-40"},
		{37.0, 2, "30-40"},
		{37.0, 3, "0-50"},
		{137.0, 4, "100-200"},
	}

	for _, test := range tests {
		got := generalizeValue(kindNumeric, test.value, test.level)
		if got != test.expected {
			t.Errorf("value %v at level %d: expected %v, got %v", test.value, test.level, test.expected, got)
		}
	}
}

func TestGeneralizeDates(t *testing.T) {
	tests := []struct {
		value    string
		level    int
		expected string
	}{
		{"2024-03-15T10:30:00Z", 0, "2024-03-15"},
		{"2024-03-15", 1, "2024-03-15"},
		{"2024-03-15", 2, "2024-03"},
		{"2024-03-15", 3, "2024"},
		{"2024-03-15", 4, "2024"},
	}

	for _, test := range tests {
		got := generalizeValue(kindDate, test.value, test.level)
		if got != test.expected {
			t.Errorf("date %s at level %d: expected %s, got %v", test.value, test.level, test.expected, got)
		}
	}
}

func TestGeneralizeZipCodes(t *testing.T) {
	tests := []struct {
		value    string
		level    int
		expected string
	}{
		{"75011", 0, "75011"},
		{"75011", 1, "7501*"},
		{"75011", 2, "750**"},
		{"75011", 3, "75***"},
		{"75011", 4, "7****"},
	}

	for _, test := range tests {
		got := generalizeValue(kindZip, test.value, test.level)
		if got != test.expected {
			t.Errorf("zip %s at level %d: expected %s, got %v", test.value, test.level, test.expected, got)
		}
	}
}

func TestGeneralizeStringsWildcard(t *testing.T) {
	if got := generalizeValue(kindString, "Paris", 2); got != "Paris" {
		t.Errorf("Level 2 should keep the value, got %v", got)
	}
	if got := generalizeValue(kindString, "Paris", 3); got != "P*" {
		t.Errorf("Level 3 should keep the first character, got %v", got)
	}
	if got := generalizeValue(kindString, "Paris", 4); got != "*" {
		t.Errorf("Level 4 should wildcard, got %v", got)
	}
}

func TestClassifyField(t *testing.T) {
	if classifyField("zip_code", "75011") != kindZip {
		t.Error("zip_code should classify as zip")
	}
	if classifyField("age", 31.0) != kindNumeric {
		t.Error("numeric sample should classify as numeric")
	}
	if classifyField("checkin", "2024-03-15") != kindDate {
		t.Error("date-like string should classify as date")
	}
	if classifyField("city", "Paris") != kindString {
		t.Error("plain string should classify as string")
	}
}

func TestEnforceKAnonymityStopsAtFirstSatisfyingLevel(t *testing.T) {
	records := []asset.Record{
		{"age": 31.0},
		{"age": 33.0},
		{"age": 34.0},
	}
	g := newGeneralizer([]string{"age"}, records)

	res := g.enforceKAnonymity(records, 3)
	if res.level != 1 {
		t.Errorf("Expected generalization to stop at level 1, got %d", res.level)
	}
	if res.suppressed != 0 {
		t.Errorf("Expected no suppression, got %d", res.suppressed)
	}
	if len(res.records) != 3 {
		t.Errorf("Expected 3 records, got %d", len(res.records))
	}
}
