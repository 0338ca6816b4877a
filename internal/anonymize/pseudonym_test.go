package anonymize

import (
	"fmt"
	"testing"

	"dataengine/internal/asset"
)

func TestTokenDeterminism(t *testing.T) {
	p := NewPseudonymizer([]byte("0123456789abcdef0123456789abcdef"))

	t1 := p.Token("email", "alice@example.com")
	t2 := p.Token("email", "alice@example.com")

	if t1 != t2 {
		t.Errorf("Same input should yield same token, got %s and %s", t1, t2)
	}
	if len(t1) != pseudonymLength {
		t.Errorf("Expected token length %d, got %d", pseudonymLength, len(t1))
	}
}

func TestTokenFieldSeparation(t *testing.T) {
	p := NewPseudonymizer([]byte("0123456789abcdef0123456789abcdef"))

	// The same value in different fields must not produce the same
	// token, otherwise tokens leak cross-field equality.
	if p.Token("email", "x") == p.Token("phone", "x") {
		t.Error("Tokens should be domain-separated by field name")
	}
}

func TestTokenKeyDependence(t *testing.T) {
	p1 := NewPseudonymizer([]byte("key-one-key-one-key-one-key-one!"))
	p2 := NewPseudonymizer([]byte("key-two-key-two-key-two-key-two!"))

	if p1.Token("email", "alice@example.com") == p2.Token("email", "alice@example.com") {
		t.Error("Different keys should yield different tokens")
	}
}

func TestTokenCollisionSpotCheck(t *testing.T) {
	p := NewPseudonymizer([]byte("0123456789abcdef0123456789abcdef"))

	seen := make(map[string]string, 2000)
	for i := 0; i < 2000; i++ {
		value := fmt.Sprintf("user-%d@example.com", i)
		token := p.Token("email", value)
		if prev, exists := seen[token]; exists {
			t.Fatalf("Token collision between %s and %s", prev, value)
		}
		seen[token] = value
	}
}

func TestApplyOnlyTouchesPIIFields(t *testing.T) {
	p := NewPseudonymizer([]byte("0123456789abcdef0123456789abcdef"))

	record := asset.Record{
		"email":   "alice@example.com",
		"name":    "Alice",
		"city":    "Paris",
		"revenue": 42.0,
	}
	p.Apply(record)

	if record["email"] == "alice@example.com" {
		t.Error("email should be replaced")
	}
	if record["name"] == "Alice" {
		t.Error("name should be replaced")
	}
	if record["city"] != "Paris" {
		t.Error("city should be untouched")
	}
	if record["revenue"] != 42.0 {
		t.Error("numeric fields should be untouched")
	}
}
