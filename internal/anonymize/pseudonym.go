package anonymize

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"dataengine/internal/asset"
)

// pseudonymLength is the number of hex characters kept from the digest.
const pseudonymLength = 16

// piiFields is the fixed vocabulary of directly identifying field names
// replaced during pseudonymization.
var piiFields = map[string]bool{
	"email":       true,
	"phone":       true,
	"name":        true,
	"first_name":  true,
	"last_name":   true,
	"address":     true,
	"ip":          true,
	"ip_address":  true,
	"device_id":   true,
	"national_id": true,
}

// Pseudonymizer replaces identifying values with deterministic keyed
// digests so the same entity maps to the same token across calls.
type Pseudonymizer struct {
	key []byte
}

// NewPseudonymizer creates a pseudonymizer around the given key
func NewPseudonymizer(key []byte) *Pseudonymizer {
	return &Pseudonymizer{key: key}
}

// Token computes the pseudonym for one field value
func (p *Pseudonymizer) Token(field, value string) string {
	mac := hmac.New(sha256.New, p.key)
	mac.Write([]byte(field + ":" + value))
	digest := hex.EncodeToString(mac.Sum(nil))
	return digest[:pseudonymLength]
}

// Apply replaces every known PII field's string value in the record
func (p *Pseudonymizer) Apply(record asset.Record) {
	for field, value := range record {
		if !piiFields[field] {
			continue
		}
		if s, ok := value.(string); ok && s != "" {
			record[field] = p.Token(field, s)
		}
	}
}

// ApplyAll pseudonymizes a whole batch in place
func (p *Pseudonymizer) ApplyAll(records []asset.Record) {
	for _, r := range records {
		p.Apply(r)
	}
}
