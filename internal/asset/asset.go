package asset

import "time"

// Category classifies a data asset by the kind of signal it carries.
type Category string

const (
	CategoryOperational Category = "operational"
	CategoryBehavioral  Category = "behavioral"
	CategoryMarket      Category = "market"
	CategoryPredictive  Category = "predictive"
	CategoryFinancial   Category = "financial"
	CategoryGeographic  Category = "geographic"
)

// PIIType identifies a kind of personally identifying information
// detected inside an asset's records.
type PIIType string

const (
	PIIEmail       PIIType = "email"
	PIIPhone       PIIType = "phone"
	PIIName        PIIType = "name"
	PIIAddress     PIIType = "address"
	PIIPaymentInfo PIIType = "payment_info"
	PIIDeviceID    PIIType = "device_id"
	PIINationalID  PIIType = "national_id"
	PIIIPAddress   PIIType = "ip_address"
	PIILocation    PIIType = "location"
)

// AnonymizationLevel is the transformation level last applied to an
// asset's records, ordered by increasing information loss.
type AnonymizationLevel string

const (
	LevelNone          AnonymizationLevel = "none"
	LevelPseudonymized AnonymizationLevel = "pseudonymized"
	LevelKAnonymous    AnonymizationLevel = "k_anonymous"
	LevelFullyAnon     AnonymizationLevel = "fully_anonymous"
	LevelAggregated    AnonymizationLevel = "aggregated"
)

// Record is one raw data row. Values may be strings, numbers, bools or
// nested JSON-shaped values; the engines inspect types at runtime.
type Record map[string]interface{}

// DataAsset represents one monetizable data product. Category,
// sensitivity, PII types and the initial scores are assigned by the
// upstream classification service and treated as validated inputs here.
type DataAsset struct {
	ID                string             `json:"id"`
	Name              string             `json:"name,omitempty"`
	Category          Category           `json:"category"`
	Sensitivity       int                `json:"sensitivity"` // 1 (public) .. 5 (highly confidential)
	PIITypes          []PIIType          `json:"pii_types,omitempty"`
	QualityScore      float64            `json:"quality_score"`
	UniquenessScore   float64            `json:"uniqueness_score"`
	DemandScore       float64            `json:"demand_score"`
	FreshnessScore    float64            `json:"freshness_score"`
	FreshnessHours    float64            `json:"freshness_hours"`
	MonetizationScore float64            `json:"monetization_score"`
	VolumeRecords     int64              `json:"volume_records"`
	ContainsPII       bool               `json:"contains_pii"`
	Anonymization     AnonymizationLevel `json:"anonymization_level"`
	UpdatedAt         time.Time          `json:"updated_at,omitempty"`
}

// HasPII reports whether the asset carries the given PII type.
func (a *DataAsset) HasPII(t PIIType) bool {
	for _, p := range a.PIITypes {
		if p == t {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of a record so transformations never touch
// the caller's original rows.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CloneRecords deep-copies a batch of records.
func CloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
