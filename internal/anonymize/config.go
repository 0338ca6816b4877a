package anonymize

import (
	"dataengine/internal/asset"
	apperrors "dataengine/internal/errors"
)

// Default configuration values
const (
	DefaultKValue             = 5
	DefaultEpsilon            = 1.0
	DefaultMaxSuppressionRate = 0.2
)

// Config is the input contract for the anonymization pipeline
type Config struct {
	TargetLevel         asset.AnonymizationLevel `json:"target_level" yaml:"target_level"`
	QuasiIdentifiers    []string                 `json:"quasi_identifiers" yaml:"quasi_identifiers"`
	SensitiveAttributes []string                 `json:"sensitive_attributes" yaml:"sensitive_attributes"`
	KValue              int                      `json:"k_value" yaml:"k_value"`
	Epsilon             float64                  `json:"epsilon" yaml:"epsilon"`
	MaxSuppressionRate  float64                  `json:"max_suppression_rate" yaml:"max_suppression_rate"`
}

// withDefaults fills unset fields with default values
func (c Config) withDefaults() Config {
	if c.KValue == 0 {
		c.KValue = DefaultKValue
	}
	if c.Epsilon == 0 {
		c.Epsilon = DefaultEpsilon
	}
	if c.MaxSuppressionRate == 0 {
		c.MaxSuppressionRate = DefaultMaxSuppressionRate
	}
	return c
}

// Validate rejects invalid configuration before any processing starts
func (c Config) Validate() error {
	switch c.TargetLevel {
	case asset.LevelPseudonymized, asset.LevelKAnonymous, asset.LevelFullyAnon, asset.LevelAggregated:
	default:
		return apperrors.NewAppErrorWithDetails(apperrors.ErrCodeUnknownLevel,
			"unknown anonymization target level", string(c.TargetLevel), nil)
	}

	if c.KValue < 1 {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidKValue,
			"k_value must be at least 1", nil).WithContext("k_value", c.KValue)
	}

	if c.Epsilon <= 0 {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidEpsilon,
			"epsilon must be greater than zero", nil).WithContext("epsilon", c.Epsilon)
	}

	if c.TargetLevel != asset.LevelPseudonymized && len(c.QuasiIdentifiers) == 0 {
		return apperrors.NewAppErrorWithDetails(apperrors.ErrCodeMissingQuasiIDs,
			"quasi_identifiers are required", string(c.TargetLevel), nil)
	}

	return nil
}

// Result is the output contract of the anonymization pipeline
type Result struct {
	OriginalRecords      int                      `json:"original_records"`
	OutputRecords        int                      `json:"output_records"`
	SuppressionRate      float64                  `json:"suppression_rate"`
	AchievedK            int                      `json:"achieved_k"`
	InformationLoss      float64                  `json:"information_loss"`
	ReidentificationRisk float64                  `json:"reidentification_risk"`
	ProcessingTimeMs     int64                    `json:"processing_time_ms"`
	Level                asset.AnonymizationLevel `json:"level"`
	Data                 []asset.Record           `json:"data"`
	Warnings             []string                 `json:"warnings"`
}

// reidentificationRisk is a fixed per-level heuristic, not derived from
// attack modeling. Kept as a documented approximation.
func reidentificationRisk(level asset.AnonymizationLevel, kValue int) float64 {
	switch level {
	case asset.LevelFullyAnon:
		return 0.01
	case asset.LevelKAnonymous:
		return 1.0 / float64(kValue)
	default:
		return 0.4
	}
}

// RiskLabel renders a result's residual risk as a human-readable tier
// for audit summaries.
func RiskLabel(r *Result) string {
	switch {
	case r.ReidentificationRisk <= 0.05:
		return "low"
	case r.ReidentificationRisk <= 0.25:
		return "moderate"
	default:
		return "elevated"
	}
}
