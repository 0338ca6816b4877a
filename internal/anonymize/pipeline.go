package anonymize

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"dataengine/internal/asset"
	apperrors "dataengine/internal/errors"
	"dataengine/internal/security"
)

// Pipeline transforms raw record batches into privacy-bounded batches.
// Each run operates on its own cloned copy of the input; the caller's
// records are never mutated.
type Pipeline struct {
	secrets security.SecretProvider
	logger  *logrus.Logger
	rng     *rand.Rand
}

// NewPipeline creates an anonymization pipeline. A nil logger falls
// back to a default logrus instance.
func NewPipeline(secrets security.SecretProvider, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.New()
	}
	return &Pipeline{
		secrets: secrets,
		logger:  logger,
	}
}

// WithRand injects a random source for reproducible noise in tests
func (p *Pipeline) WithRand(rng *rand.Rand) *Pipeline {
	p.rng = rng
	return p
}

// Run executes the pipeline over one batch. Configuration problems are
// rejected before processing starts; everything after validation is
// recovered locally and surfaced through the result's warnings.
func (p *Pipeline) Run(ctx context.Context, records []asset.Record, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	key, err := p.secrets.PseudonymKey()
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeMissingSecret, "pseudonymization key unavailable")
	}

	start := time.Now()
	result := &Result{
		OriginalRecords: len(records),
		Level:           cfg.TargetLevel,
		Warnings:        []string{},
	}

	working := asset.CloneRecords(records)

	// Stage 1: deterministic pseudonymization of direct identifiers.
	NewPseudonymizer(key).ApplyAll(working)

	if cfg.TargetLevel == asset.LevelPseudonymized {
		result.AchievedK = 1
		result.InformationLoss = 0.05
		return p.finalize(result, cfg, working, 0, start), nil
	}

	// Stage 2: generalization ladder until k-anonymity holds, with
	// suppression of undersized groups at the coarsest level.
	gen := newGeneralizer(cfg.QuasiIdentifiers, working)
	genRes := gen.enforceKAnonymity(working, cfg.KValue)
	working = genRes.records
	suppressed := genRes.suppressed

	// Stage 3: differential-privacy noise on sensitive numeric values.
	if cfg.TargetLevel == asset.LevelFullyAnon {
		NewLaplaceMechanism(cfg.Epsilon, p.rng).ApplyAll(working, cfg.SensitiveAttributes)
	}

	// Stage 4: collapse equivalence classes into aggregate rows.
	if cfg.TargetLevel == asset.LevelAggregated {
		rows, dropped := aggregateGroups(gen, working, cfg.SensitiveAttributes, cfg.KValue)
		working = rows
		suppressed += dropped
	}

	if len(working) == 0 && result.OriginalRecords > 0 {
		result.AchievedK = 0
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"k-anonymity with k=%d could not be achieved; all records suppressed", cfg.KValue))
	} else {
		result.AchievedK = cfg.KValue
	}

	result.InformationLoss = informationLoss(cfg.TargetLevel, genRes.level, suppressed, result.OriginalRecords)

	return p.finalize(result, cfg, working, suppressed, start), nil
}

// finalize runs the residual-PII scan and fills the result metrics
func (p *Pipeline) finalize(result *Result, cfg Config, output []asset.Record, suppressed int, start time.Time) *Result {
	result.Data = output
	result.OutputRecords = len(output)
	if result.OriginalRecords > 0 {
		result.SuppressionRate = float64(suppressed) / float64(result.OriginalRecords)
	}
	result.ReidentificationRisk = reidentificationRisk(cfg.TargetLevel, cfg.KValue)
	result.ProcessingTimeMs = time.Since(start).Milliseconds()

	if result.SuppressionRate > cfg.MaxSuppressionRate {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"suppression rate %.2f exceeds the configured maximum %.2f",
			result.SuppressionRate, cfg.MaxSuppressionRate))
	}

	// Stage 5: best-effort residual-PII scan over a bounded sample.
	result.Warnings = append(result.Warnings, scanResidualPII(output)...)

	p.logger.WithFields(logrus.Fields{
		"target_level":     cfg.TargetLevel,
		"original_records": result.OriginalRecords,
		"output_records":   result.OutputRecords,
		"suppression_rate": result.SuppressionRate,
		"achieved_k":       result.AchievedK,
		"warnings":         len(result.Warnings),
		"duration_ms":      result.ProcessingTimeMs,
	}).Info("Anonymization pipeline complete")

	return result
}

// informationLoss is a proxy metric in [0,1] combining how far the
// generalization ladder climbed with how much data was suppressed.
func informationLoss(level asset.AnonymizationLevel, genLevel, suppressed, original int) float64 {
	suppressionRate := 0.0
	if original > 0 {
		suppressionRate = float64(suppressed) / float64(original)
	}

	var loss float64
	switch level {
	case asset.LevelAggregated:
		loss = 0.8 + 0.2*suppressionRate
	case asset.LevelFullyAnon:
		loss = 0.2 + 0.15*float64(genLevel) + 0.5*suppressionRate
	default:
		loss = 0.1 + 0.15*float64(genLevel) + 0.5*suppressionRate
	}

	return math.Min(1, round2(loss))
}
