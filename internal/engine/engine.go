package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"dataengine/internal/anonymize"
	"dataengine/internal/asset"
	"dataengine/internal/cache"
	"dataengine/internal/cluster"
	"dataengine/internal/config"
	"dataengine/internal/monitoring"
	"dataengine/internal/pricing"
	"dataengine/internal/security"
)

// quoteCacheTTL bounds how long a computed quote is served from cache.
const quoteCacheTTL = 15 * time.Minute

// Engine is the facade over the three data-monetization engines. It is
// the seam an upstream transport and authorization layer calls into;
// no authorization happens here.
type Engine struct {
	cfg       *config.Config
	logger    *logrus.Logger
	metrics   *monitoring.Metrics
	cacher    cache.Cacher
	pipeline  *anonymize.Pipeline
	pricer    *pricing.Engine
	clusterer *cluster.Engine
}

// New wires the engines together from configuration
func New(cfg *config.Config, log *logrus.Logger, metrics *monitoring.Metrics, cacher cache.Cacher, secrets security.SecretProvider) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logrus.New()
	}

	pricer := pricing.NewEngine(log)
	if len(cfg.Pricing.BasePrices) > 0 {
		overrides := make(map[asset.Category]float64, len(cfg.Pricing.BasePrices))
		for category, price := range cfg.Pricing.BasePrices {
			overrides[asset.Category(category)] = price
		}
		pricer.WithBasePrices(overrides)
	}

	clusterer := cluster.NewEngine(log)
	if cfg.Clustering.MaxIterations > 0 {
		clusterer.WithMaxIterations(cfg.Clustering.MaxIterations)
	}

	return &Engine{
		cfg:       cfg,
		logger:    log,
		metrics:   metrics,
		cacher:    cacher,
		pipeline:  anonymize.NewPipeline(secrets, log),
		pricer:    pricer,
		clusterer: clusterer,
	}
}

// RunAnonymizationPipeline transforms a raw record batch under the
// given configuration, filling unset knobs from the engine defaults.
func (e *Engine) RunAnonymizationPipeline(ctx context.Context, records []asset.Record, cfg anonymize.Config) (*anonymize.Result, error) {
	if cfg.KValue == 0 {
		cfg.KValue = e.cfg.Anonymization.DefaultKValue
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = e.cfg.Anonymization.DefaultEpsilon
	}
	if cfg.MaxSuppressionRate == 0 {
		cfg.MaxSuppressionRate = e.cfg.Anonymization.MaxSuppressionRate
	}

	runID := uuid.NewString()
	start := time.Now()

	result, err := e.pipeline.Run(ctx, records, cfg)
	if err != nil {
		if e.metrics != nil {
			e.metrics.ObservePipelineRun(string(cfg.TargetLevel), "error", time.Since(start), 0, 0)
		}
		e.logger.WithFields(logrus.Fields{
			"run_id": runID,
			"error":  err.Error(),
		}).Error("Anonymization pipeline rejected")
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.ObservePipelineRun(string(cfg.TargetLevel), "success",
			time.Since(start), result.SuppressionRate, len(result.Warnings))
	}
	e.logger.WithFields(logrus.Fields{
		"run_id":     runID,
		"risk_level": anonymize.RiskLabel(result),
	}).Info("Anonymization run recorded")

	return result, nil
}

// CalculateDynamicPrice quotes one asset under the given commercial
// terms, serving repeated identical requests from cache.
func (e *Engine) CalculateDynamicPrice(ctx context.Context, a *asset.DataAsset, opts pricing.Options) (*pricing.Quote, error) {
	key := quoteCacheKey(a, opts)

	if e.cacher != nil {
		var cached pricing.Quote
		if err := e.cacher.Get(ctx, key, &cached); err == nil {
			if e.metrics != nil {
				e.metrics.ObserveCacheLookup(true)
				e.metrics.ObserveQuote(string(a.Category), true)
			}
			return &cached, nil
		}
		if e.metrics != nil {
			e.metrics.ObserveCacheLookup(false)
		}
	}

	quote := e.pricer.CalculatePrice(a, opts)

	if e.cacher != nil {
		if err := e.cacher.Set(ctx, key, quote, quoteCacheTTL); err != nil {
			e.logger.WithField("error", err.Error()).Warn("Failed to cache quote")
		}
	}
	if e.metrics != nil {
		e.metrics.ObserveQuote(string(a.Category), false)
	}

	return quote, nil
}

// ClusterAssets partitions assets by score similarity. A zero k picks
// the configured default cluster count.
func (e *Engine) ClusterAssets(ctx context.Context, assets []*asset.DataAsset, k int) ([]*cluster.Result, error) {
	if k == 0 {
		k = e.cfg.Clustering.DefaultClusterCount
	}

	results, err := e.clusterer.ClusterAssets(assets, k)
	if err != nil {
		if e.metrics != nil {
			e.metrics.ObserveClusteringRun("error", len(assets))
		}
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.ObserveClusteringRun("success", len(assets))
	}
	return results, nil
}

// quoteCacheKey derives a stable cache key from the asset identity,
// its pricing-relevant scores and the requested terms.
func quoteCacheKey(a *asset.DataAsset, opts pricing.Options) string {
	return fmt.Sprintf("quote:%s:%s:%s:%d:%g:%g:%g",
		a.ID, opts.Exclusivity, opts.Granularity, opts.Volume,
		a.QualityScore, a.DemandScore, a.FreshnessHours)
}
