package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the engines
type Metrics struct {
	pipelineRuns     *prometheus.CounterVec
	pipelineDuration *prometheus.HistogramVec
	suppressionRate  prometheus.Histogram
	pipelineWarnings prometheus.Counter
	priceQuotes      *prometheus.CounterVec
	clusteringRuns   *prometheus.CounterVec
	clusteredAssets  prometheus.Histogram
	cacheLookups     *prometheus.CounterVec
}

// NewMetrics creates and registers the engine metrics. A nil registerer
// uses the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		pipelineRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "anonymization_pipeline_runs_total",
				Help: "Total number of anonymization pipeline runs",
			},
			[]string{"target_level", "status"},
		),
		pipelineDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "anonymization_pipeline_duration_seconds",
				Help:    "Anonymization pipeline duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"target_level"},
		),
		suppressionRate: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "anonymization_suppression_rate",
				Help:    "Fraction of records suppressed per pipeline run",
				Buckets: []float64{0, 0.01, 0.05, 0.1, 0.2, 0.5, 1},
			},
		),
		pipelineWarnings: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "anonymization_warnings_total",
				Help: "Total number of data-quality warnings raised by the pipeline",
			},
		),
		priceQuotes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "price_quotes_total",
				Help: "Total number of price quotes computed",
			},
			[]string{"category", "cached"},
		),
		clusteringRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clustering_runs_total",
				Help: "Total number of clustering runs",
			},
			[]string{"status"},
		),
		clusteredAssets: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "clustered_assets_per_run",
				Help:    "Number of assets per clustering run",
				Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000},
			},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engine_cache_lookups_total",
				Help: "Total number of engine cache lookups",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.pipelineRuns,
		m.pipelineDuration,
		m.suppressionRate,
		m.pipelineWarnings,
		m.priceQuotes,
		m.clusteringRuns,
		m.clusteredAssets,
		m.cacheLookups,
	)

	return m
}

// ObservePipelineRun records the outcome of one pipeline run
func (m *Metrics) ObservePipelineRun(targetLevel, status string, duration time.Duration, suppressionRate float64, warnings int) {
	m.pipelineRuns.WithLabelValues(targetLevel, status).Inc()
	if status == "success" {
		m.pipelineDuration.WithLabelValues(targetLevel).Observe(duration.Seconds())
		m.suppressionRate.Observe(suppressionRate)
		m.pipelineWarnings.Add(float64(warnings))
	}
}

// ObserveQuote records one computed or cache-served price quote
func (m *Metrics) ObserveQuote(category string, cached bool) {
	label := "false"
	if cached {
		label = "true"
	}
	m.priceQuotes.WithLabelValues(category, label).Inc()
}

// ObserveClusteringRun records the outcome of one clustering run
func (m *Metrics) ObserveClusteringRun(status string, assets int) {
	m.clusteringRuns.WithLabelValues(status).Inc()
	if status == "success" {
		m.clusteredAssets.Observe(float64(assets))
	}
}

// ObserveCacheLookup records a cache hit or miss
func (m *Metrics) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
