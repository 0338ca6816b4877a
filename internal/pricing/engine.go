package pricing

import (
	"math"

	"github.com/sirupsen/logrus"

	"dataengine/internal/asset"
)

// Exclusivity describes the commercial access model for a sale.
type Exclusivity string

const (
	ExclusivityExclusive Exclusivity = "exclusive"
	ExclusivityLimited   Exclusivity = "limited"
	ExclusivityShared    Exclusivity = "shared"
	ExclusivityOpen      Exclusivity = "open"
)

// Granularity describes the level of detail sold.
type Granularity string

const (
	GranularityRecord    Granularity = "record"
	GranularitySegment   Granularity = "segment"
	GranularityAggregate Granularity = "aggregate"
	GranularitySummary   Granularity = "summary"
)

// Options are the commercial terms for one quote. Zero values fall
// back to shared exclusivity and aggregate granularity; a zero Volume
// means no volume was requested.
type Options struct {
	Exclusivity Exclusivity `json:"exclusivity,omitempty"`
	Granularity Granularity `json:"granularity,omitempty"`
	Volume      int64       `json:"volume,omitempty"`
}

// Quote is the computed price for one asset under given terms.
type Quote struct {
	AssetID               string  `json:"asset_id"`
	BasePrice             float64 `json:"base_price"`
	FreshnessMultiplier   float64 `json:"freshness_multiplier"`
	ExclusivityMultiplier float64 `json:"exclusivity_multiplier"`
	GranularityMultiplier float64 `json:"granularity_multiplier"`
	QualityAdjustment     float64 `json:"quality_adjustment"`
	DemandAdjustment      float64 `json:"demand_adjustment"`
	PricePer1000          float64 `json:"computed_price_per_1000"`
	VolumeDiscount        float64 `json:"volume_discount,omitempty"`
	TotalCost             float64 `json:"total_cost,omitempty"`
}

// basePrices is the per-category base price per 1000 records.
var basePrices = map[asset.Category]float64{
	asset.CategoryOperational: 5.00,
	asset.CategoryBehavioral:  8.00,
	asset.CategoryMarket:      12.00,
	asset.CategoryPredictive:  20.00,
	asset.CategoryFinancial:   15.00,
	asset.CategoryGeographic:  10.00,
}

// defaultBasePrice applies when the category is unknown; pricing never
// fails on a bad category.
const defaultBasePrice = 5.00

var exclusivityMultipliers = map[Exclusivity]float64{
	ExclusivityExclusive: 5.0,
	ExclusivityLimited:   3.0,
	ExclusivityShared:    1.5,
	ExclusivityOpen:      1.0,
}

var granularityMultipliers = map[Granularity]float64{
	GranularityRecord:    2.0,
	GranularitySegment:   1.5,
	GranularityAggregate: 1.0,
	GranularitySummary:   0.5,
}

// freshnessTier maps data recency in hours onto a multiplier.
type freshnessTier struct {
	maxHours   float64
	multiplier float64
}

var freshnessTiers = []freshnessTier{
	{1, 3.0},   // realtime
	{6, 2.5},   // hourly
	{24, 2.0},  // daily
	{168, 1.5}, // weekly
}

const monthlyMultiplier = 1.0

// Engine computes defensible prices from asset properties. It is a
// pure computation with no I/O.
type Engine struct {
	logger    *logrus.Logger
	overrides map[asset.Category]float64
}

// NewEngine creates a pricing engine. A nil logger falls back to a
// default logrus instance.
func NewEngine(logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{logger: logger}
}

// WithBasePrices overrides entries of the category base price table,
// typically from configuration.
func (e *Engine) WithBasePrices(overrides map[asset.Category]float64) *Engine {
	e.overrides = overrides
	return e
}

// CalculatePrice produces a quote for one asset under the given terms
func (e *Engine) CalculatePrice(a *asset.DataAsset, opts Options) *Quote {
	if opts.Exclusivity == "" {
		opts.Exclusivity = ExclusivityShared
	}
	if opts.Granularity == "" {
		opts.Granularity = GranularityAggregate
	}

	quote := &Quote{
		AssetID:               a.ID,
		BasePrice:             e.basePrice(a.Category),
		FreshnessMultiplier:   freshnessMultiplier(a.FreshnessHours),
		ExclusivityMultiplier: exclusivityMultiplier(opts.Exclusivity),
		GranularityMultiplier: granularityMultiplier(opts.Granularity),
		QualityAdjustment:     0.7 + (a.QualityScore/100)*0.6,
		DemandAdjustment:      0.8 + (a.DemandScore/100)*0.4,
	}

	price := quote.BasePrice *
		quote.FreshnessMultiplier *
		quote.ExclusivityMultiplier *
		quote.GranularityMultiplier *
		quote.QualityAdjustment *
		quote.DemandAdjustment
	quote.PricePer1000 = round2(price)

	if opts.Volume > 0 {
		quote.VolumeDiscount = VolumeDiscount(opts.Volume)
		quote.TotalCost = round2(float64(opts.Volume) / 1000 * quote.PricePer1000 * (1 - quote.VolumeDiscount))
	}

	e.logger.WithFields(logrus.Fields{
		"asset_id":       a.ID,
		"category":       a.Category,
		"price_per_1000": quote.PricePer1000,
		"volume":         opts.Volume,
	}).Debug("Price computed")

	return quote
}

// basePrice resolves the category base price, preferring configured
// overrides and falling back to the default for unknown categories.
func (e *Engine) basePrice(category asset.Category) float64 {
	if e.overrides != nil {
		if p, ok := e.overrides[category]; ok {
			return p
		}
	}
	if p, ok := basePrices[category]; ok {
		return p
	}
	e.logger.WithField("category", category).Warn("Unknown category, using default base price")
	return defaultBasePrice
}

// freshnessMultiplier thresholds recency into the 5-tier table
func freshnessMultiplier(freshnessHours float64) float64 {
	for _, tier := range freshnessTiers {
		if freshnessHours <= tier.maxHours {
			return tier.multiplier
		}
	}
	return monthlyMultiplier
}

// VolumeDiscount returns the discount fraction for a purchase volume
func VolumeDiscount(volume int64) float64 {
	switch {
	case volume >= 1000000:
		return 0.35
	case volume >= 100000:
		return 0.20
	case volume >= 10000:
		return 0.10
	default:
		return 0
	}
}

// exclusivityMultiplier resolves the caller's access model, falling
// back to shared for unknown values.
func exclusivityMultiplier(e Exclusivity) float64 {
	if m, ok := exclusivityMultipliers[e]; ok {
		return m
	}
	return exclusivityMultipliers[ExclusivityShared]
}

// granularityMultiplier resolves the sold level of detail, falling
// back to aggregate for unknown values.
func granularityMultiplier(g Granularity) float64 {
	if m, ok := granularityMultipliers[g]; ok {
		return m
	}
	return granularityMultipliers[GranularityAggregate]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
