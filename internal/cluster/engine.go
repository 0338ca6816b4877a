package cluster

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"dataengine/internal/asset"
	apperrors "dataengine/internal/errors"
)

// featureNames are the five asset scores used as clustering features,
// in matrix column order.
var featureNames = []string{"monetization", "quality", "uniqueness", "demand", "freshness"}

// DefaultClusterCount is used when the caller does not pick k.
const DefaultClusterCount = 4

// Result describes one cluster of similar assets.
type Result struct {
	ClusterID       int                `json:"cluster_id"`
	Label           string             `json:"label"`
	AssetIDs        []string           `json:"asset_ids"`
	Centroid        map[string]float64 `json:"centroid"`
	Characteristics []string           `json:"characteristics"`
}

// Engine groups assets by similarity of their normalized score
// vectors using k-means with k-means++ seeding. Repeated calls on the
// same input may partition differently; only structural properties are
// stable.
type Engine struct {
	logger        *logrus.Logger
	rng           *rand.Rand
	maxIterations int
}

// NewEngine creates a clustering engine. A nil logger falls back to a
// default logrus instance.
func NewEngine(logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{
		logger:        logger,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		maxIterations: defaultMaxIterations,
	}
}

// WithRand injects a random source for reproducible seeding in tests
func (e *Engine) WithRand(rng *rand.Rand) *Engine {
	e.rng = rng
	return e
}

// WithMaxIterations overrides the refinement loop bound
func (e *Engine) WithMaxIterations(n int) *Engine {
	if n > 0 {
		e.maxIterations = n
	}
	return e
}

// ClusterAssets partitions assets into at most k groups. Every asset
// lands in exactly one cluster; empty input yields an empty slice.
func (e *Engine) ClusterAssets(assets []*asset.DataAsset, k int) ([]*Result, error) {
	if k <= 0 {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidClusterCount,
			"cluster count must be positive", nil).WithContext("k", k)
	}
	if len(assets) == 0 {
		return []*Result{}, nil
	}
	if k > len(assets) {
		k = len(assets)
	}

	matrix := make([][]float64, len(assets))
	for i, a := range assets {
		matrix[i] = []float64{
			a.MonetizationScore,
			a.QualityScore,
			a.UniquenessScore,
			a.DemandScore,
			a.FreshnessScore,
		}
	}

	normalized, mins, ranges := minMaxNormalize(matrix)
	assignments, centroids := kmeans(normalized, k, e.maxIterations, e.rng)

	members := make([][]string, k)
	for i, c := range assignments {
		members[c] = append(members[c], assets[i].ID)
	}

	results := make([]*Result, 0, k)
	for c := 0; c < k; c++ {
		if len(members[c]) == 0 {
			continue
		}
		rescaled := denormalize(centroids[c], mins, ranges)
		centroid := make(map[string]float64, len(featureNames))
		for d, name := range featureNames {
			centroid[name] = round1(rescaled[d])
		}
		results = append(results, &Result{
			ClusterID:       c,
			Label:           clusterLabel(centroid),
			AssetIDs:        members[c],
			Centroid:        centroid,
			Characteristics: characteristics(centroid),
		})
	}

	e.logger.WithFields(logrus.Fields{
		"assets":   len(assets),
		"k":        k,
		"clusters": len(results),
	}).Info("Asset clustering complete")

	return results, nil
}

// characteristics derives human-readable tags from centroid thresholds
func characteristics(centroid map[string]float64) []string {
	var tags []string
	if centroid["monetization"] > 75 {
		tags = append(tags, "high monetary value")
	}
	if centroid["quality"] > 80 {
		tags = append(tags, "premium quality")
	} else if centroid["quality"] < 40 {
		tags = append(tags, "needs quality improvement")
	}
	if centroid["uniqueness"] > 70 {
		tags = append(tags, "rare data")
	}
	if centroid["demand"] > 75 {
		tags = append(tags, "strong market demand")
	}
	if centroid["freshness"] > 80 {
		tags = append(tags, "very fresh")
	} else if centroid["freshness"] < 30 {
		tags = append(tags, "aging data")
	}
	if len(tags) == 0 {
		tags = append(tags, "balanced profile")
	}
	return tags
}

// clusterLabel names a cluster after its dominant trait
func clusterLabel(centroid map[string]float64) string {
	bestName := featureNames[0]
	bestValue := centroid[bestName]
	for _, name := range featureNames[1:] {
		if centroid[name] > bestValue {
			bestName = name
			bestValue = centroid[name]
		}
	}
	return fmt.Sprintf("%s-driven segment", bestName)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
