package cluster

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataengine/internal/asset"
	apperrors "dataengine/internal/errors"
)

func makeAssets(n int, seed int64) []*asset.DataAsset {
	rng := rand.New(rand.NewSource(seed))
	assets := make([]*asset.DataAsset, n)
	for i := 0; i < n; i++ {
		assets[i] = &asset.DataAsset{
			ID:                fmt.Sprintf("asset-%d", i),
			MonetizationScore: rng.Float64() * 100,
			QualityScore:      rng.Float64() * 100,
			UniquenessScore:   rng.Float64() * 100,
			DemandScore:       rng.Float64() * 100,
			FreshnessScore:    rng.Float64() * 100,
		}
	}
	return assets
}

func TestClusterAssetsRejectsInvalidK(t *testing.T) {
	e := NewEngine(nil)

	for _, k := range []int{0, -1} {
		_, err := e.ClusterAssets(makeAssets(5, 1), k)
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrCodeInvalidClusterCount, appErr.Code)
	}
}

func TestClusterAssetsEmptyInput(t *testing.T) {
	e := NewEngine(nil)

	results, err := e.ClusterAssets(nil, 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClusterAssetsPartitionIsExhaustiveAndDisjoint(t *testing.T) {
	// The seeding is random, so check structural properties over
	// several runs instead of exact output.
	for run := 0; run < 5; run++ {
		e := NewEngine(nil).WithRand(rand.New(rand.NewSource(int64(run))))
		assets := makeAssets(30, 99)

		results, err := e.ClusterAssets(assets, 4)
		require.NoError(t, err)
		require.NotEmpty(t, results)

		seen := make(map[string]int)
		for _, c := range results {
			assert.NotEmpty(t, c.AssetIDs, "returned clusters must be non-empty")
			for _, id := range c.AssetIDs {
				seen[id]++
			}
		}

		assert.Len(t, seen, len(assets), "every asset must be assigned")
		for id, count := range seen {
			assert.Equal(t, 1, count, "asset %s assigned %d times", id, count)
		}
	}
}

func TestClusterAssetsClampsK(t *testing.T) {
	e := NewEngine(nil).WithRand(rand.New(rand.NewSource(3)))
	assets := makeAssets(3, 7)

	results, err := e.ClusterAssets(assets, 10)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 3)
}

func TestClusterAssetsSingleAsset(t *testing.T) {
	e := NewEngine(nil).WithRand(rand.New(rand.NewSource(5)))

	results, err := e.ClusterAssets(makeAssets(1, 11), 4)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"asset-0"}, results[0].AssetIDs)
}

func TestClusterAssetsIdenticalScores(t *testing.T) {
	// Degenerate distribution: every feature column has zero range.
	assets := make([]*asset.DataAsset, 6)
	for i := range assets {
		assets[i] = &asset.DataAsset{
			ID:                fmt.Sprintf("asset-%d", i),
			MonetizationScore: 50,
			QualityScore:      50,
			UniquenessScore:   50,
			DemandScore:       50,
			FreshnessScore:    50,
		}
	}

	e := NewEngine(nil).WithRand(rand.New(rand.NewSource(13)))
	results, err := e.ClusterAssets(assets, 3)
	require.NoError(t, err)

	total := 0
	for _, c := range results {
		total += len(c.AssetIDs)
		for _, v := range c.Centroid {
			assert.Equal(t, 50.0, v, "centroid should sit at the shared score")
		}
	}
	assert.Equal(t, len(assets), total)
}

func TestCentroidRescaledToScoreRange(t *testing.T) {
	e := NewEngine(nil).WithRand(rand.New(rand.NewSource(21)))
	assets := makeAssets(20, 42)

	results, err := e.ClusterAssets(assets, 3)
	require.NoError(t, err)

	for _, c := range results {
		require.Len(t, c.Centroid, 5)
		for name, v := range c.Centroid {
			assert.GreaterOrEqual(t, v, 0.0, "centroid %s below score range", name)
			assert.LessOrEqual(t, v, 100.0, "centroid %s above score range", name)
		}
		assert.NotEmpty(t, c.Characteristics)
		assert.NotEmpty(t, c.Label)
	}
}

func TestCharacteristicsThresholds(t *testing.T) {
	tags := characteristics(map[string]float64{
		"monetization": 90,
		"quality":      85,
		"uniqueness":   75,
		"demand":       80,
		"freshness":    90,
	})
	assert.Contains(t, tags, "high monetary value")
	assert.Contains(t, tags, "premium quality")
	assert.Contains(t, tags, "rare data")
	assert.Contains(t, tags, "strong market demand")
	assert.Contains(t, tags, "very fresh")

	tags = characteristics(map[string]float64{
		"monetization": 50,
		"quality":      50,
		"uniqueness":   50,
		"demand":       50,
		"freshness":    50,
	})
	assert.Equal(t, []string{"balanced profile"}, tags)
}

func TestMinMaxNormalize(t *testing.T) {
	matrix := [][]float64{
		{0, 10, 5},
		{50, 10, 10},
		{100, 10, 0},
	}

	normalized, mins, ranges := minMaxNormalize(matrix)

	assert.Equal(t, []float64{0, 0.5, 1}, []float64{normalized[0][0], normalized[1][0], normalized[2][0]})
	// Constant column: range forced to 1, values collapse to 0.
	assert.Equal(t, 1.0, ranges[1])
	assert.Equal(t, 0.0, normalized[0][1])
	assert.Equal(t, 10.0, mins[1])

	back := denormalize(normalized[1], mins, ranges)
	assert.InDelta(t, 50.0, back[0], 1e-9)
	assert.InDelta(t, 10.0, back[1], 1e-9)
	assert.InDelta(t, 10.0, back[2], 1e-9)
}
