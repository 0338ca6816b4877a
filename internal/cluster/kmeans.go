package cluster

import (
	"math"
	"math/rand"
)

// defaultMaxIterations bounds the Lloyd refinement loop.
const defaultMaxIterations = 100

// squaredDistance computes squared Euclidean distance between points
func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

// nearestCentroid returns the index of the closest centroid and the
// squared distance to it.
func nearestCentroid(point []float64, centroids [][]float64) (int, float64) {
	best := 0
	bestDist := math.MaxFloat64
	for i, c := range centroids {
		if d := squaredDistance(point, c); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, bestDist
}

// seedCentroids picks k initial centroids with the k-means++ strategy:
// the first uniformly at random, each next one with probability
// proportional to its squared distance from the nearest chosen centroid.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(points[rng.Intn(len(points))]))

	for len(centroids) < k {
		distances := make([]float64, len(points))
		total := 0.0
		for i, p := range points {
			_, d := nearestCentroid(p, centroids)
			distances[i] = d
			total += d
		}

		if total == 0 {
			// All remaining points coincide with a centroid; fall back
			// to uniform choice.
			centroids = append(centroids, clonePoint(points[rng.Intn(len(points))]))
			continue
		}

		target := rng.Float64() * total
		cumulative := 0.0
		chosen := len(points) - 1
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, clonePoint(points[chosen]))
	}

	return centroids
}

// kmeans partitions points into k clusters, returning the assignment
// index per point and the final centroids. The loop is bounded by
// maxIterations and stops early once assignments settle.
func kmeans(points [][]float64, k, maxIterations int, rng *rand.Rand) (assignments []int, centroids [][]float64) {
	centroids = seedCentroids(points, k, rng)
	assignments = make([]int, len(points))
	for i := range assignments {
		assignments[i] = -1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range points {
			nearest, _ := nearestCentroid(p, centroids)
			if nearest != assignments[i] {
				assignments[i] = nearest
				changed = true
			}
		}
		if !changed {
			break
		}

		dims := len(points[0])
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			c := assignments[i]
			counts[c]++
			for d, v := range p {
				sums[c][d] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Empty cluster keeps its previous centroid.
				continue
			}
			for d := 0; d < dims; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	return assignments, centroids
}

func clonePoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
