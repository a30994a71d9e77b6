package kmeans_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gds/pkg/algo/kmeans"
)

// fourPoints reproduces spec §8 scenario 4: two well-separated pairs of
// 2D points, k=2, seeded centroids at each pair's corner.
func fourPoints() [][]float64 {
	return [][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}}
}

func TestCompute_SeededCentroids_MatchesScenario4(t *testing.T) {
	result, err := kmeans.Compute(context.Background(), fourPoints(), kmeans.Config{
		K:              2,
		MaxIterations:  10,
		SeedCentroids:  [][]float64{{0, 0}, {10, 10}},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 0, 1, 1}, result.Communities)
	assert.GreaterOrEqual(t, result.RanIterations, 1)
	assert.Equal(t, 1, result.Restarts)
}

func TestCompute_RestartsPickLowestAverageDistance(t *testing.T) {
	result, err := kmeans.Compute(context.Background(), fourPoints(), kmeans.Config{
		K:             2,
		MaxIterations: 10,
		Restarts:      5,
		RandomSeed:    7,
		Sampler:       kmeans.Uniform,
	}, nil)
	require.NoError(t, err)

	// Regardless of which restart wins, the two separated pairs must land
	// in the same community and the pairs must differ from each other.
	assert.Equal(t, result.Communities[0], result.Communities[1])
	assert.Equal(t, result.Communities[2], result.Communities[3])
	assert.NotEqual(t, result.Communities[0], result.Communities[2])
}

func TestCompute_EmptyClusterKeepsPreviousCentroid(t *testing.T) {
	// Three points all far closer to the first seed: the second centroid's
	// cluster starts empty and must retain its seeded position rather than
	// becoming NaN.
	points := [][]float64{{0, 0}, {0, 0.1}, {0.1, 0}}
	result, err := kmeans.Compute(context.Background(), points, kmeans.Config{
		K:             2,
		MaxIterations: 5,
		SeedCentroids: [][]float64{{0, 0}, {100, 100}},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{100, 100}, result.Centers[1])
}

func TestCompute_ComputeSilhouette_PopulatesPerNodeScores(t *testing.T) {
	result, err := kmeans.Compute(context.Background(), fourPoints(), kmeans.Config{
		K:                 2,
		MaxIterations:     10,
		SeedCentroids:     [][]float64{{0, 0}, {10, 10}},
		ComputeSilhouette: true,
	}, nil)
	require.NoError(t, err)

	require.Len(t, result.Silhouette, 4)
	for _, s := range result.Silhouette {
		assert.Greater(t, s, 0.0)
	}
}

func TestCompute_EmptyInputReturnsEmptyResult(t *testing.T) {
	result, err := kmeans.Compute(context.Background(), nil, kmeans.Config{K: 2}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Communities)
}
