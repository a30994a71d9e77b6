// Package kmeans implements k-means clustering over per-node feature
// vectors (spec §4.4.4). The kernel operates purely on [][]float64 point
// vectors; storage.go is the sole pkg/store/view importer, reading one
// array-valued node property into that matrix.
package kmeans

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/orneryd/gds/pkg/concurrency"
	"github.com/orneryd/gds/pkg/gdserr"
)

// Sampler selects how restart centroids are chosen when no seed is given.
type Sampler int

const (
	Uniform Sampler = iota
	KMeansPlusPlus
)

const unassigned = -1

// Config parameterizes one Compute call.
type Config struct {
	K                 int
	MaxIterations     int
	DeltaThreshold    float64
	Concurrency       int
	RandomSeed        uint64
	ComputeSilhouette bool
	Sampler           Sampler
	SeedCentroids     [][]float64
	Restarts          int
}

// Result is one k-means run's outcome.
type Result struct {
	Communities               []int64
	DistanceFromCenter        []float64
	Centers                   [][]float64
	AverageDistanceToCentroid float64
	Silhouette                []float64
	AverageSilhouette         float64
	RanIterations             int
	Restarts                  int
}

// Compute clusters points into cfg.K communities (spec §4.4.4). A seeded
// initialization (cfg.SeedCentroids non-empty) is treated as a single
// restart; otherwise cfg.Restarts attempts are run and the one with
// lowest average squared distance to its assigned centroid wins.
func Compute(ctx context.Context, points [][]float64, cfg Config, term *concurrency.TerminationFlag) (Result, error) {
	n := len(points)
	if n == 0 {
		return Result{}, nil
	}
	dims := len(points[0])
	k := clamp(cfg.K, 1, n)
	maxIterations := cfg.MaxIterations
	if maxIterations < 1 {
		maxIterations = 1
	}
	concurrencyN := cfg.Concurrency
	if concurrencyN < 1 {
		concurrencyN = 1
	}

	if len(cfg.SeedCentroids) > 0 {
		centers := normalizeSeededCenters(cfg.SeedCentroids, k, dims)
		communities, distances, ranIterations, err := swapsLoop(ctx, points, centers, maxIterations, cfg.DeltaThreshold, concurrencyN, term)
		if err != nil {
			return Result{}, err
		}
		return finish(points, centers, communities, distances, ranIterations, 1, cfg.ComputeSilhouette), nil
	}

	restarts := cfg.Restarts
	if restarts < 1 {
		restarts = 1
	}

	var best *Result
	var bestCost float64
	for restart := 0; restart < restarts; restart++ {
		seed := cfg.RandomSeed + uint64(restart)
		rng := rand.New(rand.NewSource(int64(seed)))

		var centers [][]float64
		switch cfg.Sampler {
		case KMeansPlusPlus:
			centers = sampleKMeansPlusPlus(points, k, rng)
		default:
			centers = sampleUniform(points, k, rng)
		}
		if len(centers) == 0 {
			continue
		}
		ensureCenterDims(centers, dims)

		communities, distances, ranIterations, err := swapsLoop(ctx, points, centers, maxIterations, cfg.DeltaThreshold, concurrencyN, term)
		if err != nil {
			return Result{}, err
		}
		var sqSum float64
		for _, d := range distances {
			sqSum += d * d
		}
		cost := sqSum / float64(len(distances))

		if best == nil || cost < bestCost {
			r := finish(points, centers, communities, distances, ranIterations, restarts, cfg.ComputeSilhouette)
			best = &r
			bestCost = cost
		}
	}

	if best == nil {
		centers := make([][]float64, k)
		for i := 0; i < k; i++ {
			centers[i] = append([]float64(nil), points[i%n]...)
		}
		ensureCenterDims(centers, dims)
		communities, distances, ranIterations, err := swapsLoop(ctx, points, centers, maxIterations, cfg.DeltaThreshold, concurrencyN, term)
		if err != nil {
			return Result{}, err
		}
		r := finish(points, centers, communities, distances, ranIterations, restarts, cfg.ComputeSilhouette)
		best = &r
	}
	return *best, nil
}

func finish(points, centers [][]float64, communities []int64, distances []float64, ranIterations, restarts int, computeSilhouette bool) Result {
	avgDist := 0.0
	if len(distances) > 0 {
		avgDist = floats.Sum(distances) / float64(len(distances))
	}

	var silhouette []float64
	avgSil := 0.0
	if computeSilhouette {
		silhouette = silhouetteCentroid(points, centers, communities)
		if len(silhouette) > 0 {
			avgSil = floats.Sum(silhouette) / float64(len(silhouette))
		}
	}

	return Result{
		Communities:               communities,
		DistanceFromCenter:        distances,
		Centers:                   centers,
		AverageDistanceToCentroid: avgDist,
		Silhouette:                silhouette,
		AverageSilhouette:         avgSil,
		RanIterations:             ranIterations,
		Restarts:                  restarts,
	}
}

// swapsLoop runs Lloyd's algorithm, halting when iteration > 1 and the
// number of reassigned points falls to or below deltaThreshold*n, or at
// maxIterations (spec §4.4.4).
func swapsLoop(ctx context.Context, points, centers [][]float64, maxIterations int, deltaThreshold float64, concurrencyN int, term *concurrency.TerminationFlag) ([]int64, []float64, int, error) {
	n := len(points)
	k := len(centers)
	dims := len(centers[0])
	swapsBound := int64(float64(n) * deltaThreshold)

	communities := make([]int64, n)
	for i := range communities {
		communities[i] = unassigned
	}
	distances := make([]float64, n)
	ranIterations := 0

	for iteration := 1; iteration <= maxIterations; iteration++ {
		if term != nil && term.IsStopped() {
			return nil, nil, 0, gdserr.Terminated
		}

		nextCommunities := make([]int64, n)
		nextDistances := make([]float64, n)
		swaps, err := concurrency.ParallelRangeFold(ctx, term, concurrencyN, int64(n), int64(0),
			func(ctx context.Context, p concurrency.Partition) (int64, error) {
				var local int64
				for i := p.Start; i < p.End(); i++ {
					best, bestD2 := closestCentroid(points[i], centers)
					if communities[i] != best {
						local++
					}
					nextCommunities[i] = best
					nextDistances[i] = math.Sqrt(bestD2)
				}
				return local, nil
			},
			func(acc, v int64) int64 { return acc + v },
		)
		if err != nil {
			return nil, nil, 0, err
		}

		communities = nextCommunities
		distances = nextDistances
		recomputeCentroids(points, communities, centers, k, dims)
		ranIterations = iteration

		if iteration == maxIterations {
			break
		}
		if iteration > 1 && swaps <= swapsBound {
			break
		}
	}

	return communities, distances, ranIterations, nil
}

func recomputeCentroids(points [][]float64, communities []int64, centers [][]float64, k, dims int) {
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, dims)
	}

	for i, p := range points {
		c := int(communities[i])
		if c < 0 {
			c = 0
		}
		if c >= k {
			c = k - 1
		}
		counts[c]++
		floats.Add(sums[c], p)
	}

	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			continue
		}
		floats.Scale(1/float64(counts[c]), sums[c])
		copy(centers[c], sums[c])
	}
}

func closestCentroid(point []float64, centers [][]float64) (int64, float64) {
	bestC := 0
	bestD2 := math.Inf(1)
	for ci, c := range centers {
		d2 := squaredEuclidean(point, c)
		if d2 < bestD2 || (d2 == bestD2 && ci < bestC) {
			bestD2 = d2
			bestC = ci
		}
	}
	return int64(bestC), bestD2
}

func squaredEuclidean(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func sampleUniform(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	if k >= n {
		return clonePoints(points)
	}
	perm := rng.Perm(n)[:k]
	centers := make([][]float64, k)
	for i, idx := range perm {
		centers[i] = append([]float64(nil), points[idx]...)
	}
	return centers
}

func sampleKMeansPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	if k >= n {
		return clonePoints(points)
	}

	centers := make([][]float64, 0, k)
	centers = append(centers, append([]float64(nil), points[rng.Intn(n)]...))

	minD2 := make([]float64, n)
	for len(centers) < k {
		for i, p := range points {
			best := math.Inf(1)
			for _, c := range centers {
				if d2 := squaredEuclidean(p, c); d2 < best {
					best = d2
				}
			}
			minD2[i] = best
		}

		total := floats.Sum(minD2)
		if math.IsInf(total, 0) || math.IsNaN(total) || total <= 0 {
			remaining := k - len(centers)
			centers = append(centers, sampleUniform(points, remaining, rng)...)
			break
		}

		threshold := rng.Float64() * total
		chosen := 0
		for i, w := range minD2 {
			threshold -= w
			if threshold <= 0 {
				chosen = i
				break
			}
		}
		centers = append(centers, append([]float64(nil), points[chosen]...))
	}
	return centers
}

func normalizeSeededCenters(seeded [][]float64, k, dims int) [][]float64 {
	centers := make([][]float64, k)
	for i := 0; i < k; i++ {
		if i < len(seeded) {
			centers[i] = append([]float64(nil), seeded[i]...)
		} else {
			centers[i] = make([]float64, dims)
		}
	}
	ensureCenterDims(centers, dims)
	return centers
}

func ensureCenterDims(centers [][]float64, dims int) {
	for i, c := range centers {
		if len(c) == dims {
			continue
		}
		resized := make([]float64, dims)
		copy(resized, c)
		centers[i] = resized
	}
}

func clonePoints(points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = append([]float64(nil), p...)
	}
	return out
}

// silhouetteCentroid approximates the silhouette coefficient against
// centroids rather than full pairwise point distances (spec §4.4.4).
func silhouetteCentroid(points, centers [][]float64, communities []int64) []float64 {
	n := len(points)
	if n == 0 {
		return nil
	}
	if len(centers) <= 1 {
		return make([]float64, n)
	}

	out := make([]float64, n)
	for i, p := range points {
		ci := int(communities[i])
		a := math.Sqrt(squaredEuclidean(p, centers[ci]))

		b := math.Inf(1)
		for cj, c := range centers {
			if cj == ci {
				continue
			}
			if d := math.Sqrt(squaredEuclidean(p, c)); d < b {
				b = d
			}
		}

		denom := math.Max(a, b)
		if denom > 0 {
			out[i] = (b - a) / denom
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
