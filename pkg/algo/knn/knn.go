// Package knn implements approximate k-nearest-neighbors via NN-Descent
// over per-node feature vectors (spec §4.4.5). As with the other
// algorithm packages, the kernel depends only on a point matrix and
// pkg/concurrency; storage.go is the sole pkg/store/view importer.
package knn

import (
	"container/heap"
	"context"
	"math"
	"math/rand"

	"github.com/orneryd/gds/pkg/concurrency"
	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/math/vector"
)

// Metric is a similarity function over two feature vectors, higher is
// more similar.
type Metric int

const (
	Cosine Metric = iota
	Euclidean
)

// Config parameterizes one Compute call. Unlike this package's siblings,
// NN-Descent's join phase mutates two arbitrary nodes' heaps per
// candidate pair, which cannot be split across workers without
// per-node locking (spec §5's "no two workers write the same slot"
// partitioning model), so Compute always runs single-threaded; there
// is no Concurrency field here; spec.go still accepts and validates a
// "concurrency" config key for external API-shape parity.
type Config struct {
	K                int
	SampledK         int
	MaxIterations    int
	RandomSeed       uint64
	PerturbationRate float64
	RandomJoins      int
	UpdateThreshold  int64
	SimilarityCutoff float64
	SimilarityMetric Metric
}

// Neighbor is one candidate in a node's top-k list.
type Neighbor struct {
	Target     int64
	Similarity float64
}

// Result is one NN-Descent run's outcome.
type Result struct {
	Neighbors           [][]Neighbor // per node, sorted descending by similarity
	RanIterations       int
	DidConverge         bool
	NodePairsConsidered int64
}

func similarityFunc(m Metric) func(a, b []float64) float64 {
	switch m {
	case Euclidean:
		return vector.EuclideanSimilarity
	default:
		return vector.CosineSimilarity
	}
}

// Compute runs NN-Descent over points, returning each node's top-K
// neighbors by the configured similarity metric (spec §4.4.5).
func Compute(ctx context.Context, points [][]float64, cfg Config, term *concurrency.TerminationFlag) (Result, error) {
	n := len(points)
	if n == 0 {
		return Result{}, nil
	}
	k := cfg.K
	if k < 1 {
		k = 1
	}
	if k > n-1 {
		k = n - 1
	}
	if k <= 0 {
		return Result{Neighbors: make([][]Neighbor, n)}, nil
	}
	sampledK := cfg.SampledK
	if sampledK < 1 {
		sampledK = (k + 1) / 2
	}
	if sampledK > k {
		sampledK = k
	}
	maxIterations := cfg.MaxIterations
	if maxIterations < 1 {
		maxIterations = 1
	}
	sim := similarityFunc(cfg.SimilarityMetric)

	rng := rand.New(rand.NewSource(int64(cfg.RandomSeed)))
	heaps := make([]*candidateHeap, n)
	isNew := make([]map[int64]bool, n)
	for i := range heaps {
		heaps[i] = newCandidateHeap(k)
		isNew[i] = make(map[int64]bool)
	}

	// Initial fill: k random distinct candidates per node.
	for i := 0; i < n; i++ {
		for _, j := range randomDistinct(rng, n, i, k) {
			s := sim(points[i], points[j])
			if heaps[i].offer(Neighbor{Target: int64(j), Similarity: s}) {
				isNew[i][int64(j)] = true
			}
		}
	}

	var nodePairsConsidered int64
	ranIterations := 0
	converged := false

	for iteration := 1; iteration <= maxIterations; iteration++ {
		if term != nil && term.IsStopped() {
			return Result{}, gdserr.Terminated
		}

		newSets := make([][]int64, n)
		oldSets := make([][]int64, n)
		for i := 0; i < n; i++ {
			for _, nb := range heaps[i].items() {
				if isNew[i][nb.Target] {
					newSets[i] = append(newSets[i], nb.Target)
				} else {
					oldSets[i] = append(oldSets[i], nb.Target)
				}
			}
		}
		for i := range isNew {
			isNew[i] = make(map[int64]bool)
		}

		// A join mutates two arbitrary nodes' heaps (a's and b's), which
		// may fall in different partitions of [0,n) — unlike this
		// package's siblings, this phase cannot be split across workers
		// without per-node locking, so it runs sequentially and checks
		// termination at the partition-boundary cadence instead
		// (spec §5's RUN_CHECK_NODE_COUNT).
		var updates int64
		for i := int64(0); i < int64(n); i++ {
			if term != nil && concurrency.CheckInterval(i+1) && term.IsStopped() {
				return Result{}, gdserr.Terminated
			}

			newC := sample(rng, newSets[i], sampledK)
			oldC := sample(rng, oldSets[i], sampledK)

			join := func(a, b int64) {
				if a == b {
					return
				}
				nodePairsConsidered++
				s := sim(points[a], points[b])
				if tryInsert(heaps[a], isNew[a], Neighbor{Target: b, Similarity: s}, cfg.PerturbationRate, rng) {
					updates++
				}
				if tryInsert(heaps[b], isNew[b], Neighbor{Target: a, Similarity: s}, cfg.PerturbationRate, rng) {
					updates++
				}
			}

			for _, a := range newC {
				for _, b := range newC {
					join(a, b)
				}
				for _, b := range oldC {
					join(a, b)
				}
			}

			for j := 0; j < cfg.RandomJoins; j++ {
				cand := int64(rng.Intn(n))
				join(i, cand)
			}
		}

		ranIterations = iteration
		if updates <= cfg.UpdateThreshold {
			converged = true
			break
		}
	}

	neighbors := make([][]Neighbor, n)
	for i := 0; i < n; i++ {
		items := heaps[i].sorted()
		var kept []Neighbor
		for _, nb := range items {
			if nb.Similarity >= cfg.SimilarityCutoff {
				kept = append(kept, nb)
			}
		}
		neighbors[i] = kept
	}

	return Result{
		Neighbors:           neighbors,
		RanIterations:       ranIterations,
		DidConverge:         converged,
		NodePairsConsidered: nodePairsConsidered,
	}, nil
}

// tryInsert offers a candidate to a node's heap, optionally admitting a
// non-improving candidate with probability perturbationRate to combat
// local minima (spec §4.4.5). Returns whether the heap changed.
func tryInsert(h *candidateHeap, isNew map[int64]bool, nb Neighbor, perturbationRate float64, rng *rand.Rand) bool {
	if h.contains(nb.Target) {
		return false
	}
	improves := h.Len() < h.capacity || nb.Similarity > h.worst()
	if improves {
		if h.offer(nb) {
			isNew[nb.Target] = true
			return true
		}
		return false
	}
	if perturbationRate > 0 && rng.Float64() < perturbationRate {
		h.forceReplace(nb)
		isNew[nb.Target] = true
		return true
	}
	return false
}

func randomDistinct(rng *rand.Rand, n int, exclude int, count int) []int {
	if count > n-1 {
		count = n - 1
	}
	if count <= 0 {
		return nil
	}
	seen := make(map[int]bool, count+1)
	seen[exclude] = true
	out := make([]int, 0, count)
	for len(out) < count {
		j := rng.Intn(n)
		if seen[j] {
			continue
		}
		seen[j] = true
		out = append(out, j)
	}
	return out
}

func sample(rng *rand.Rand, items []int64, count int) []int64 {
	if len(items) <= count {
		return items
	}
	perm := rng.Perm(len(items))[:count]
	out := make([]int64, count)
	for i, idx := range perm {
		out[i] = items[idx]
	}
	return out
}

// candidateHeap is a fixed-capacity min-heap of Neighbor keyed on
// Similarity: offering a candidate evicts the current worst once full.
type candidateHeap struct {
	data     []Neighbor
	index    map[int64]int
	capacity int
}

func newCandidateHeap(capacity int) *candidateHeap {
	return &candidateHeap{index: make(map[int64]int), capacity: capacity}
}

func (h *candidateHeap) Len() int { return len(h.data) }
func (h *candidateHeap) Less(i, j int) bool {
	return h.data[i].Similarity < h.data[j].Similarity
}
func (h *candidateHeap) Swap(i, j int) {
	h.data[i], h.data[j] = h.data[j], h.data[i]
	h.index[h.data[i].Target] = i
	h.index[h.data[j].Target] = j
}
func (h *candidateHeap) Push(x any) {
	nb := x.(Neighbor)
	h.index[nb.Target] = len(h.data)
	h.data = append(h.data, nb)
}
func (h *candidateHeap) Pop() any {
	n := len(h.data)
	nb := h.data[n-1]
	h.data = h.data[:n-1]
	delete(h.index, nb.Target)
	return nb
}

func (h *candidateHeap) contains(target int64) bool {
	_, ok := h.index[target]
	return ok
}

func (h *candidateHeap) worst() float64 {
	if len(h.data) == 0 {
		return math.Inf(-1)
	}
	return h.data[0].Similarity
}

// offer inserts nb, evicting the current worst candidate if the heap is
// already at capacity and nb improves on it. Returns whether the heap
// changed.
func (h *candidateHeap) offer(nb Neighbor) bool {
	if h.contains(nb.Target) {
		return false
	}
	if len(h.data) < h.capacity {
		heap.Push(h, nb)
		return true
	}
	if nb.Similarity <= h.worst() {
		return false
	}
	heap.Pop(h)
	heap.Push(h, nb)
	return true
}

// forceReplace evicts the current worst candidate (if the heap is full)
// and inserts nb regardless of whether nb improves on it — used to admit
// a non-improving candidate under the perturbation rate (spec §4.4.5).
func (h *candidateHeap) forceReplace(nb Neighbor) {
	if len(h.data) >= h.capacity {
		heap.Pop(h)
	}
	heap.Push(h, nb)
}

func (h *candidateHeap) items() []Neighbor {
	return append([]Neighbor(nil), h.data...)
}

// sorted returns the heap's contents ordered by descending similarity.
func (h *candidateHeap) sorted() []Neighbor {
	out := append([]Neighbor(nil), h.data...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && (out[j].Similarity > out[j-1].Similarity ||
			(out[j].Similarity == out[j-1].Similarity && out[j].Target < out[j-1].Target)); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
