// Package node2vec implements biased second-order random walks and
// skip-gram-with-negative-sampling embedding training (spec §4.4.7). The
// kernel operates purely on a neighbor closure; storage.go is the sole
// pkg/store/view importer, adapting a *view.View into that closure.
package node2vec

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/orneryd/gds/pkg/algo/pathfinding"
	"github.com/orneryd/gds/pkg/concurrency"
	"github.com/orneryd/gds/pkg/gdserr"
)

// EmbeddingInitializer selects how the initial embedding vectors are drawn.
type EmbeddingInitializer int

const (
	// Uniform draws each coordinate from [-0.5/d, 0.5/d].
	Uniform EmbeddingInitializer = iota
	// Normalized draws a standard-gaussian vector and scales it to unit length.
	Normalized
)

// Config parameterizes one Compute call.
//
// Walk generation and training both run single-threaded. Walk generation
// draws from one shared *rand.Rand, and splitting it across goroutines
// would make the RandomSeed non-reproducible (per-worker streams would
// need their own seeds, defeating the point of a seed). Training mutates
// the shared center/context embedding matrices for arbitrary, unordered
// node pairs each step — the same cross-partition hazard that keeps
// pkg/algo/knn off concurrency.ParallelRangeFold. Concurrency is still
// accepted in the config for API-shape parity with other algorithms but
// is otherwise unused by this kernel.
type Config struct {
	WalksPerNode             int
	WalkLength               int
	ReturnFactor             float64 // p: 1/p weight for stepping back to the previous node.
	InOutFactor              float64 // q: 1/q weight for stepping away from the previous node's neighborhood.
	PositiveSamplingFactor   float64
	NegativeSamplingExponent float64
	NegativeSamplingRate     int
	InitialLearningRate      float64
	MinLearningRate          float64
	Iterations               int
	WindowSize               int
	EmbeddingDimension       int
	Initializer              EmbeddingInitializer
	SourceNodes              []int64 // empty means every node in [0, nodeCount).
	RandomSeed               uint64
	Concurrency              int
}

// Result is one node2vec run's outcome.
type Result struct {
	Embeddings       [][]float64
	LossPerIteration []float64
	WalksGenerated   int64
}

// Compute generates biased random walks from every source node, then
// trains skip-gram embeddings with negative sampling over the resulting
// corpus.
func Compute(nodeCount int64, cfg Config, neighbors pathfinding.NeighborFunc, term *concurrency.TerminationFlag) (Result, error) {
	if nodeCount == 0 {
		return Result{}, nil
	}
	if cfg.WalksPerNode <= 0 {
		return Result{}, gdserr.InvalidParameter("walksPerNode must be positive, got %d", cfg.WalksPerNode)
	}
	if cfg.WalkLength <= 0 {
		return Result{}, gdserr.InvalidParameter("walkLength must be positive, got %d", cfg.WalkLength)
	}
	if cfg.ReturnFactor <= 0 {
		return Result{}, gdserr.InvalidParameter("returnFactor must be positive, got %v", cfg.ReturnFactor)
	}
	if cfg.InOutFactor <= 0 {
		return Result{}, gdserr.InvalidParameter("inOutFactor must be positive, got %v", cfg.InOutFactor)
	}
	if cfg.EmbeddingDimension <= 0 {
		return Result{}, gdserr.InvalidParameter("embeddingDimension must be positive, got %d", cfg.EmbeddingDimension)
	}
	if cfg.WindowSize <= 0 {
		return Result{}, gdserr.InvalidParameter("windowSize must be positive, got %d", cfg.WindowSize)
	}
	if cfg.Iterations <= 0 {
		return Result{}, gdserr.InvalidParameter("iterations must be positive, got %d", cfg.Iterations)
	}
	if cfg.NegativeSamplingRate < 0 {
		return Result{}, gdserr.InvalidParameter("negativeSamplingRate must not be negative, got %d", cfg.NegativeSamplingRate)
	}
	if cfg.PositiveSamplingFactor <= 0 {
		return Result{}, gdserr.InvalidParameter("positiveSamplingFactor must be positive, got %v", cfg.PositiveSamplingFactor)
	}

	sources := cfg.SourceNodes
	if len(sources) == 0 {
		sources = make([]int64, nodeCount)
		for i := range sources {
			sources[i] = int64(i)
		}
	} else {
		for _, s := range sources {
			if s < 0 || s >= nodeCount {
				return Result{}, gdserr.OutOfRange("sourceNodes contains out-of-bounds node %d", s)
			}
		}
	}

	rng := rand.New(rand.NewSource(int64(cfg.RandomSeed)))

	corpus := make([][]int64, 0, len(sources)*cfg.WalksPerNode)
	var step int64
	for _, s := range sources {
		for w := 0; w < cfg.WalksPerNode; w++ {
			step++
			if term != nil && concurrency.CheckInterval(step) && term.IsStopped() {
				return Result{}, gdserr.Terminated
			}
			corpus = append(corpus, generateWalk(s, cfg.WalkLength, neighbors, cfg.ReturnFactor, cfg.InOutFactor, rng))
		}
	}

	freq := make([]float64, nodeCount)
	var totalOccurrences float64
	for _, walk := range corpus {
		for _, n := range walk {
			freq[n]++
			totalOccurrences++
		}
	}

	keepProb := subsamplingProbabilities(freq, totalOccurrences, cfg.PositiveSamplingFactor)
	negSampler := newNegativeSampler(freq, cfg.NegativeSamplingExponent)

	centerEmb := initEmbeddings(nodeCount, cfg.EmbeddingDimension, cfg.Initializer, rng)
	contextEmb := initEmbeddings(nodeCount, cfg.EmbeddingDimension, cfg.Initializer, rng)

	lossPerIteration := make([]float64, cfg.Iterations)
	for it := 0; it < cfg.Iterations; it++ {
		lr := cfg.InitialLearningRate
		if cfg.Iterations > 1 {
			lr = cfg.InitialLearningRate - (cfg.InitialLearningRate-cfg.MinLearningRate)*float64(it)/float64(cfg.Iterations-1)
		}

		var lossSum float64
		var pairs int64
		for walkIdx, walk := range corpus {
			if term != nil && concurrency.CheckInterval(int64(walkIdx+1)) && term.IsStopped() {
				return Result{}, gdserr.Terminated
			}
			for idx, center := range walk {
				if rng.Float64() > keepProb[center] {
					continue
				}
				lo, hi := idx-cfg.WindowSize, idx+cfg.WindowSize
				for ctxIdx := lo; ctxIdx <= hi; ctxIdx++ {
					if ctxIdx == idx || ctxIdx < 0 || ctxIdx >= len(walk) {
						continue
					}
					ctxNode := walk[ctxIdx]
					lossSum += trainPair(centerEmb[center], contextEmb[ctxNode], true, lr)
					pairs++
					for k := 0; k < cfg.NegativeSamplingRate; k++ {
						neg := negSampler.sample(rng)
						lossSum += trainPair(centerEmb[center], contextEmb[neg], false, lr)
						pairs++
					}
				}
			}
		}
		if pairs > 0 {
			lossPerIteration[it] = lossSum / float64(pairs)
		}
	}

	return Result{
		Embeddings:       centerEmb,
		LossPerIteration: lossPerIteration,
		WalksGenerated:   int64(len(corpus)),
	}, nil
}

// generateWalk grows a single biased random walk of up to walkLength nodes
// starting at source. The first step (no previous node yet) samples
// uniformly among source's neighbors; every subsequent step applies the
// node2vec transition weights.
func generateWalk(source int64, walkLength int, neighbors pathfinding.NeighborFunc, p, q float64, rng *rand.Rand) []int64 {
	walk := make([]int64, 1, walkLength)
	walk[0] = source
	if walkLength == 1 {
		return walk
	}

	first := neighbors(source)
	if len(first) == 0 {
		return walk
	}
	curr := first[rng.Intn(len(first))].Target
	walk = append(walk, curr)
	prev := source

	for len(walk) < walkLength {
		next, ok := nextNode(prev, curr, neighbors, p, q, rng)
		if !ok {
			break
		}
		walk = append(walk, next)
		prev, curr = curr, next
	}
	return walk
}

// nextNode picks the next step of a walk currently at curr having just
// come from prev, weighting curr's neighbors by the node2vec return (p)
// and in-out (q) parameters.
func nextNode(prev, curr int64, neighbors pathfinding.NeighborFunc, p, q float64, rng *rand.Rand) (int64, bool) {
	curNeighbors := neighbors(curr)
	if len(curNeighbors) == 0 {
		return 0, false
	}

	prevNeighbors := neighbors(prev)
	prevSet := make(map[int64]bool, len(prevNeighbors))
	for _, nb := range prevNeighbors {
		prevSet[nb.Target] = true
	}

	weights := make([]float64, len(curNeighbors))
	var total float64
	for i, nb := range curNeighbors {
		switch {
		case nb.Target == prev:
			weights[i] = 1.0 / p
		case prevSet[nb.Target]:
			weights[i] = 1.0
		default:
			weights[i] = 1.0 / q
		}
		total += weights[i]
	}

	target := rng.Float64() * total
	var cum float64
	for i, w := range weights {
		cum += w
		if target <= cum {
			return curNeighbors[i].Target, true
		}
	}
	return curNeighbors[len(curNeighbors)-1].Target, true
}

// subsamplingProbabilities implements word2vec-style frequent-word
// subsampling: nodes that dominate the corpus are kept with lower
// probability during training, per node occurrence frequency.
func subsamplingProbabilities(freq []float64, total, factor float64) []float64 {
	keep := make([]float64, len(freq))
	for i, f := range freq {
		if f == 0 || total == 0 {
			keep[i] = 1
			continue
		}
		frac := f / total
		p := (math.Sqrt(frac/factor) + 1) * (factor / frac)
		if p > 1 {
			p = 1
		}
		keep[i] = p
	}
	return keep
}

func sigmoid(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }

// trainPair applies one SGD step to the center/context embedding vectors
// for a positive or negative example, returning its binary cross-entropy
// loss. The update uses the pre-update center vector when adjusting the
// context vector, matching the classic skip-gram gradient.
func trainPair(center, context []float64, label bool, lr float64) float64 {
	dot := floats.Dot(center, context)
	pred := sigmoid(dot)
	target := 0.0
	if label {
		target = 1.0
	}
	grad := lr * (target - pred)

	centerOrig := append([]float64(nil), center...)
	floats.AddScaled(center, grad, context)
	floats.AddScaled(context, grad, centerOrig)

	clamped := math.Min(math.Max(pred, 1e-7), 1-1e-7)
	if label {
		return -math.Log(clamped)
	}
	return -math.Log(1 - clamped)
}

func initEmbeddings(nodeCount int64, dim int, initializer EmbeddingInitializer, rng *rand.Rand) [][]float64 {
	out := make([][]float64, nodeCount)
	for i := range out {
		vec := make([]float64, dim)
		switch initializer {
		case Normalized:
			for d := range vec {
				vec[d] = rng.NormFloat64()
			}
			if norm := floats.Norm(vec, 2); norm > 0 {
				floats.Scale(1/norm, vec)
			}
		default:
			bound := 0.5 / float64(dim)
			for d := range vec {
				vec[d] = (rng.Float64()*2 - 1) * bound
			}
		}
		out[i] = vec
	}
	return out
}

// negativeSampler draws negative node ids proportional to
// occurrenceFrequency^exponent, the unigram^(3/4)-style distribution
// skip-gram-with-negative-sampling is normally trained against.
type negativeSampler struct {
	cumulative []float64
	total      float64
}

func newNegativeSampler(freq []float64, exponent float64) *negativeSampler {
	cumulative := make([]float64, len(freq))
	var total float64
	for i, f := range freq {
		total += math.Pow(f, exponent)
		cumulative[i] = total
	}
	return &negativeSampler{cumulative: cumulative, total: total}
}

func (s *negativeSampler) sample(rng *rand.Rand) int64 {
	if s.total <= 0 || len(s.cumulative) == 0 {
		return int64(rng.Intn(max(1, len(s.cumulative))))
	}
	target := rng.Float64() * s.total
	idx := sort.Search(len(s.cumulative), func(i int) bool { return s.cumulative[i] >= target })
	if idx >= len(s.cumulative) {
		idx = len(s.cumulative) - 1
	}
	return int64(idx)
}
