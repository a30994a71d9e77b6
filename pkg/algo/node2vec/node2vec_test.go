package node2vec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gds/pkg/algo/node2vec"
	"github.com/orneryd/gds/pkg/algo/pathfinding"
)

// cycleGraph is a 5-node directed cycle 0->1->2->3->4->0, so every node
// has exactly one outgoing neighbor and walks never dead-end.
func cycleGraph() (int64, pathfinding.NeighborFunc) {
	adj := map[int64][]pathfinding.Neighbor{
		0: {{Target: 1, Weight: 1}},
		1: {{Target: 2, Weight: 1}},
		2: {{Target: 3, Weight: 1}},
		3: {{Target: 4, Weight: 1}},
		4: {{Target: 0, Weight: 1}},
	}
	return 5, func(n int64) []pathfinding.Neighbor { return adj[n] }
}

func baseConfig() node2vec.Config {
	return node2vec.Config{
		WalksPerNode:             4,
		WalkLength:               6,
		ReturnFactor:             1.0,
		InOutFactor:              1.0,
		PositiveSamplingFactor:   0.001,
		NegativeSamplingExponent: 0.75,
		NegativeSamplingRate:     2,
		InitialLearningRate:      0.025,
		MinLearningRate:          0.0001,
		Iterations:               3,
		WindowSize:               2,
		EmbeddingDimension:       8,
		Initializer:              node2vec.Uniform,
		RandomSeed:               42,
	}
}

func TestCompute_CycleGraph_ProducesOneEmbeddingPerNode(t *testing.T) {
	n, neighbors := cycleGraph()
	result, err := node2vec.Compute(n, baseConfig(), neighbors, nil)
	require.NoError(t, err)

	assert.Len(t, result.Embeddings, 5)
	for _, vec := range result.Embeddings {
		assert.Len(t, vec, 8)
	}
	assert.Equal(t, int64(5*4), result.WalksGenerated)
}

func TestCompute_IsDeterministicGivenSameSeed(t *testing.T) {
	n, neighbors := cycleGraph()
	cfg := baseConfig()

	r1, err := node2vec.Compute(n, cfg, neighbors, nil)
	require.NoError(t, err)
	r2, err := node2vec.Compute(n, cfg, neighbors, nil)
	require.NoError(t, err)

	for i := range r1.Embeddings {
		assert.InDeltaSlice(t, r1.Embeddings[i], r2.Embeddings[i], 1e-12)
	}
}

func TestCompute_LossGenerallyDecreasesAcrossIterations(t *testing.T) {
	n, neighbors := cycleGraph()
	cfg := baseConfig()
	cfg.Iterations = 10
	cfg.InitialLearningRate = 0.1
	cfg.MinLearningRate = 0.01

	result, err := node2vec.Compute(n, cfg, neighbors, nil)
	require.NoError(t, err)
	require.Len(t, result.LossPerIteration, 10)

	// Not monotone guaranteed for SGD, but the final loss should be no
	// worse than the first on this trivial, perfectly-learnable graph.
	assert.LessOrEqual(t, result.LossPerIteration[9], result.LossPerIteration[0]+1e-6)
}

func TestCompute_NormalizedInitializerRejectsZeroIterationsAndEmbedsEveryNode(t *testing.T) {
	n, neighbors := cycleGraph()
	cfg := baseConfig()
	cfg.Iterations = 0
	cfg.Initializer = node2vec.Normalized

	_, err := node2vec.Compute(n, cfg, neighbors, nil)
	require.Error(t, err) // Iterations must be positive.

	cfg.Iterations = 1
	result, err := node2vec.Compute(n, cfg, neighbors, nil)
	require.NoError(t, err)
	assert.Len(t, result.Embeddings, 5)
}

func TestCompute_RestrictsWalksToSourceNodes(t *testing.T) {
	n, neighbors := cycleGraph()
	cfg := baseConfig()
	cfg.SourceNodes = []int64{0, 2}

	result, err := node2vec.Compute(n, cfg, neighbors, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2*4), result.WalksGenerated)
}

func TestCompute_RejectsOutOfRangeSourceNode(t *testing.T) {
	n, neighbors := cycleGraph()
	cfg := baseConfig()
	cfg.SourceNodes = []int64{100}

	_, err := node2vec.Compute(n, cfg, neighbors, nil)
	require.Error(t, err)
}

func TestCompute_RejectsNonPositiveReturnFactor(t *testing.T) {
	n, neighbors := cycleGraph()
	cfg := baseConfig()
	cfg.ReturnFactor = 0

	_, err := node2vec.Compute(n, cfg, neighbors, nil)
	require.Error(t, err)
}

func TestCompute_RejectsNonPositiveInOutFactor(t *testing.T) {
	n, neighbors := cycleGraph()
	cfg := baseConfig()
	cfg.InOutFactor = -1

	_, err := node2vec.Compute(n, cfg, neighbors, nil)
	require.Error(t, err)
}

func TestCompute_EmptyGraphReturnsEmptyResult(t *testing.T) {
	result, err := node2vec.Compute(0, baseConfig(), func(int64) []pathfinding.Neighbor { return nil }, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Embeddings)
}

func TestCompute_IsolatedNodeGeneratesOneWalk(t *testing.T) {
	adj := map[int64][]pathfinding.Neighbor{0: nil}
	cfg := baseConfig()
	cfg.WalksPerNode = 1
	cfg.SourceNodes = []int64{0}

	result, err := node2vec.Compute(1, cfg, func(n int64) []pathfinding.Neighbor { return adj[n] }, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.WalksGenerated)
}
