package steiner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gds/pkg/algo/pathfinding"
	"github.com/orneryd/gds/pkg/algo/steiner"
)

// branchingGraph is a 7-node undirected graph: 0-1-2-3 and 1-4-5 as two
// branches off node 1, plus a dead-end spur 0-6. Source 0, terminals
// {3,5}; node 6 should end up pruned (a non-terminal leaf).
func branchingGraph() (int64, pathfinding.NeighborFunc) {
	adj := map[int64][]pathfinding.Neighbor{
		0: {{Target: 1, Weight: 1}, {Target: 6, Weight: 1}},
		1: {{Target: 0, Weight: 1}, {Target: 2, Weight: 1}, {Target: 4, Weight: 1}},
		2: {{Target: 1, Weight: 1}, {Target: 3, Weight: 1}},
		3: {{Target: 2, Weight: 1}},
		4: {{Target: 1, Weight: 1}, {Target: 5, Weight: 1}},
		5: {{Target: 4, Weight: 1}},
		6: {{Target: 0, Weight: 1}},
	}
	return 7, func(n int64) []pathfinding.Neighbor { return adj[n] }
}

func TestCompute_BranchingGraph_PrunesNonTerminalLeaf(t *testing.T) {
	n, neighbors := branchingGraph()
	result, err := steiner.Compute(n, steiner.Config{
		Source:    0,
		Terminals: []int64{3, 5},
		Delta:     2.0,
	}, neighbors, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(6), result.EffectiveNodeCount)
	assert.Equal(t, int64(2), result.EffectiveTargetCount)
	assert.InDelta(t, 5.0, result.TotalCost, 1e-9)

	// Node 6 is off the tree entirely.
	assert.Equal(t, int64(-2), result.ParentArray[6])

	// Every terminal and intermediate node is connected back to the source.
	for _, node := range []int64{1, 2, 3, 4, 5} {
		assert.GreaterOrEqual(t, result.ParentArray[node], int64(0))
	}
}

func TestCompute_RejectsNonPositiveDelta(t *testing.T) {
	n, neighbors := branchingGraph()
	_, err := steiner.Compute(n, steiner.Config{
		Source:    0,
		Terminals: []int64{3},
		Delta:     0,
	}, neighbors, nil)
	require.Error(t, err)
}

func TestCompute_RejectsEmptyTerminals(t *testing.T) {
	n, neighbors := branchingGraph()
	_, err := steiner.Compute(n, steiner.Config{
		Source:    0,
		Terminals: nil,
		Delta:     1.0,
	}, neighbors, nil)
	require.Error(t, err)
}

func TestCompute_RejectsOutOfRangeTerminal(t *testing.T) {
	n, neighbors := branchingGraph()
	_, err := steiner.Compute(n, steiner.Config{
		Source:    0,
		Terminals: []int64{100},
		Delta:     1.0,
	}, neighbors, nil)
	require.Error(t, err)
}

func TestCompute_RejectsOutOfRangeSource(t *testing.T) {
	n, neighbors := branchingGraph()
	_, err := steiner.Compute(n, steiner.Config{
		Source:    100,
		Terminals: []int64{3},
		Delta:     1.0,
	}, neighbors, nil)
	require.Error(t, err)
}

func TestCompute_EmptyGraphReturnsEmptyResult(t *testing.T) {
	result, err := steiner.Compute(0, steiner.Config{
		Source:    0,
		Terminals: []int64{0},
		Delta:     1.0,
	}, func(int64) []pathfinding.Neighbor { return nil }, nil)
	require.NoError(t, err)
	assert.Empty(t, result.ParentArray)
}

func TestCompute_UnreachableTerminalIsSimplySkipped(t *testing.T) {
	adj := map[int64][]pathfinding.Neighbor{
		0: {{Target: 1, Weight: 1}},
		1: {{Target: 0, Weight: 1}},
		2: nil, // disconnected from 0 and 1
	}
	result, err := steiner.Compute(3, steiner.Config{
		Source:    0,
		Terminals: []int64{1, 2},
		Delta:     1.0,
	}, func(n int64) []pathfinding.Neighbor { return adj[n] }, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.EffectiveTargetCount)
	assert.Equal(t, int64(-2), result.ParentArray[2])
}
