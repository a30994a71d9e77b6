package pathfinding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gds/pkg/algo/pathfinding"
)

// linePath returns the 4-node path 0->1->2->3, each edge weight 1.0
// (spec §8 scenario 1).
func linePath() pathfinding.NeighborFunc {
	edges := map[int64][]pathfinding.Neighbor{
		0: {{Target: 1, Weight: 1.0}},
		1: {{Target: 2, Weight: 1.0}},
		2: {{Target: 3, Weight: 1.0}},
		3: {},
	}
	return func(n int64) []pathfinding.Neighbor { return edges[n] }
}

func TestDijkstra_FourNodePath_MatchesScenario1(t *testing.T) {
	results, err := pathfinding.Dijkstra(4, 0, []int64{3}, linePath(), true, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(3), results[0].Target)
	assert.Equal(t, 3.0, results[0].Cost)
	assert.Equal(t, []int64{0, 1, 2, 3}, results[0].Path)
}

func TestDijkstra_IsIdempotent(t *testing.T) {
	r1, err := pathfinding.Dijkstra(4, 0, []int64{3}, linePath(), true, nil)
	require.NoError(t, err)
	r2, err := pathfinding.Dijkstra(4, 0, []int64{3}, linePath(), true, nil)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}

func TestDijkstra_TieBreaksOnSmallerNodeID(t *testing.T) {
	// Diamond: 0->1(1), 0->2(1), 1->3(1), 2->3(1). Both 0-1-3 and 0-2-3
	// cost 2; the smaller intermediate id must win.
	edges := map[int64][]pathfinding.Neighbor{
		0: {{Target: 1, Weight: 1}, {Target: 2, Weight: 1}},
		1: {{Target: 3, Weight: 1}},
		2: {{Target: 3, Weight: 1}},
		3: {},
	}
	nb := func(n int64) []pathfinding.Neighbor { return edges[n] }

	results, err := pathfinding.Dijkstra(4, 0, []int64{3}, nb, true, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []int64{0, 1, 3}, results[0].Path)
}

func TestDijkstra_SkipsNegativeAndNonFiniteWeights(t *testing.T) {
	edges := map[int64][]pathfinding.Neighbor{
		0: {{Target: 1, Weight: -1}, {Target: 2, Weight: 5}},
		1: {{Target: 2, Weight: 1}},
		2: {},
	}
	nb := func(n int64) []pathfinding.Neighbor { return edges[n] }

	results, err := pathfinding.Dijkstra(3, 0, []int64{2}, nb, false, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	// The negative edge 0->1 must be skipped, so 2 is only reachable via
	// the direct 0->2(5) edge, not via a (skipped) 0->1->2 relaxation.
	assert.Equal(t, 5.0, results[0].Cost)
}

func TestDijkstra_RejectsOutOfRangeSource(t *testing.T) {
	_, err := pathfinding.Dijkstra(4, 9, []int64{0}, linePath(), false, nil)
	require.Error(t, err)
}

func TestAStar_AddsHeuristicToPriorityNotTrueDistance(t *testing.T) {
	nb := linePath()
	// An admissible (zero) heuristic must reproduce plain Dijkstra's cost.
	h := func(int64) float64 { return 0 }
	results, err := pathfinding.AStar(4, 0, []int64{3}, nb, h, true, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 3.0, results[0].Cost)
	assert.Equal(t, []int64{0, 1, 2, 3}, results[0].Path)
}
