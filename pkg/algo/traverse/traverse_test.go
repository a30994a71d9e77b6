package traverse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gds/pkg/algo/traverse"
)

// chain returns 0->1->2->3->4 with an extra 1->4 shortcut, so BFS and DFS
// diverge on which path reaches node 4 first.
func chain() traverse.NeighborFunc {
	edges := map[int64][]int64{
		0: {1},
		1: {2, 4},
		2: {3},
		3: {4},
		4: {},
	}
	return func(n int64) []int64 { return edges[n] }
}

func TestBFS_SourceRowHasZeroDepthAndSingletonPath(t *testing.T) {
	results, stats, err := traverse.BFS(5, 0, -1, chain(), true, nil)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, int64(0), results[0].Target)
	assert.Equal(t, 0, results[0].Depth)
	assert.Equal(t, []int64{0}, results[0].Path)
	assert.Equal(t, int64(5), stats.NodesVisited)
}

func TestBFS_FindsShortestPathViaShortcut(t *testing.T) {
	results, _, err := traverse.BFS(5, 0, -1, chain(), true, nil)
	require.NoError(t, err)
	var target4 *traverse.VisitResult
	for i := range results {
		if results[i].Target == 4 {
			target4 = &results[i]
		}
	}
	require.NotNil(t, target4)
	assert.Equal(t, 2, target4.Depth) // 0->1->4, not 0->1->2->3->4
	assert.Equal(t, []int64{0, 1, 4}, target4.Path)
}

func TestBFS_RespectsMaxDepth(t *testing.T) {
	results, stats, err := traverse.BFS(5, 0, 1, chain(), true, nil)
	require.NoError(t, err)
	for _, r := range results {
		assert.LessOrEqual(t, r.Depth, 1)
	}
	assert.LessOrEqual(t, stats.MaxDepthReached, 1)
}

func TestBFS_RejectsOutOfRangeSource(t *testing.T) {
	_, _, err := traverse.BFS(5, 9, -1, chain(), false, nil)
	require.Error(t, err)
}

func TestDFS_VisitsEveryReachableNode(t *testing.T) {
	results, stats, err := traverse.DFS(5, 0, -1, chain(), true, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.NodesVisited)
	assert.Len(t, results, 5)
	assert.Equal(t, []int64{0}, results[0].Path)
}

func TestDFS_CountsBacktrackOperations(t *testing.T) {
	_, stats, err := traverse.DFS(5, 0, -1, chain(), false, nil)
	require.NoError(t, err)
	assert.Greater(t, stats.BacktrackOperations, int64(0))
}
