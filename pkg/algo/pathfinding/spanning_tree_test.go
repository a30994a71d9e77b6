package pathfinding_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orneryd/gds/pkg/algo/pathfinding"
)

func TestMultiSourceDeltaStepping_SingleSource_MatchesDijkstraDistance(t *testing.T) {
	neighbors := linePath()
	active := []bool{true, false, false, false}

	distance, pred, predWeight := pathfinding.MultiSourceDeltaStepping(4, active, 1.0, neighbors)

	assert.Equal(t, []float64{0, 1, 2, 3}, distance)
	assert.Equal(t, []int64{-1, 0, 1, 2}, pred)
	assert.Equal(t, []float64{0, 1, 1, 1}, predWeight)
}

func TestMultiSourceDeltaStepping_TwoSources_EachNodeTakesNearestSource(t *testing.T) {
	// 0 -> 1 -> 2 <- 3, both 0 and 3 active.
	edges := map[int64][]pathfinding.Neighbor{
		0: {{Target: 1, Weight: 1.0}},
		1: {{Target: 2, Weight: 1.0}},
		2: {},
		3: {{Target: 2, Weight: 1.0}},
	}
	neighbors := func(n int64) []pathfinding.Neighbor { return edges[n] }
	active := []bool{true, false, false, true}

	distance, pred, _ := pathfinding.MultiSourceDeltaStepping(4, active, 1.0, neighbors)

	assert.Equal(t, 0.0, distance[0])
	assert.Equal(t, 1.0, distance[1])
	assert.Equal(t, 1.0, distance[2]) // reached via node 3, not the longer path through 0->1
	assert.Equal(t, 0.0, distance[3])
	assert.Equal(t, int64(3), pred[2])
}

func TestMultiSourceDeltaStepping_UnreachableNodeStaysAtInfinity(t *testing.T) {
	edges := map[int64][]pathfinding.Neighbor{
		0: {},
		1: {},
	}
	neighbors := func(n int64) []pathfinding.Neighbor { return edges[n] }
	active := []bool{true, false}

	distance, pred, _ := pathfinding.MultiSourceDeltaStepping(2, active, 1.0, neighbors)

	assert.True(t, math.IsInf(distance[1], 1))
	assert.Equal(t, int64(-1), pred[1])
}
