package pathfinding_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gds/pkg/algo/pathfinding"
	"github.com/orneryd/gds/pkg/core"
	"github.com/orneryd/gds/pkg/metrics"
	"github.com/orneryd/gds/pkg/progress"
	"github.com/orneryd/gds/pkg/schema"
	"github.com/orneryd/gds/pkg/store"
	"github.com/orneryd/gds/pkg/store/idmap"
	"github.com/orneryd/gds/pkg/values"
)

// buildWeightedStore builds a directed graph from edges (weighted by
// "weight") with the given node count.
func buildWeightedStore(t *testing.T, nodeCount int64, edges [][3]float64) *store.GraphStore {
	t.Helper()
	interner := schema.NewInterner()
	sch := schema.New(interner)
	relType := sch.AddRelationshipType("REL", schema.Directed, map[string]values.ValueType{"weight": values.Double})

	idBuilder := idmap.NewBuilder()
	for i := int64(0); i < nodeCount; i++ {
		idBuilder.Add(i)
	}
	idMap := idBuilder.Build()

	tb := store.NewTopologyBuilder(relType, schema.Directed, nodeCount, true)
	var weights []float64
	for _, e := range edges {
		tb.AddEdge(int64(e[0]), int64(e[1]))
		weights = append(weights, e[2])
	}
	topo, permutation, err := tb.BuildWithPermutation()
	require.NoError(t, err)

	aligned := make([]float64, len(permutation))
	for flatIdx, originalIdx := range permutation {
		aligned[flatIdx] = weights[originalIdx]
	}

	topologies := map[uint64]*store.Topology{relType.Hash(): topo}
	relProps := map[uint64]map[string]values.Column{
		relType.Hash(): {"weight": values.NewDoubleColumn(aligned)},
	}
	return store.New(idMap, sch, topologies, nil, relProps)
}

func newTemplate() *core.Template {
	return core.NewTemplate(progress.NewRegistry(16), metrics.NewCollectors(prometheus.NewRegistry()))
}

func TestDijkstraSpec_Stream_MatchesScenario1(t *testing.T) {
	gs := buildWeightedStore(t, 4, [][3]float64{{0, 1, 1.0}, {1, 2, 1.0}, {2, 3, 1.0}})
	tmpl := newTemplate()

	env, err := tmpl.RunStream(context.Background(), pathfinding.DijkstraSpec{}, gs, core.RawConfig{
		"source":         float64(0),
		"target":         float64(3),
		"weightProperty": "weight",
	})
	require.NoError(t, err)

	var rows []core.Row
	env.Rows(func(r core.Row) bool {
		rows = append(rows, r)
		return true
	})
	require.Len(t, rows, 1)
	assert.Equal(t, int64(0), rows[0]["source"])
	assert.Equal(t, int64(3), rows[0]["target"])
	assert.Equal(t, 3.0, rows[0]["cost"])
	assert.Equal(t, []int64{0, 1, 2, 3}, rows[0]["path"])
}

func TestYensSpec_Stream_MatchesScenario6(t *testing.T) {
	gs := buildWeightedStore(t, 4, [][3]float64{{0, 1, 1}, {0, 2, 2}, {1, 3, 2}, {2, 3, 1}})
	tmpl := newTemplate()

	env, err := tmpl.RunStream(context.Background(), pathfinding.YensSpec{}, gs, core.RawConfig{
		"source":         float64(0),
		"target":         float64(3),
		"weightProperty": "weight",
		"k":              float64(2),
	})
	require.NoError(t, err)

	var rows []core.Row
	env.Rows(func(r core.Row) bool {
		rows = append(rows, r)
		return true
	})
	require.Len(t, rows, 2)
	assert.Equal(t, []int64{0, 1, 3}, rows[0]["path"])
	assert.Equal(t, 3.0, rows[0]["cost"])
	assert.Equal(t, []int64{0, 2, 3}, rows[1]["path"])
	assert.Equal(t, 3.0, rows[1]["cost"])
}

func TestDijkstraSpec_Estimate_MinLessEqualMax(t *testing.T) {
	gs := buildWeightedStore(t, 4, [][3]float64{{0, 1, 1.0}})
	tmpl := newTemplate()

	env, err := tmpl.RunEstimate(context.Background(), pathfinding.DijkstraSpec{}, gs, core.RawConfig{
		"source": float64(0),
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, env.Min, env.Max)
}

func TestDijkstraSpec_RejectsUnknownConfigKey(t *testing.T) {
	gs := buildWeightedStore(t, 2, [][3]float64{{0, 1, 1.0}})
	tmpl := newTemplate()

	_, err := tmpl.RunStream(context.Background(), pathfinding.DijkstraSpec{}, gs, core.RawConfig{
		"source":   float64(0),
		"bogusKey": true,
	})
	require.Error(t, err)
}

func TestAStarSpec_Stream_ReachesTargetWithEuclideanHeuristic(t *testing.T) {
	gs := buildWeightedStore(t, 4, [][3]float64{{0, 1, 1.0}, {1, 2, 1.0}, {2, 3, 1.0}})
	gs, err := gs.AddNodeProperty(nil, "x", values.NewDoubleColumn([]float64{0, 1, 2, 3}))
	require.NoError(t, err)
	gs, err = gs.AddNodeProperty(nil, "y", values.NewDoubleColumn([]float64{0, 0, 0, 0}))
	require.NoError(t, err)
	tmpl := newTemplate()

	env, err := tmpl.RunStream(context.Background(), pathfinding.AStarSpec{}, gs, core.RawConfig{
		"source":         float64(0),
		"target":         float64(3),
		"weightProperty": "weight",
		"heuristic":      "euclidean",
		"xProperty":      "x",
		"yProperty":      "y",
	})
	require.NoError(t, err)

	var rows []core.Row
	env.Rows(func(r core.Row) bool {
		rows = append(rows, r)
		return true
	})
	require.Len(t, rows, 1)
	assert.Equal(t, 3.0, rows[0]["cost"])
	assert.Equal(t, []int64{0, 1, 2, 3}, rows[0]["path"])
}
