package wcc_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gds/pkg/algo/wcc"
	"github.com/orneryd/gds/pkg/core"
	"github.com/orneryd/gds/pkg/metrics"
	"github.com/orneryd/gds/pkg/progress"
	"github.com/orneryd/gds/pkg/schema"
	"github.com/orneryd/gds/pkg/store"
	"github.com/orneryd/gds/pkg/store/idmap"
)

func newTemplate() *core.Template {
	return core.NewTemplate(progress.NewRegistry(16), metrics.NewCollectors(prometheus.NewRegistry()))
}

// buildUndirectedStore builds an undirected graph with the given node
// count and edge list.
func buildUndirectedStore(t *testing.T, nodeCount int64, edges [][2]int64) *store.GraphStore {
	t.Helper()
	interner := schema.NewInterner()
	sch := schema.New(interner)
	relType := sch.AddRelationshipType("REL", schema.Undirected, nil)

	idBuilder := idmap.NewBuilder()
	for i := int64(0); i < nodeCount; i++ {
		idBuilder.Add(i)
	}
	idMap := idBuilder.Build()

	tb := store.NewTopologyBuilder(relType, schema.Undirected, nodeCount, false)
	for _, e := range edges {
		tb.AddEdge(e[0], e[1])
	}
	topo, _, err := tb.BuildWithPermutation()
	require.NoError(t, err)

	topologies := map[uint64]*store.Topology{relType.Hash(): topo}
	return store.New(idMap, sch, topologies, nil, nil)
}

// twoTrianglesStore reproduces spec §8 scenario 3: 6 nodes, edges
// {0-1,1-2,2-0, 3-4,4-5,5-3} undirected.
func twoTrianglesStore(t *testing.T) *store.GraphStore {
	return buildUndirectedStore(t, 6, [][2]int64{
		{0, 1}, {1, 2}, {2, 0},
		{3, 4}, {4, 5}, {5, 3},
	})
}

func TestWCCSpec_Stream_MatchesScenario3(t *testing.T) {
	gs := twoTrianglesStore(t)
	tmpl := newTemplate()

	env, err := tmpl.RunStream(context.Background(), wcc.Spec{}, gs, core.RawConfig{})
	require.NoError(t, err)

	components := make(map[int64]int64, 6)
	env.Rows(func(r core.Row) bool {
		components[r["nodeId"].(int64)] = r["componentId"].(int64)
		return true
	})
	require.Len(t, components, 6)

	assert.Equal(t, components[0], components[1])
	assert.Equal(t, components[1], components[2])
	assert.Equal(t, components[3], components[4])
	assert.Equal(t, components[4], components[5])
	assert.NotEqual(t, components[0], components[3])
}

func TestWCCSpec_Stats_ReportsComponentCount(t *testing.T) {
	gs := twoTrianglesStore(t)
	tmpl := newTemplate()

	env, err := tmpl.RunStats(context.Background(), wcc.Spec{}, gs, core.RawConfig{})
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, int64(2), env.Stats["componentCount"])
}

func TestWCCSpec_Mutate_WritesComponentIdProperty(t *testing.T) {
	gs := twoTrianglesStore(t)
	tmpl := newTemplate()

	env, err := tmpl.RunMutate(context.Background(), wcc.Spec{}, gs, core.RawConfig{}, "componentId")
	require.NoError(t, err)
	assert.Equal(t, "componentId", env.PropertyName)
	assert.Equal(t, int64(6), env.NodesUpdated)
}

func TestWCCSpec_RejectsNonNumericThreshold(t *testing.T) {
	gs := twoTrianglesStore(t)
	tmpl := newTemplate()

	_, err := tmpl.RunStream(context.Background(), wcc.Spec{}, gs, core.RawConfig{
		"threshold": "not-a-number",
	})
	require.Error(t, err)
}

func TestWCCSpec_Estimate_MinLessEqualMax(t *testing.T) {
	gs := twoTrianglesStore(t)
	tmpl := newTemplate()

	env, err := tmpl.RunEstimate(context.Background(), wcc.Spec{}, gs, core.RawConfig{})
	require.NoError(t, err)
	assert.LessOrEqual(t, env.Min, env.Max)
}
