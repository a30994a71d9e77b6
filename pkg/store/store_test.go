package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gds/pkg/schema"
	"github.com/orneryd/gds/pkg/store"
	"github.com/orneryd/gds/pkg/store/idmap"
	"github.com/orneryd/gds/pkg/values"
)

// buildDirectedGraph builds the 4-node directed graph from spec §8
// scenario 5: 0->1, 0->2, 1->2, 1->3, 2->3, 3->0.
func buildDirectedGraph(t *testing.T) *store.GraphStore {
	t.Helper()
	interner := schema.NewInterner()
	sch := schema.New(interner)
	relType := sch.AddRelationshipType("REL", schema.Directed, nil)

	idBuilder := idmap.NewBuilder()
	for i := int64(0); i < 4; i++ {
		idBuilder.Add(i)
	}
	idMap := idBuilder.Build()

	tb := store.NewTopologyBuilder(relType, schema.Directed, idMap.NodeCount(), true)
	edges := [][2]int64{{0, 1}, {0, 2}, {1, 2}, {1, 3}, {2, 3}, {3, 0}}
	for _, e := range edges {
		tb.AddEdge(e[0], e[1])
	}
	topo, err := tb.Build()
	require.NoError(t, err)

	topologies := map[uint64]*store.Topology{relType.Hash(): topo}
	return store.New(idMap, sch, topologies, nil, nil)
}

func TestGraphStore_BasicCounts(t *testing.T) {
	s := buildDirectedGraph(t)
	assert.Equal(t, int64(4), s.NodeCount())
	assert.Equal(t, int64(6), s.RelationshipCount())
	assert.Equal(t, []string{"REL"}, s.RelationshipTypes())
}

func TestGraphStore_InducedSubgraph_MatchesScenario5(t *testing.T) {
	s := buildDirectedGraph(t)

	result, err := s.CommitInducedSubgraphByOriginalNodeIDs([]int64{0, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.Store.NodeCount())
	assert.Equal(t, int64(3), result.Store.RelationshipCount())
	assert.Equal(t, map[int64]int64{0: 0, 2: 1, 3: 2}, result.OldToNew)
	assert.Equal(t, int64(3), result.KeptPerType["REL"])

	topo, err := result.Store.TopologyForType("REL")
	require.NoError(t, err)

	targets0, _ := topo.OutTargets(0) // old node 0 -> old node 2 (new 1)
	assert.Equal(t, []int64{1}, targets0)
	targets1, _ := topo.OutTargets(1) // old node 2 -> old node 3 (new 2)
	assert.Equal(t, []int64{2}, targets1)
	targets2, _ := topo.OutTargets(2) // old node 3 -> old node 0 (new 0)
	assert.Equal(t, []int64{0}, targets2)
}

func TestGraphStore_AddNodeProperty_PreservesNodeCount(t *testing.T) {
	s := buildDirectedGraph(t)
	col := values.NewLongColumn([]int64{1, 2, 3, 4})

	s2, err := s.AddNodeProperty(nil, "score", col)
	require.NoError(t, err)

	assert.Equal(t, s.NodeCount(), s2.NodeCount())
	assert.Contains(t, s2.NodePropertyKeys(), "score")
	assert.NotContains(t, s.NodePropertyKeys(), "score")

	got, err := s2.NodePropertyValues("score")
	require.NoError(t, err)
	v, err := got.LongValue(2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestGraphStore_AddNodeProperty_RejectsWrongSize(t *testing.T) {
	s := buildDirectedGraph(t)
	col := values.NewLongColumn([]int64{1, 2})
	_, err := s.AddNodeProperty(nil, "score", col)
	require.Error(t, err)
}

func TestGraphStore_NodePropertyValues_MissingKeyFails(t *testing.T) {
	s := buildDirectedGraph(t)
	_, err := s.NodePropertyValues("nope")
	require.Error(t, err)
}
