package generator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gds/pkg/generator"
)

func TestGenerate_IsDeterministicForSameSeed(t *testing.T) {
	cfg := generator.Config{
		NodeCount:      50,
		NodeLabels:     []string{"Person"},
		Relationships:  []generator.RelationshipSpec{{Type: "KNOWS", Probability: 0.2}},
		Directed:       true,
		InverseIndexed: true,
		Seed:           42,
	}

	s1, summary1, err := generator.Generate(cfg)
	require.NoError(t, err)
	s2, summary2, err := generator.Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, s1.NodeCount(), s2.NodeCount())
	assert.Equal(t, s1.RelationshipCount(), s2.RelationshipCount())
	assert.Equal(t, summary1.EdgeDensity, summary2.EdgeDensity)

	topo1, err := s1.TopologyForType("KNOWS")
	require.NoError(t, err)
	topo2, err := s2.TopologyForType("KNOWS")
	require.NoError(t, err)
	t1, _ := topo1.OutTargets(0)
	t2, _ := topo2.OutTargets(0)
	assert.Equal(t, t1, t2)
}

func TestGenerate_DifferentSeedsProduceDifferentGraphs(t *testing.T) {
	base := generator.Config{
		NodeCount:     50,
		Relationships: []generator.RelationshipSpec{{Type: "KNOWS", Probability: 0.3}},
		Directed:      true,
		Seed:          1,
	}
	other := base
	other.Seed = 2

	s1, _, err := generator.Generate(base)
	require.NoError(t, err)
	s2, _, err := generator.Generate(other)
	require.NoError(t, err)

	assert.NotEqual(t, s1.RelationshipCount(), s2.RelationshipCount())
}

func TestGenerate_PopulatesRandomScoreAndWeight(t *testing.T) {
	cfg := generator.Config{
		NodeCount:     10,
		Relationships: []generator.RelationshipSpec{{Type: "REL", Probability: 1.0}},
		Directed:      true,
		Seed:          7,
	}
	s, summary, err := generator.Generate(cfg)
	require.NoError(t, err)

	assert.Contains(t, s.NodePropertyKeys(), "randomScore")
	col, err := s.NodePropertyValues("randomScore")
	require.NoError(t, err)
	v, err := col.DoubleValue(0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)

	weightCol, err := s.RelationshipPropertyValues("REL", "weight")
	require.NoError(t, err)
	assert.Equal(t, int(s.RelationshipCount()), weightCol.Size())

	assert.InDelta(t, 1.0, summary.EdgeDensity["REL"], 1e-9)
}

func TestGenerate_RejectsNonPositiveNodeCount(t *testing.T) {
	_, _, err := generator.Generate(generator.Config{
		NodeCount:     0,
		Relationships: []generator.RelationshipSpec{{Type: "REL", Probability: 0.5}},
	})
	require.Error(t, err)
}

func TestGenerate_RejectsMissingRelationships(t *testing.T) {
	_, _, err := generator.Generate(generator.Config{NodeCount: 5})
	require.Error(t, err)
}

func TestGenerate_UndirectedProducesSymmetricDegrees(t *testing.T) {
	cfg := generator.Config{
		NodeCount:     20,
		Relationships: []generator.RelationshipSpec{{Type: "REL", Probability: 0.5}},
		Directed:      false,
		Seed:          3,
	}
	s, _, err := generator.Generate(cfg)
	require.NoError(t, err)

	topo, err := s.TopologyForType("REL")
	require.NoError(t, err)

	var totalDegree int
	for i := int64(0); i < s.NodeCount(); i++ {
		totalDegree += topo.Degree(i)
	}
	assert.Equal(t, int(s.RelationshipCount()), totalDegree)
}
