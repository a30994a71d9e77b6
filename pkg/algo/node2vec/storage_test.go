package node2vec_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gds/pkg/algo/node2vec"
	"github.com/orneryd/gds/pkg/core"
	"github.com/orneryd/gds/pkg/generator"
	"github.com/orneryd/gds/pkg/metrics"
	"github.com/orneryd/gds/pkg/progress"
)

func newTemplate() *core.Template {
	return core.NewTemplate(progress.NewRegistry(16), metrics.NewCollectors(prometheus.NewRegistry()))
}

func TestNode2VecSpec_Stream_EmitsOneEmbeddingPerNode(t *testing.T) {
	gs, _, err := generator.Generate(generator.Config{
		NodeCount:     10,
		Relationships: []generator.RelationshipSpec{{Type: "REL", Probability: 0.4}},
		Directed:      true,
		Seed:          7,
	})
	require.NoError(t, err)
	tmpl := newTemplate()

	env, err := tmpl.RunStream(context.Background(), node2vec.Spec{}, gs, core.RawConfig{
		"walksPerNode":       float64(3),
		"walkLength":         float64(5),
		"iterations":         float64(2),
		"embeddingDimension": float64(6),
		"randomSeed":         float64(1),
	})
	require.NoError(t, err)

	seen := make(map[int64]bool)
	env.Rows(func(r core.Row) bool {
		seen[r["nodeId"].(int64)] = true
		vec, ok := r["embedding"].([]float64)
		require.True(t, ok)
		assert.Len(t, vec, 6)
		return true
	})
	assert.Len(t, seen, 10)
}

func TestNode2VecSpec_Stats_ReportsWalkCountAndLoss(t *testing.T) {
	gs, _, err := generator.Generate(generator.Config{
		NodeCount:     10,
		Relationships: []generator.RelationshipSpec{{Type: "REL", Probability: 0.4}},
		Directed:      true,
		Seed:          7,
	})
	require.NoError(t, err)
	tmpl := newTemplate()

	env, err := tmpl.RunStats(context.Background(), node2vec.Spec{}, gs, core.RawConfig{
		"walksPerNode":       float64(3),
		"walkLength":         float64(5),
		"iterations":         float64(2),
		"embeddingDimension": float64(6),
		"randomSeed":         float64(1),
	})
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, int64(10*3), env.Stats["walksGenerated"])
	assert.Contains(t, env.Stats, "finalLoss")
}

func TestNode2VecSpec_RejectsUnknownEmbeddingInitializer(t *testing.T) {
	gs, _, err := generator.Generate(generator.Config{
		NodeCount:     5,
		Relationships: []generator.RelationshipSpec{{Type: "REL", Probability: 0.5}},
		Directed:      true,
		Seed:          3,
	})
	require.NoError(t, err)
	tmpl := newTemplate()

	_, err = tmpl.RunStream(context.Background(), node2vec.Spec{}, gs, core.RawConfig{
		"embeddingInitializer": "BOGUS",
	})
	require.Error(t, err)
}

func TestNode2VecSpec_Estimate_MinLessEqualMax(t *testing.T) {
	gs, _, err := generator.Generate(generator.Config{
		NodeCount:     10,
		Relationships: []generator.RelationshipSpec{{Type: "REL", Probability: 0.4}},
		Directed:      true,
		Seed:          7,
	})
	require.NoError(t, err)
	tmpl := newTemplate()

	env, err := tmpl.RunEstimate(context.Background(), node2vec.Spec{}, gs, core.RawConfig{
		"embeddingDimension": float64(16),
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, env.Min, env.Max)
}
