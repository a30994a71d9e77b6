package kmeans_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gds/pkg/algo/kmeans"
	"github.com/orneryd/gds/pkg/core"
	"github.com/orneryd/gds/pkg/metrics"
	"github.com/orneryd/gds/pkg/progress"
	"github.com/orneryd/gds/pkg/schema"
	"github.com/orneryd/gds/pkg/store"
	"github.com/orneryd/gds/pkg/store/idmap"
	"github.com/orneryd/gds/pkg/values"
)

func newTemplate() *core.Template {
	return core.NewTemplate(progress.NewRegistry(16), metrics.NewCollectors(prometheus.NewRegistry()))
}

// buildPointStore builds a relationship-free store whose only content is
// a "point" node property holding each node's feature vector.
func buildPointStore(t *testing.T, points [][]float64) *store.GraphStore {
	t.Helper()
	interner := schema.NewInterner()
	sch := schema.New(interner)

	idBuilder := idmap.NewBuilder()
	for i := range points {
		idBuilder.Add(int64(i))
	}
	idMap := idBuilder.Build()

	nodeProps := map[string]values.Column{
		"point": values.NewDoubleArrayColumn(points, len(points[0])),
	}
	return store.New(idMap, sch, map[uint64]*store.Topology{}, nodeProps, nil)
}

func TestKMeansSpec_Stream_MatchesScenario4(t *testing.T) {
	points := [][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}}
	gs := buildPointStore(t, points)
	tmpl := newTemplate()

	env, err := tmpl.RunStream(context.Background(), kmeans.Spec{}, gs, core.RawConfig{
		"nodeProperty":  "point",
		"k":             float64(2),
		"seedCentroids": []any{[]any{float64(0), float64(0)}, []any{float64(10), float64(10)}},
	})
	require.NoError(t, err)

	var rows []core.Row
	env.Rows(func(r core.Row) bool {
		rows = append(rows, r)
		return true
	})
	require.Len(t, rows, 4)
	assert.Equal(t, rows[0]["communityId"], rows[1]["communityId"])
	assert.Equal(t, rows[2]["communityId"], rows[3]["communityId"])
	assert.NotEqual(t, rows[0]["communityId"], rows[2]["communityId"])
}

func TestKMeansSpec_Stats_ReportsOneRestartForSeededCentroids(t *testing.T) {
	points := [][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}}
	gs := buildPointStore(t, points)
	tmpl := newTemplate()

	env, err := tmpl.RunStats(context.Background(), kmeans.Spec{}, gs, core.RawConfig{
		"nodeProperty":  "point",
		"k":             float64(2),
		"seedCentroids": []any{[]any{float64(0), float64(0)}, []any{float64(10), float64(10)}},
	})
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, 1, env.Stats["restarts"])
	assert.GreaterOrEqual(t, env.Stats["ranIterations"], 1)
}

func TestKMeansSpec_RejectsMissingNodeProperty(t *testing.T) {
	gs := buildPointStore(t, [][]float64{{0, 0}, {1, 1}})
	tmpl := newTemplate()

	_, err := tmpl.RunStream(context.Background(), kmeans.Spec{}, gs, core.RawConfig{
		"k": float64(2),
	})
	require.Error(t, err)
}

func TestKMeansSpec_Estimate_MinLessEqualMax(t *testing.T) {
	gs := buildPointStore(t, [][]float64{{0, 0}, {1, 1}})
	tmpl := newTemplate()

	env, err := tmpl.RunEstimate(context.Background(), kmeans.Spec{}, gs, core.RawConfig{
		"nodeProperty": "point",
		"k":            float64(2),
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, env.Min, env.Max)
}
