package progress_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gds/pkg/progress"
)

func TestTracker_SubTaskLifecycle(t *testing.T) {
	tr := progress.New("dijkstra stream", 100)
	pre := tr.BeginSubTask("pre-processing", 1)
	pre.LogProgress(1)
	tr.EndSubTask()

	compute := tr.BeginSubTask("compute", 100)
	compute.LogProgress(100)
	tr.EndSubTask()

	tr.EndSuccess()

	assert.Equal(t, progress.Success, tr.Root.Status)
	require.Len(t, tr.Root.Children(), 2)
	assert.Equal(t, progress.Success, tr.Root.Children()[0].Status)
	assert.Equal(t, int64(100), tr.Root.Children()[1].Progress)
	assert.Equal(t, 1.0, tr.Root.Children()[1].Fraction())
}

func TestTracker_EndFailurePropagatesToOpenSubtasks(t *testing.T) {
	tr := progress.New("wcc mutate", 10)
	tr.BeginSubTask("compute", 10)

	failure := errors.New("terminated")
	tr.EndFailure(failure)

	assert.Equal(t, progress.Failed, tr.Root.Status)
	require.Len(t, tr.Root.Children(), 1)
	assert.Equal(t, progress.Failed, tr.Root.Children()[0].Status)
	assert.ErrorIs(t, tr.Root.Children()[0].Error, failure)
}

func TestRegistry_RetrievesRegisteredTracker(t *testing.T) {
	reg := progress.NewRegistry(8)
	tr := progress.New("kmeans stats", 50)
	reg.Register(tr)

	got, ok := reg.Get(tr.ID)
	require.True(t, ok)
	assert.Equal(t, tr.Root.Name, got.Root.Name)
	assert.Len(t, reg.List(), 1)
}

func TestRegistry_EvictsBeyondCapacity(t *testing.T) {
	reg := progress.NewRegistry(2)
	for i := 0; i < 5; i++ {
		reg.Register(progress.New("task", 1))
	}
	assert.Len(t, reg.List(), 2)
}
