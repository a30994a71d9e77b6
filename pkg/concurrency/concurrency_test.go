package concurrency_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gds/pkg/concurrency"
)

func TestRangePartition_CoversWholeRangeExactlyOnce(t *testing.T) {
	partitions := concurrency.RangePartition(4, 17)
	var total int64
	var prevEnd int64
	for _, p := range partitions {
		assert.Equal(t, prevEnd, p.Start)
		total += p.Length
		prevEnd = p.End()
	}
	assert.Equal(t, int64(17), total)
	assert.Equal(t, int64(17), prevEnd)
}

func TestRangePartitionWithBatchSize(t *testing.T) {
	partitions := concurrency.RangePartitionWithBatchSize(10, 3)
	require.Len(t, partitions, 4)
	assert.Equal(t, int64(3), partitions[0].Length)
	assert.Equal(t, int64(1), partitions[3].Length)
}

func TestDisjointSet_LinearizabilityUnderRandomConcurrentUnions(t *testing.T) {
	const n = 2000
	ds := concurrency.NewDisjointSet(n)

	rng := rand.New(rand.NewSource(42))
	pairs := make([][2]int64, 5000)
	for i := range pairs {
		pairs[i] = [2]int64{rng.Int63n(n), rng.Int63n(n)}
	}

	var wg sync.WaitGroup
	workers := 8
	chunk := len(pairs) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if w == workers-1 {
			end = len(pairs)
		}
		wg.Add(1)
		go func(slice [][2]int64) {
			defer wg.Done()
			for _, p := range slice {
				ds.Union(p[0], p[1])
			}
		}(pairs[start:end])
	}
	wg.Wait()

	// Build the expected partition with a sequential reference union-find
	// over the same edge list, then compare component membership.
	ref := concurrency.NewDisjointSet(n)
	for _, p := range pairs {
		ref.Union(p[0], p[1])
	}

	for i := int64(0); i < n; i++ {
		for j := i + 1; j < n; j += 97 { // sample, full n^2 is wasteful
			assert.Equal(t, ref.Connected(i, j), ds.Connected(i, j), "node %d vs %d", i, j)
		}
	}
}

func TestDisjointSet_ComponentsAssignsDenseIDs(t *testing.T) {
	ds := concurrency.NewDisjointSet(6)
	ds.Union(0, 1)
	ds.Union(1, 2)
	ds.Union(3, 4)
	ds.Union(4, 5)

	ids := ds.Components()
	assert.Equal(t, ids[0], ids[1])
	assert.Equal(t, ids[1], ids[2])
	assert.Equal(t, ids[3], ids[4])
	assert.Equal(t, ids[4], ids[5])
	assert.NotEqual(t, ids[0], ids[3])
	assert.Equal(t, int64(2), ds.ComponentCount())
}

func TestTerminationFlag_StopsParallelFold(t *testing.T) {
	term := concurrency.NewTerminationFlag()
	term.Stop()

	_, err := concurrency.ParallelRangeFold(context.Background(), term, 4, 100, 0,
		func(ctx context.Context, p concurrency.Partition) (int, error) {
			return int(p.Length), nil
		},
		func(acc, partial int) int { return acc + partial },
	)
	require.Error(t, err)
}

func TestParallelRangeFold_SumsPartitionLengths(t *testing.T) {
	term := concurrency.NewTerminationFlag()
	total, err := concurrency.ParallelRangeFold(context.Background(), term, 4, 101, 0,
		func(ctx context.Context, p concurrency.Partition) (int, error) {
			return int(p.Length), nil
		},
		func(acc, partial int) int { return acc + partial },
	)
	require.NoError(t, err)
	assert.Equal(t, 101, total)
}

func TestHugeAtomicBitSet_TrySetClaimsExactlyOnce(t *testing.T) {
	bs := concurrency.NewHugeAtomicBitSet(64)
	var wg sync.WaitGroup
	claims := concurrency.NewHugeAtomicLongArray(1)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if bs.TrySet(5) {
				claims.Add(0, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), claims.Get(0))
	assert.True(t, bs.Get(5))
}
