package concurrency

import (
	"context"

	"github.com/orneryd/gds/pkg/gdserr"
)

// Partition is a contiguous half-open range [Start, Start+Length).
type Partition struct {
	Start  int64
	Length int64
}

func (p Partition) End() int64 { return p.Start + p.Length }

// RangePartition splits [0, n) into `concurrency` contiguous ranges of
// near-equal size, per spec §5 `PartitionUtils::range_partition`. The
// last partition absorbs the remainder.
func RangePartition(concurrency int, n int64) []Partition {
	if concurrency < 1 {
		concurrency = 1
	}
	if n <= 0 {
		return nil
	}
	base := n / int64(concurrency)
	remainder := n % int64(concurrency)

	partitions := make([]Partition, 0, concurrency)
	start := int64(0)
	for i := 0; i < concurrency; i++ {
		length := base
		if int64(i) < remainder {
			length++
		}
		if length == 0 {
			continue
		}
		partitions = append(partitions, Partition{Start: start, Length: length})
		start += length
	}
	return partitions
}

// RangePartitionWithBatchSize splits [0, n) into fixed-size batches,
// per spec §5 `range_partition_with_batch_size(n, batch)`.
func RangePartitionWithBatchSize(n, batchSize int64) []Partition {
	if batchSize < 1 {
		batchSize = 1
	}
	var partitions []Partition
	for start := int64(0); start < n; start += batchSize {
		length := batchSize
		if start+length > n {
			length = n - start
		}
		partitions = append(partitions, Partition{Start: start, Length: length})
	}
	return partitions
}

// ParallelRangeFold partitions [0, n) across `concurrency` workers, calls
// fold for each worker's partition to produce a partial result, then
// reduces partials sequentially with combine. Each worker checks
// termination at the start of its partition (spec §5 "before each
// partition dispatch"); a tripped flag aborts the whole fold with
// gdserr.Terminated.
func ParallelRangeFold[T any](ctx context.Context, term *TerminationFlag, concurrency int, n int64, zero T, fold func(ctx context.Context, p Partition) (T, error), combine func(acc, partial T) T) (T, error) {
	partitions := RangePartition(concurrency, n)
	partials := make([]T, len(partitions))

	err := InstallWithConcurrency(ctx, concurrency, func(ctx context.Context, g *Group) error {
		for i, p := range partitions {
			i, p := i, p
			g.Go(ctx, func(ctx context.Context) error {
				if term.IsStopped() {
					return gdserr.Terminated
				}
				result, err := fold(ctx, p)
				if err != nil {
					return err
				}
				partials[i] = result
				return nil
			})
		}
		return nil
	})
	if err != nil {
		return zero, err
	}

	acc := zero
	for _, partial := range partials {
		acc = combine(acc, partial)
	}
	return acc, nil
}
