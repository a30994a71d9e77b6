package concurrency

import "sync/atomic"

// HugeLongArray is a flat i64 array allocated once per call and reused
// across iterations (spec §9 "per-worker computation state"). In Go this
// is simply a slice — there is no JVM array-size ceiling to page around —
// but the type exists so algorithm code names its distance/predecessor
// arrays the way the spec does, and so partitioning helpers below have a
// uniform type to hand each worker a disjoint slice of.
type HugeLongArray struct {
	data []int64
}

func NewHugeLongArray(n int64, fill int64) *HugeLongArray {
	data := make([]int64, n)
	if fill != 0 {
		for i := range data {
			data[i] = fill
		}
	}
	return &HugeLongArray{data: data}
}

func (a *HugeLongArray) Get(i int64) int64    { return a.data[i] }
func (a *HugeLongArray) Set(i int64, v int64) { a.data[i] = v }
func (a *HugeLongArray) Len() int64           { return int64(len(a.data)) }

// Slice hands back the partition's backing slice directly so a worker
// can write into it without bounds-checking overhead per element; safe
// because RangePartition never overlaps.
func (a *HugeLongArray) Slice(p Partition) []int64 { return a.data[p.Start:p.End()] }

// HugeDoubleArray mirrors HugeLongArray for f64 (distance arrays).
type HugeDoubleArray struct {
	data []float64
}

func NewHugeDoubleArray(n int64, fill float64) *HugeDoubleArray {
	data := make([]float64, n)
	for i := range data {
		data[i] = fill
	}
	return &HugeDoubleArray{data: data}
}

func (a *HugeDoubleArray) Get(i int64) float64    { return a.data[i] }
func (a *HugeDoubleArray) Set(i int64, v float64) { a.data[i] = v }
func (a *HugeDoubleArray) Len() int64             { return int64(len(a.data)) }
func (a *HugeDoubleArray) Slice(p Partition) []float64 { return a.data[p.Start:p.End()] }

// HugeAtomicLongArray is the atomic counterpart used where multiple
// workers must write the same array without a lock (e.g. WCC's sampled
// largest-component counting).
type HugeAtomicLongArray struct {
	data []atomic.Int64
}

func NewHugeAtomicLongArray(n int64) *HugeAtomicLongArray {
	return &HugeAtomicLongArray{data: make([]atomic.Int64, n)}
}

func (a *HugeAtomicLongArray) Get(i int64) int64             { return a.data[i].Load() }
func (a *HugeAtomicLongArray) Set(i int64, v int64)          { a.data[i].Store(v) }
func (a *HugeAtomicLongArray) Add(i int64, delta int64) int64 { return a.data[i].Add(delta) }
func (a *HugeAtomicLongArray) Len() int64                     { return int64(len(a.data)) }

// HugeAtomicBitSet is a bit-per-element visited/membership set safe for
// concurrent Set calls from multiple workers (used by BFS/DFS visited
// tracking).
type HugeAtomicBitSet struct {
	words []atomic.Uint64
}

func NewHugeAtomicBitSet(n int64) *HugeAtomicBitSet {
	return &HugeAtomicBitSet{words: make([]atomic.Uint64, (n+63)/64)}
}

// TrySet atomically sets bit i and reports whether it was this call that
// set it (false if another goroutine already had). This is the primitive
// BFS/DFS use to claim a node exactly once under concurrent expansion.
func (b *HugeAtomicBitSet) TrySet(i int64) bool {
	word, bit := i/64, uint(i%64)
	mask := uint64(1) << bit
	for {
		old := b.words[word].Load()
		if old&mask != 0 {
			return false
		}
		if b.words[word].CompareAndSwap(old, old|mask) {
			return true
		}
	}
}

func (b *HugeAtomicBitSet) Get(i int64) bool {
	word, bit := i/64, uint(i%64)
	return b.words[word].Load()&(uint64(1)<<bit) != 0
}
