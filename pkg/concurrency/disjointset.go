package concurrency

import "sync/atomic"

// DisjointSet is a wait-free union-find backed by an atomic array of
// parent pointers, with path compression applied through CAS rather than
// a lock (spec §4.4.3, §9 "the most delicate concurrency primitive in the
// core"). Every element starts as its own root. Concurrent Union/Find
// from multiple goroutines is safe without external synchronization;
// under concurrent unions the resulting forest's root choice is only
// guaranteed to produce the correct partition, not a specific shape.
type DisjointSet struct {
	parent []atomic.Int64
}

// NewDisjointSet allocates a disjoint-set over [0, n), each element its
// own singleton set.
func NewDisjointSet(n int64) *DisjointSet {
	ds := &DisjointSet{parent: make([]atomic.Int64, n)}
	for i := range ds.parent {
		ds.parent[i].Store(int64(i))
	}
	return ds
}

// Find returns the current root of x's set, compressing the path it
// walks via CAS so subsequent Find calls shorten. A losing CAS (another
// goroutine already repointed the slot) is not retried — the next Find
// will simply walk one extra hop and compress again, which preserves
// wait-freedom (no goroutine ever blocks waiting on another).
func (ds *DisjointSet) Find(x int64) int64 {
	for {
		p := ds.parent[x].Load()
		if p == x {
			return x
		}
		gp := ds.parent[p].Load()
		if gp == p {
			return p
		}
		ds.parent[x].CompareAndSwap(p, gp)
		x = gp
	}
}

// Union merges the sets containing x and y. It repeatedly attempts to
// CAS the larger root's parent pointer to the smaller root (an arbitrary
// but deterministic tie-break), retrying if a concurrent union changed
// one side's root out from under it — this is what makes the structure
// wait-free rather than lock-based: a failed CAS means progress happened
// elsewhere, not contention to wait out.
func (ds *DisjointSet) Union(x, y int64) {
	for {
		rx := ds.Find(x)
		ry := ds.Find(y)
		if rx == ry {
			return
		}
		if rx > ry {
			rx, ry = ry, rx
		}
		// Attach the larger root (ry) to the smaller (rx).
		if ds.parent[ry].CompareAndSwap(ry, rx) {
			return
		}
		// Lost the race; retry with fresh roots.
	}
}

// Connected reports whether x and y are currently in the same set.
func (ds *DisjointSet) Connected(x, y int64) bool { return ds.Find(x) == ds.Find(y) }

// Size returns the number of elements in the disjoint-set.
func (ds *DisjointSet) Size() int64 { return int64(len(ds.parent)) }

// Components walks every element and assigns a dense component id on
// first sight of its root, per spec §4.4.3 "Final components are emitted
// by walking every node and assigning a dense component id on first
// sight of its root." Not safe to call concurrently with Union.
func (ds *DisjointSet) Components() []int64 {
	n := ds.Size()
	ids := make([]int64, n)
	rootToID := make(map[int64]int64)
	var next int64
	for i := int64(0); i < n; i++ {
		root := ds.Find(i)
		id, ok := rootToID[root]
		if !ok {
			id = next
			rootToID[root] = id
			next++
		}
		ids[i] = id
	}
	return ids
}

// ComponentCount returns the number of distinct components currently in
// the set. Equivalent to len(Components())'s distinct values but avoids
// building the output slice when the caller only needs the count.
func (ds *DisjointSet) ComponentCount() int64 {
	roots := make(map[int64]struct{})
	for i := int64(0); i < ds.Size(); i++ {
		roots[ds.Find(i)] = struct{}{}
	}
	return int64(len(roots))
}
