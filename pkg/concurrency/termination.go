package concurrency

import "sync/atomic"

// TerminationFlag is the sole cooperative-cancellation channel shared
// across every worker of one algorithm call (spec §5, §9). It must be
// checked at well-defined cadence: RunCheckNodeCount nodes, the start of
// every iteration, and before each partition dispatch.
type TerminationFlag struct {
	stopped atomic.Bool
}

func NewTerminationFlag() *TerminationFlag { return &TerminationFlag{} }

// Stop trips the flag. Idempotent.
func (f *TerminationFlag) Stop() { f.stopped.Store(true) }

func (f *TerminationFlag) IsStopped() bool { return f.stopped.Load() }

// CheckInterval reports whether iteration `i` (1-based count of items
// processed) falls on a cadence boundary worth polling the flag at, i.e.
// every RunCheckNodeCount items. Kernels use this to avoid an atomic load
// on every single item in a tight loop.
func CheckInterval(i int64) bool { return i%RunCheckNodeCount == 0 }
