// Package concurrency implements the scheduling, partitioning,
// termination, and lock-free data structures shared by every algorithm
// (§5): a worker pool scoped by a per-call concurrency value, range
// partitioning, a cooperatively-checked termination flag, a wait-free
// atomic disjoint-set, and huge (slice-backed) arrays reused across iterations.
package concurrency

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// RunCheckNodeCount is the cadence (in nodes processed) at which
// iterative kernels must poll the TerminationFlag (spec §5, §9).
const RunCheckNodeCount = 1024

// Pool bounds concurrent work to at most `concurrency` goroutines for the
// duration of a single algorithm call, built on errgroup.Group (first
// error cancels the group's context) and semaphore.Weighted (bounds
// in-flight goroutines without a fixed worker-goroutine lifecycle).
// This is the Go analogue of the spec's process-wide worker pool: rather
// than a long-lived thread pool, each InstallWithConcurrency call creates
// a scoped errgroup whose concurrency is capped by the semaphore, which
// composes cleanly with context cancellation for termination (§5's
// "unwind by returning an error from every worker, not by panic").
type Pool struct {
	concurrency int64
}

// InstallWithConcurrency binds the pool size for the enclosed closure,
// mirroring `install_with_concurrency(c, fn)`. fn receives a *Group
// scoped to at most `concurrency` concurrently-running tasks.
func InstallWithConcurrency(ctx context.Context, concurrency int, fn func(ctx context.Context, g *Group) error) error {
	if concurrency < 1 {
		concurrency = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	group := &Group{
		eg:  g,
		sem: semaphore.NewWeighted(int64(concurrency)),
	}
	if err := fn(gctx, group); err != nil {
		return err
	}
	return g.Wait()
}

// Group schedules bounded-concurrency tasks within one
// InstallWithConcurrency call.
type Group struct {
	eg  *errgroup.Group
	sem *semaphore.Weighted
}

// Go schedules fn to run once a concurrency slot is free. The acquire
// itself also respects ctx cancellation, so a cancelled context (including
// the group's own, cancelled when any task returns an error) stops
// queued-but-not-yet-running tasks from starting at all. A TerminationFlag
// does not cancel the context; tasks observe it by polling IsStopped.
func (g *Group) Go(ctx context.Context, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if err := g.sem.Acquire(ctx, 1); err != nil {
			return err
		}
		defer g.sem.Release(1)
		return fn(ctx)
	})
}

// Wait blocks until every scheduled task completes, returning the first
// error (if any).
func (g *Group) Wait() error { return g.eg.Wait() }
