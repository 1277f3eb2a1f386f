package dyneq

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Dispatcher runs job once for every channel index in [0, n). Run must not
// return before every job has finished. Jobs for different indices touch
// disjoint state and may run concurrently.
type Dispatcher interface {
	Run(n int, job func(ch int))
}

// SerialDispatcher runs every channel on the calling goroutine.
type SerialDispatcher struct{}

// Run implements [Dispatcher].
func (SerialDispatcher) Run(n int, job func(ch int)) {
	for ch := range n {
		job(ch)
	}
}

// ParallelDispatcher splits the channels into min(n, Workers) contiguous
// slices and runs each slice on its own goroutine. Workers <= 0 uses
// GOMAXPROCS.
type ParallelDispatcher struct {
	Workers int
}

// Run implements [Dispatcher].
func (d ParallelDispatcher) Run(n int, job func(ch int)) {
	workers := d.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	jobs := min(n, workers)
	if jobs <= 1 {
		SerialDispatcher{}.Run(n, job)
		return
	}

	var g errgroup.Group
	g.SetLimit(jobs)

	for j := range jobs {
		start := n * j / jobs
		end := n * (j + 1) / jobs

		g.Go(func() error {
			for ch := start; ch < end; ch++ {
				job(ch)
			}

			return nil
		})
	}

	_ = g.Wait()
}
