package core

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Executor fans a batch of independent tasks out to a bounded number of
// goroutines and joins them all before returning. The simulation hands one
// batch per checkerboard phase to Run, relying on the join as the phase
// barrier.
type Executor struct {
	workers int
}

// NewExecutor returns an executor running at most workers tasks at once.
// A value below 1 selects runtime.NumCPU. NewExecutor(1) executes tasks
// inline in submission order, which keeps tests deterministic.
func NewExecutor(workers int) *Executor {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Executor{workers: workers}
}

// Workers reports the configured parallelism.
func (e *Executor) Workers() int { return e.workers }

// Run executes every task and returns once the last one has finished.
func (e *Executor) Run(tasks []func()) {
	if len(tasks) == 0 {
		return
	}
	if e.workers == 1 || len(tasks) == 1 {
		for _, task := range tasks {
			task()
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(e.workers)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			task()
			return nil
		})
	}
	// Tasks never return errors; Wait is purely the join point.
	_ = g.Wait()
}
