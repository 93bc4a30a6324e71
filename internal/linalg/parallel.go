package linalg

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelFor runs fn(i) for i in [0, n) across a worker pool sized to the
// machine, propagating the first error encountered. Per spec §5, this is
// reserved for the per-step linearization and per-step/per-player
// quadraticization passes, which are embarrassingly parallel over the
// time index; the LQ backward sweep itself must never be parallelized.
func ParallelFor(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}
