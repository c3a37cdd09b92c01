package bootstrap

import (
	"context"
	"fmt"

	"gomediate/domain/core"

	"golang.org/x/sync/errgroup"
)

// iteration is the outcome of one bootstrap iteration
type iteration struct {
	value    float64
	excluded bool
}

// task computes iteration i
type task func(ctx context.Context, i int) (float64, error)

// runIterations executes iterations 0..n-1 on at most workers goroutines and
// returns their outcomes indexed by iteration, independent of completion
// order. Recoverable failures mark the iteration as excluded. The first
// fatal failure stops dispatch; iterations already running are allowed to
// finish before the error is returned.
func runIterations(ctx context.Context, n, workers int, fn task) ([]iteration, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	results := make([]iteration, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	dispatched := 0
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		dispatched++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := fn(gctx, i)
			switch {
			case err == nil:
				results[i] = iteration{value: v}
			case core.IsRecoverable(err):
				results[i] = iteration{excluded: true}
			default:
				return fmt.Errorf("iteration %d: %w", i, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if dispatched < n {
		return nil, fmt.Errorf("dispatched %d of %d iterations: %w", dispatched, n, context.Cause(gctx))
	}
	return results, nil
}

// collect splits outcomes into the retained values, in iteration order, and
// the number of excluded iterations
func collect(outcomes []iteration) ([]float64, int) {
	values := make([]float64, 0, len(outcomes))
	excluded := 0
	for _, o := range outcomes {
		if o.excluded {
			excluded++
			continue
		}
		values = append(values, o.value)
	}
	return values, excluded
}
