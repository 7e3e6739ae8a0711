// Package fanout runs a batch of independent tasks concurrently and joins them.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// JoinAll runs fn for every index in [0, n) concurrently and waits for all of
// them to return. A failing task does not cancel the others: every task runs
// to completion. On success the results are returned in index order; otherwise
// the first error observed is returned and the results are discarded.
func JoinAll[T any](ctx context.Context, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	if n == 0 {
		return results, nil
	}

	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			r, err := fn(ctx, i)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
