package cmd

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/ascreports/report"
)

// downloadAll runs fetch for every query with at most limit downloads in
// flight and concatenates the tables in query order. The first failure
// cancels the rest.
func downloadAll[Q any](ctx context.Context, queries []Q, limit int, fetch func(context.Context, Q) (*report.Table, error)) (*report.Table, error) {
	tables := make([]*report.Table, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			table, err := fetch(ctx, q)
			if err != nil {
				return err
			}
			tables[i] = table
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &report.Table{}
	for _, t := range tables {
		merged.Append(t)
	}
	return merged, nil
}
