package pypistats

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/shakfu/pkgdb/pkg/stats"
)

// EnvSummary holds Python-version and operating-system download breakdowns
// for one or more packages.
type EnvSummary struct {
	PythonMinor []stats.Breakdown
	System      []stats.Breakdown
}

// FetchResult pairs a package name with its fetched snapshot or error.
type FetchResult struct {
	Package  string
	Snapshot stats.Snapshot
	Err      error
}

// FetchAll fetches snapshots for all packages with at most workers requests
// in flight. Per-package failures are reported in the result slice rather
// than aborting the batch; results preserve the input order. The progress
// callback, if non-nil, is invoked once per completed package.
func (c *Client) FetchAll(ctx context.Context, packages []string, workers int, refresh bool, progress func(pkg string)) []FetchResult {
	if workers <= 0 {
		workers = 1
	}

	results := make([]FetchResult, len(packages))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	for i, pkg := range packages {
		g.Go(func() error {
			snap, err := c.Fetch(ctx, pkg, refresh)
			results[i] = FetchResult{Package: pkg, Snapshot: snap, Err: err}
			if progress != nil {
				mu.Lock()
				progress(pkg)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// AggregateEnv fetches the environment breakdowns for all packages and
// folds them into combined per-category totals. Packages that fail to
// fetch are skipped; the summary covers whatever succeeded.
func (c *Client) AggregateEnv(ctx context.Context, packages []string, workers int, refresh bool) (EnvSummary, error) {
	if workers <= 0 {
		workers = 1
	}

	type envPair struct {
		python []stats.Breakdown
		system []stats.Breakdown
	}
	pairs := make([]envPair, len(packages))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, pkg := range packages {
		g.Go(func() error {
			python, err := c.PythonMinor(ctx, pkg, refresh)
			if err != nil {
				return nil
			}
			system, err := c.System(ctx, pkg, refresh)
			if err != nil {
				return nil
			}
			pairs[i] = envPair{python: python, system: system}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return EnvSummary{}, err
	}

	var pythonRows, systemRows []categoryRow
	for _, p := range pairs {
		for _, b := range p.python {
			pythonRows = append(pythonRows, categoryRow{Category: b.Category, Downloads: b.Downloads})
		}
		for _, b := range p.system {
			systemRows = append(systemRows, categoryRow{Category: b.Category, Downloads: b.Downloads})
		}
	}

	return EnvSummary{
		PythonMinor: foldCategories(pythonRows, ""),
		System:      foldCategories(systemRows, "Unknown"),
	}, nil
}
