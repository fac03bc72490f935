package feed

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel lookups when the caller passes zero.
const DefaultConcurrency = 8

// Result is the outcome of one lookup. Record is nil when Err is set.
type Result struct {
	Record *Record
	Err    error
}

// Fetch looks up each distinct id in ids with at most concurrency lookups in
// flight. A failed lookup is recorded in its Result and does not cancel the
// others. onDone, if non-nil, is called once per id as lookups finish; calls
// are serialised.
//
// The returned error is non-nil only when ctx ends before all lookups finish.
func Fetch(ctx context.Context, f Feed, ids []string, concurrency int, onDone func(id string, r Result)) (map[string]Result, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var (
		mu      sync.Mutex
		results = make(map[string]Result, len(ids))
	)

	var g errgroup.Group
	g.SetLimit(concurrency)

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec, err := f.Lookup(ctx, id)
			r := Result{Record: rec, Err: err}
			if err != nil {
				r.Record = nil
			}

			mu.Lock()
			defer mu.Unlock()
			results[id] = r
			if onDone != nil {
				onDone(id, r)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
