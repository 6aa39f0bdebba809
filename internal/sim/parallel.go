package sim

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/pulsesim/internal/metrics"
)

// workers look at the group context this often
const cancelCheckInterval = 1024

// Partition splits [0, count) into workers contiguous ranges of count/workers
// trials each; the last range absorbs the remainder.
func Partition(count, workers int) []Range {
	if count <= 0 || workers <= 0 {
		return nil
	}
	if workers > count {
		workers = count
	}

	chunk := count / workers
	ranges := make([]Range, workers)

	start := 0
	for w := 0; w < workers; w++ {
		end := start + chunk
		if w == workers-1 {
			end = count
		}
		ranges[w] = Range{Start: start, End: end}
		start = end
	}
	return ranges
}

// Run executes fn count times and returns the results in slot order. Slot i
// is written only by the worker whose range contains i.
func Run[T any](ctx context.Context, count int, opts Options, fn TrialFunc[T]) ([]T, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	if fn == nil {
		return nil, ErrNoTrial
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]T, count)
	if count == 0 {
		return results, nil
	}

	log := opts.logger()
	ranges := Partition(count, opts.workers(count))
	log.Debug("batch started",
		"kind", opts.Name,
		"trials", count,
		"workers", len(ranges),
		"seeded", opts.Seeded,
	)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	for w, r := range ranges {
		rng := opts.rng(w)
		g.Go(func() error {
			for i := r.Start; i < r.End; i++ {
				if (i-r.Start)%cancelCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}

				v, err := fn(rng)
				if err != nil {
					return &TrialError{Index: i, Wrapped: err}
				}
				results[i] = v
			}
			return nil
		})
	}

	err := g.Wait()
	elapsed := time.Since(start)
	metrics.ObserveBatch(opts.Name, count, elapsed, err)

	if err != nil {
		log.Debug("batch aborted", "kind", opts.Name, "error", err)
		return nil, err
	}

	log.Debug("batch finished",
		"kind", opts.Name,
		"trials", count,
		"elapsed", elapsed,
	)
	return results, nil
}
