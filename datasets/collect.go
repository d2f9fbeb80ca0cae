package datasets

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// CollectOptions configures Collect.
type CollectOptions struct {
	// Workers bounds the number of concurrent reads. If zero, NumCPU is used.
	Workers int
	// OnItem, if set, is called once per item after it has been read. It may
	// be called from several goroutines.
	OnItem func()
}

// Collect reads every item of d. Reads run on a bounded pool, but the result
// keeps the order of d. The first failing read cancels the remaining ones.
func Collect[T any](ctx context.Context, d Dataset[T], opts CollectOptions) ([]T, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := make([]T, d.Len())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range d.Len() {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := d.Get(i)
			if err != nil {
				return err
			}
			out[i] = v
			if opts.OnItem != nil {
				opts.OnItem()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
