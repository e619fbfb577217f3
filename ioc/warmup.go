package ioc

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Warmup eagerly resolves every explicitly registered singleton, at most
// concurrency at a time (unbounded when concurrency <= 0). It returns the
// first failure; the remaining resolutions are skipped once ctx is done.
func (c *Container) Warmup(ctx context.Context, concurrency int) error {
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for _, e := range c.table.Entries() {
		if e.Binding.Kind == KindInstance || e.Binding.Lifetime != Singleton {
			continue
		}
		key := e.Key
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := c.Resolve(key.Type, key.Key)
			return err
		})
	}
	return g.Wait()
}
