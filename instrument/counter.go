package instrument

import (
	"context"

	"github.com/unkn0wn-root/histcache/counter"
)

// Counter increments a per-operation counter before every call,
// including calls that go on to fail.
type Counter struct {
	store counter.Store
}

var _ Instrument = (*Counter)(nil)

func NewCounter(s counter.Store) *Counter { return &Counter{store: s} }

func (c *Counter) Before(ctx context.Context, name string, _ []any) error {
	_, err := c.store.Incr(ctx, name)
	return err
}

func (c *Counter) After(context.Context, string, []any, any, error) error { return nil }

// Count returns how many times name has been invoked.
func (c *Counter) Count(ctx context.Context, name string) (int64, error) {
	return c.store.Get(ctx, name)
}
