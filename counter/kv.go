package counter

import (
	"context"
	"fmt"
	"strconv"

	pr "github.com/unkn0wn-root/histcache/provider"
)

// KV keeps counters in a provider under the bare operation name, so a
// counter for "Cache.store" is the integer at key "Cache.store".
type KV struct {
	p pr.Provider
}

var _ Store = (*KV)(nil)

func NewKV(p pr.Provider) *KV { return &KV{p: p} }

func (s *KV) Get(ctx context.Context, name string) (int64, error) {
	raw, ok, err := s.p.Get(ctx, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("counter %q parse: %w", name, err)
	}
	return n, nil
}

func (s *KV) GetMany(ctx context.Context, names []string) (map[string]int64, error) {
	out := make(map[string]int64, len(names))
	for _, name := range names {
		n, err := s.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		out[name] = n
	}
	return out, nil
}

func (s *KV) Incr(ctx context.Context, name string) (int64, error) {
	return s.p.Incr(ctx, name)
}

// Reset is a no-op; counters go away with the provider's FlushDB.
func (s *KV) Reset(context.Context) error { return nil }

// Close does not close the provider; its owner does.
func (s *KV) Close(context.Context) error { return nil }
