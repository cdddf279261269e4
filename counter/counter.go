package counter

import "context"

// Store abstracts where per-operation call counters live.
// Use KV (default) to keep counters next to the history lists in the
// key-value provider, or Local for in-process counting.
type Store interface {
	// Get returns the current count; missing => 0.
	Get(ctx context.Context, name string) (int64, error)
	// GetMany returns counts for many names; missing => 0.
	GetMany(ctx context.Context, names []string) (map[string]int64, error)
	// Incr atomically increments and returns the new count.
	Incr(ctx context.Context, name string) (int64, error)
	// Reset drops every counter. No-op when the backing store is flushed separately.
	Reset(ctx context.Context) error
	// Close releases resources (no-op ok).
	Close(context.Context) error
}
