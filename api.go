package histcache

import (
	"context"
	"io"
	"time"

	"github.com/unkn0wn-root/histcache/codec"
	"github.com/unkn0wn-root/histcache/counter"
	"github.com/unkn0wn-root/histcache/instrument"
	pr "github.com/unkn0wn-root/histcache/provider"
)

// StoreOp is the qualified name Store is counted and recorded under.
const StoreOp = "Cache.store"

// Cache stores values under generated identifiers and keeps a replayable
// record of its Store calls.
type Cache interface {
	// Store writes value under a fresh identifier and returns it.
	// Supported values: string, []byte, signed/unsigned integers, float32/float64.
	Store(ctx context.Context, value any) (string, error)

	// Get returns the raw bytes at key, or fn(raw) when fn is non-nil.
	// A missing key is (nil, false, nil).
	Get(ctx context.Context, key string, fn Transform) (any, bool, error)

	// Calls returns the call counter for an operation.
	Calls(ctx context.Context, name string) (int64, error)

	// History returns the recorded calls of an operation in call order.
	History(ctx context.Context, name string) (instrument.Log, error)

	// Replay prints the call count and one line per recorded call to Options.Output.
	Replay(ctx context.Context, name string) error

	Close(ctx context.Context) error
}

// Options configure the cache.
// Only Provider is required; others have sensible defaults.
type Options struct {
	// Required
	Provider pr.Provider

	Counters   counter.Store // nil => counters kept in Provider
	ArgsCodec  codec.Args    // nil => msgpack
	Logger     Logger        // nil => NopLogger
	Hooks      Hooks         // nil => NopHooks
	NewID      func() string // nil => random UUIDv4
	DefaultTTL time.Duration // 0 => values never expire
	Output     io.Writer     // Replay destination; nil => os.Stdout
	KeepData   bool          // default false => New flushes the provider
	StoreName  string        // "" => StoreOp

	// MaxHistoryEntry caps the size of a recorded input History decodes;
	// larger entries replay as undecodable. 0 => no limit.
	MaxHistoryEntry int
}

// New connects to the provider and returns a ready cache.
// Unless KeepData is set, all prior data in the provider is removed.
func New(ctx context.Context, opts Options) (Cache, error) {
	return newCache(ctx, opts)
}
