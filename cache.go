package histcache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/unkn0wn-root/histcache/codec"
	"github.com/unkn0wn-root/histcache/counter"
	"github.com/unkn0wn-root/histcache/instrument"
	pr "github.com/unkn0wn-root/histcache/provider"
)

type cache struct {
	kv       pr.Provider
	counters counter.Store
	history  *instrument.History
	log      Logger
	hooks    Hooks
	newID    func() string
	ttl      time.Duration
	out      io.Writer
	storeOp  string

	store  instrument.Op[string]
	closed atomic.Bool
}

func newCache(ctx context.Context, opts Options) (*cache, error) {
	if opts.Provider == nil {
		return nil, ErrNilProvider
	}

	c := &cache{
		kv:  opts.Provider,
		ttl: opts.DefaultTTL,
	}

	// defaults
	c.counters = coalesce[counter.Store](opts.Counters, counter.NewKV(opts.Provider))
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.out = coalesce[io.Writer](opts.Output, os.Stdout)
	c.storeOp = coalesce(opts.StoreName, StoreOp)
	if opts.NewID != nil {
		c.newID = opts.NewID
	} else {
		c.newID = uuid.NewString
	}
	args := coalesce[codec.Args](opts.ArgsCodec, codec.Msgpack[[]any]{})
	if opts.MaxHistoryEntry > 0 {
		args = codec.Limit[[]any]{Inner: args, MaxDecode: opts.MaxHistoryEntry}
	}
	c.history = instrument.NewHistory(c.kv, args)

	// counting outermost: an attempt is counted even if recording its inputs fails
	c.store = instrument.Wrap(c.storeOp, c.rawStore,
		instrument.NewCounter(c.counters),
		c.history,
	)

	if err := c.kv.Ping(ctx); err != nil {
		return nil, fmt.Errorf("histcache: connect: %w", err)
	}
	if !opts.KeepData {
		if err := c.reset(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// reset clears the provider and the counters.
func (c *cache) reset(ctx context.Context) error {
	flushErr := c.kv.FlushDB(ctx)
	counterErr := c.counters.Reset(ctx)
	if flushErr != nil || counterErr != nil {
		return &ResetError{FlushErr: flushErr, CounterErr: counterErr}
	}
	c.hooks.Flushed()
	c.log.Info("store flushed", nil)
	return nil
}

func (c *cache) Close(ctx context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	// counters first (best effort)
	_ = c.counters.Close(ctx)
	return c.kv.Close(ctx)
}

func (c *cache) Store(ctx context.Context, value any) (string, error) {
	if c.closed.Load() {
		return "", ErrClosed
	}
	key, err := c.store(ctx, value)
	var ie *instrument.Error
	if errors.As(err, &ie) {
		c.hooks.InstrumentFailed(ie.Op, string(ie.Phase), ie.Err)
		c.log.Error("instrumentation write failed", Fields{"op": ie.Op, "phase": ie.Phase, "err": ie.Err})
	}
	if err != nil {
		return "", err
	}
	return key, nil
}

func (c *cache) rawStore(ctx context.Context, args ...any) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("histcache: store takes one value, got %d", len(args))
	}
	b, err := encodeValue(args[0])
	if err != nil {
		return "", err
	}
	key := c.newID()
	if err := c.kv.Set(ctx, key, b, c.ttl); err != nil {
		return "", err
	}
	c.log.Debug("stored value", Fields{"key": key, "bytes": len(b)})
	return key, nil
}

func (c *cache) Get(ctx context.Context, key string, fn Transform) (any, bool, error) {
	if c.closed.Load() {
		return nil, false, ErrClosed
	}
	raw, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		c.hooks.Miss(key)
		return nil, false, nil
	}
	if fn == nil {
		return raw, true, nil
	}
	v, err := fn(raw)
	if err != nil {
		return nil, false, fmt.Errorf("histcache: transform %q: %w", key, err)
	}
	return v, true, nil
}

func (c *cache) Calls(ctx context.Context, name string) (int64, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}
	return c.counters.Get(ctx, name)
}

func (c *cache) History(ctx context.Context, name string) (instrument.Log, error) {
	if c.closed.Load() {
		return instrument.Log{}, ErrClosed
	}
	l, err := c.history.Records(ctx, name)
	if err != nil {
		return instrument.Log{}, err
	}
	if !l.Aligned() {
		c.hooks.HistoryMisaligned(name, l.Inputs, l.Outputs)
		c.log.Warn("history lists differ in length", Fields{"op": name, "inputs": l.Inputs, "outputs": l.Outputs})
	}
	return l, nil
}

func (c *cache) Replay(ctx context.Context, name string) error {
	calls, err := c.Calls(ctx, name)
	if err != nil {
		return err
	}
	l, err := c.History(ctx, name)
	if err != nil {
		return err
	}
	// operations recorded without a counter report their history length
	if calls == 0 {
		calls = int64(l.Inputs)
	}
	return WriteReplay(c.out, name, calls, l)
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
