package ristretto

import (
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/histcache/provider/local"
)

// ErrRejected is returned when Ristretto's admission policy drops a write.
var ErrRejected = errors.New("ristretto: write rejected")

// Backend stores framed entries in Ristretto. Cost is the entry size in bytes,
// so MaxCost bounds memory.
type Backend struct {
	c *rc.Cache
}

var _ local.Backend = (*Backend)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

// New returns a provider backed by Ristretto.
func New(cfg Config) (*local.Store, error) {
	b, err := NewBackend(cfg)
	if err != nil {
		return nil, err
	}
	return local.New(b), nil
}

func NewBackend(cfg Config) (*Backend, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Backend{c: c}, nil
}

func (b *Backend) Get(key string) ([]byte, bool, error) {
	v, ok := b.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	raw, _ := v.([]byte)
	if raw == nil {
		// drop unexpected entry shape
		b.c.Del(key)
		return nil, false, nil
	}
	return raw, true, nil
}

// Set waits for the write buffer to drain so the value is visible to the next Get.
func (b *Backend) Set(key string, value []byte, ttl time.Duration) error {
	if !b.c.SetWithTTL(key, value, int64(len(value)), ttl) {
		return ErrRejected
	}
	b.c.Wait()
	return nil
}

func (b *Backend) Reset() error {
	b.c.Clear()
	return nil
}

func (b *Backend) Close() error {
	b.c.Wait()
	b.c.Close()
	return nil
}

// Metrics exposes Ristretto counters when Config.Metrics is set.
func (b *Backend) Metrics() *rc.Metrics { return b.c.Metrics }
