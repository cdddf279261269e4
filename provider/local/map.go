package local

import (
	"sync"
	"time"
)

type mapEntry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

// Map is an in-process Backend over a plain map with lazy TTL expiry.
type Map struct {
	mu  sync.RWMutex
	m   map[string]mapEntry
	now func() time.Time
}

var _ Backend = (*Map)(nil)

func NewMap() *Map { return &Map{m: make(map[string]mapEntry), now: time.Now} }

// NewMemory returns a ready provider backed by NewMap.
func NewMemory() *Store { return New(NewMap()) }

func (b *Map) Get(key string) ([]byte, bool, error) {
	b.mu.RLock()
	e, ok := b.m[key]
	b.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && b.now().After(e.exp) {
		b.mu.Lock()
		if cur, ok := b.m[key]; ok && !cur.exp.IsZero() && b.now().After(cur.exp) {
			delete(b.m, key)
		}
		b.mu.Unlock()
		return nil, false, nil
	}
	return e.v, true, nil
}

func (b *Map) Set(key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = b.now().Add(ttl)
	}
	b.mu.Lock()
	b.m[key] = mapEntry{v: value, exp: exp}
	b.mu.Unlock()
	return nil
}

func (b *Map) Reset() error {
	b.mu.Lock()
	b.m = make(map[string]mapEntry)
	b.mu.Unlock()
	return nil
}

func (b *Map) Close() error { return nil }
