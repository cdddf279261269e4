// Package local implements provider.Provider semantics (string values,
// counters, lists) on top of any in-process byte store.
//
// Entries are framed with a kind tag so that list and string operations on
// the same key fail with provider.ErrWrongType the way Redis does.
package local

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/unkn0wn-root/histcache/internal/wire"
	pr "github.com/unkn0wn-root/histcache/provider"
)

// Backend is a raw byte store. Get must return a miss as (nil, false, nil).
type Backend interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte, ttl time.Duration) error
	Reset() error
	Close() error
}

// Store adapts a Backend to provider.Provider.
// Read-modify-write operations (Incr, RPush) are serialized by a mutex.
type Store struct {
	mu sync.Mutex
	b  Backend
}

var _ pr.Provider = (*Store)(nil)

func New(b Backend) *Store { return &Store{b: b} }

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, ok, err := s.b.Get(key)
	if err != nil || !ok {
		return nil, false, err
	}
	payload, err := wire.DecodeString(raw)
	if err != nil {
		if k, kerr := wire.Kind(raw); kerr == nil && k == wire.KindList {
			return nil, false, pr.ErrWrongType
		}
		return nil, false, err
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return s.b.Set(key, wire.EncodeString(value), ttl)
}

func (s *Store) MSet(ctx context.Context, pairs map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range pairs {
		if err := s.Set(ctx, k, v, 0); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	var n int64
	if ok {
		n, err = strconv.ParseInt(string(cur), 10, 64)
		if err != nil {
			return 0, pr.ErrNotInteger
		}
	}
	n++
	if err := s.b.Set(key, wire.EncodeString([]byte(strconv.FormatInt(n, 10))), 0); err != nil {
		return 0, err
	}
	return n, nil
}

// RPush rewrites the whole list on every append, so recording n entries under
// one key costs O(n^2) bytes. Use the Redis provider for long histories.
func (s *Store) RPush(_ context.Context, key string, values ...[]byte) (int64, error) {
	if len(values) == 0 {
		return 0, errors.New("local: rpush requires at least one value")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.list(key)
	if err != nil {
		return 0, err
	}
	items = append(items, values...)
	if err := s.b.Set(key, wire.EncodeList(items), 0); err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

func (s *Store) LRange(_ context.Context, key string, start, stop int64) ([][]byte, error) {
	items, err := s.list(key)
	if err != nil {
		return nil, err
	}
	lo, hi, ok := clampRange(start, stop, int64(len(items)))
	if !ok {
		return [][]byte{}, nil
	}
	out := make([][]byte, 0, hi-lo+1)
	for _, it := range items[lo : hi+1] {
		cp := make([]byte, len(it))
		copy(cp, it)
		out = append(out, cp)
	}
	return out, nil
}

func (s *Store) FlushDB(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Reset()
}

func (s *Store) Close(context.Context) error { return s.b.Close() }

// list decodes the list at key; missing => empty.
func (s *Store) list(key string) ([][]byte, error) {
	raw, ok, err := s.b.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	k, err := wire.Kind(raw)
	if err != nil {
		return nil, err
	}
	if k != wire.KindList {
		return nil, pr.ErrWrongType
	}
	items, err := wire.DecodeList(raw)
	if err != nil {
		return nil, fmt.Errorf("local: list %q: %w", key, err)
	}
	return items, nil
}

// clampRange maps Redis-style inclusive indexes onto [0, n).
func clampRange(start, stop, n int64) (lo, hi int64, ok bool) {
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop {
		return 0, 0, false
	}
	return start, stop, true
}
