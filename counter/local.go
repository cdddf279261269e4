package counter

import (
	"context"
	"sync"
)

// Local keeps counters in-process.
type Local struct {
	mu     sync.RWMutex
	counts map[string]int64
}

var _ Store = (*Local)(nil)

func NewLocal() *Local {
	return &Local{counts: make(map[string]int64)}
}

func (s *Local) Get(_ context.Context, name string) (int64, error) {
	s.mu.RLock()
	n := s.counts[name]
	s.mu.RUnlock()
	return n, nil
}

// GetMany acquires the read lock once and reads all requested names.
func (s *Local) GetMany(_ context.Context, names []string) (map[string]int64, error) {
	out := make(map[string]int64, len(names))
	s.mu.RLock()
	for _, name := range names {
		out[name] = s.counts[name] // zero value if missing
	}
	s.mu.RUnlock()
	return out, nil
}

func (s *Local) Incr(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	s.counts[name]++
	n := s.counts[name]
	s.mu.Unlock()
	return n, nil
}

func (s *Local) Reset(context.Context) error {
	s.mu.Lock()
	s.counts = make(map[string]int64)
	s.mu.Unlock()
	return nil
}

func (s *Local) Close(context.Context) error { return nil }
