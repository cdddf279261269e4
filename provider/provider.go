// Package provider defines the key-value store abstraction used by histcache.
//
// A Provider behaves like a small Redis subset: string values, decimal
// counters and append-only lists, all addressed by string keys. Implementations
// MUST be byte-for-byte transparent for string values: Get returns exactly the
// bytes previously passed to Set.
//
// The keyspaces "<op>:inputs" and "<op>:outputs" and the bare operation names
// are used by histcache instrumentation for history lists and counters.
package provider

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrWrongType is returned when a list operation hits a string key or vice versa.
	ErrWrongType = errors.New("provider: operation against a key holding the wrong kind of value")
	// ErrNotInteger is returned by Incr when the stored value is not a decimal integer.
	ErrNotInteger = errors.New("provider: value is not an integer or out of range")
)

// Provider is a minimal key-value store with counters and lists.
// Must be safe for concurrent use.
type Provider interface {
	// Ping checks connectivity.
	Ping(ctx context.Context) error

	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL; ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// MSet stores several values without expiry.
	MSet(ctx context.Context, pairs map[string][]byte) error

	// Incr increments the decimal integer at key (missing => 0) and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)

	// RPush appends values to the list at key and returns the new length.
	RPush(ctx context.Context, key string, values ...[]byte) (int64, error)

	// LRange returns list elements between start and stop inclusive.
	// Negative indexes count from the end (-1 is the last element).
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)

	// FlushDB removes every key.
	FlushDB(ctx context.Context) error

	// Close releases resources.
	Close(ctx context.Context) error
}
