package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pr "github.com/unkn0wn-root/histcache/provider"
)

var ErrNilClient = errors.New("redis provider: nil client")

// Client captures the subset of the go-redis client used by the provider.
// *goredis.Client and goredis.UniversalClient satisfy it.
type Client interface {
	Ping(ctx context.Context) *goredis.StatusCmd
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	MSet(ctx context.Context, values ...interface{}) *goredis.StatusCmd
	Incr(ctx context.Context, key string) *goredis.IntCmd
	RPush(ctx context.Context, key string, values ...interface{}) *goredis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *goredis.StringSliceCmd
	FlushDB(ctx context.Context) *goredis.StatusCmd
	Close() error
}

type Redis struct {
	rdb         Client
	closeClient bool
}

var _ pr.Provider = (*Redis)(nil)

type Config struct {
	Client      Client
	CloseClient bool // set true only if this provider exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

func (p *Redis) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

func (p *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, mapErr(err) // transport/server error
	}
	return b, true, nil
}

func (p *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 0 // treat non-positive TTLs as "no expiry" per provider contract
	}
	return p.rdb.Set(ctx, key, value, ttl).Err()
}

func (p *Redis) MSet(ctx context.Context, pairs map[string][]byte) error {
	if len(pairs) == 0 {
		return nil
	}
	m := make(map[string]interface{}, len(pairs))
	for k, v := range pairs {
		m[k] = v
	}
	return p.rdb.MSet(ctx, m).Err()
}

func (p *Redis) Incr(ctx context.Context, key string) (int64, error) {
	n, err := p.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

func (p *Redis) RPush(ctx context.Context, key string, values ...[]byte) (int64, error) {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	n, err := p.rdb.RPush(ctx, key, args...).Result()
	if err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

func (p *Redis) LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	vals, err := p.rdb.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, mapErr(err)
	}
	out := make([][]byte, len(vals))
	for i, v := range vals {
		out[i] = []byte(v)
	}
	return out, nil
}

func (p *Redis) FlushDB(ctx context.Context) error {
	return p.rdb.FlushDB(ctx).Err()
}

// Close releases the underlying redis client only when this provider owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (p *Redis) Close(context.Context) error {
	if p.closeClient {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

// mapErr translates Redis reply errors into provider sentinels.
func mapErr(err error) error {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "WRONGTYPE"):
		return fmt.Errorf("%w: %v", pr.ErrWrongType, err)
	case strings.Contains(msg, "not an integer"):
		return fmt.Errorf("%w: %v", pr.ErrNotInteger, err)
	default:
		return err
	}
}
