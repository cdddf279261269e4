package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// stubClient is an in-memory Client used for unit tests.
type stubClient struct {
	store  map[string]string
	lists  map[string][]string
	closed int

	pingErr error
	getErr  error
}

func newStubClient() *stubClient {
	return &stubClient{
		store: make(map[string]string),
		lists: make(map[string][]string),
	}
}

var errWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

func toString(v interface{}) string {
	switch vv := v.(type) {
	case []byte:
		return string(vv)
	case string:
		return vv
	default:
		return ""
	}
}

func (c *stubClient) Ping(ctx context.Context) *goredis.StatusCmd {
	cmd := goredis.NewStatusCmd(ctx)
	if c.pingErr != nil {
		cmd.SetErr(c.pingErr)
		return cmd
	}
	cmd.SetVal("PONG")
	return cmd
}

func (c *stubClient) Get(ctx context.Context, key string) *goredis.StringCmd {
	cmd := goredis.NewStringCmd(ctx)
	if c.getErr != nil {
		cmd.SetErr(c.getErr)
		return cmd
	}
	if _, ok := c.lists[key]; ok {
		cmd.SetErr(errWrongType)
		return cmd
	}
	if val, ok := c.store[key]; ok {
		cmd.SetVal(val)
		return cmd
	}
	cmd.SetErr(goredis.Nil)
	return cmd
}

func (c *stubClient) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *goredis.StatusCmd {
	cmd := goredis.NewStatusCmd(ctx)
	delete(c.lists, key)
	c.store[key] = toString(value)
	cmd.SetVal("OK")
	return cmd
}

func (c *stubClient) MSet(ctx context.Context, values ...interface{}) *goredis.StatusCmd {
	cmd := goredis.NewStatusCmd(ctx)
	if len(values) == 1 {
		if m, ok := values[0].(map[string]interface{}); ok {
			for k, v := range m {
				c.store[k] = toString(v)
			}
		}
	}
	cmd.SetVal("OK")
	return cmd
}

func (c *stubClient) Incr(ctx context.Context, key string) *goredis.IntCmd {
	cmd := goredis.NewIntCmd(ctx)
	current := int64(0)
	if existing, ok := c.store[key]; ok {
		parsed, err := strconv.ParseInt(existing, 10, 64)
		if err != nil {
			cmd.SetErr(errors.New("ERR value is not an integer or out of range"))
			return cmd
		}
		current = parsed
	}
	current++
	c.store[key] = strconv.FormatInt(current, 10)
	cmd.SetVal(current)
	return cmd
}

func (c *stubClient) RPush(ctx context.Context, key string, values ...interface{}) *goredis.IntCmd {
	cmd := goredis.NewIntCmd(ctx)
	if _, ok := c.store[key]; ok {
		cmd.SetErr(errWrongType)
		return cmd
	}
	for _, v := range values {
		c.lists[key] = append(c.lists[key], toString(v))
	}
	cmd.SetVal(int64(len(c.lists[key])))
	return cmd
}

func (c *stubClient) LRange(ctx context.Context, key string, start, stop int64) *goredis.StringSliceCmd {
	cmd := goredis.NewStringSliceCmd(ctx)
	l := c.lists[key]
	n := int64(len(l))
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
		cmd.SetVal([]string{})
		return cmd
	}
	cmd.SetVal(append([]string(nil), l[start:stop+1]...))
	return cmd
}

func (c *stubClient) FlushDB(ctx context.Context) *goredis.StatusCmd {
	cmd := goredis.NewStatusCmd(ctx)
	c.store = make(map[string]string)
	c.lists = make(map[string][]string)
	cmd.SetVal("OK")
	return cmd
}

func (c *stubClient) Close() error {
	c.closed++
	if c.closed > 1 {
		return goredis.ErrClosed
	}
	return nil
}
