package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/histcache"
	"github.com/unkn0wn-root/histcache/provider/local"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestOptions() *RootOptions {
	return &RootOptions{
		Provider: local.NewMemory(),
		NewID:    seqIDs(),
	}
}

func run(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func assertGolden(t *testing.T, name string, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "histcache", cmd.Use)

	for _, name := range []string{"store", "get", "calls", "replay", "demo", "docs"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"config", "redis", "backend", "verbose", "flush"} {
		require.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %s", name)
	}
	assert.Equal(t, "v", cmd.PersistentFlags().Lookup("verbose").Shorthand)
	assert.Equal(t, "false", cmd.PersistentFlags().Lookup("flush").DefValue)
}

func TestStoreAndGet(t *testing.T) {
	opts := newTestOptions()

	out, err := run(t, opts, "store", "hello")
	require.NoError(t, err)
	assert.Equal(t, "id-1\n", out)

	out, err = run(t, opts, "store", "42", "--type", "int")
	require.NoError(t, err)
	assert.Equal(t, "id-2\n", out)

	out, err = run(t, opts, "get", "id-1", "--as", "str")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)

	out, err = run(t, opts, "get", "id-1")
	require.NoError(t, err)
	assert.Equal(t, "\"hello\"\n", out)

	out, err = run(t, opts, "get", "id-2", "--as", "int")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestStoreRejectsBadValue(t *testing.T) {
	_, err := run(t, newTestOptions(), "store", "forty", "--type", "int")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = run(t, newTestOptions(), "store", "x", "--type", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid type")
}

func TestGetMissingKey(t *testing.T) {
	_, err := run(t, newTestOptions(), "get", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "not found")
}

func TestCallsAndFlush(t *testing.T) {
	opts := newTestOptions()
	for _, v := range []string{"a", "b"} {
		_, err := run(t, opts, "store", v)
		require.NoError(t, err)
	}

	out, err := run(t, opts, "calls")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = run(t, opts, "calls", "--flush")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	_, err = run(t, opts, "get", "id-1")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestReplayGolden(t *testing.T) {
	opts := newTestOptions()
	_, err := run(t, opts, "store", "foo")
	require.NoError(t, err)
	_, err = run(t, opts, "store", "42", "--type", "int")
	require.NoError(t, err)
	_, err = run(t, opts, "store", "bar")
	require.NoError(t, err)

	out, err := run(t, opts, "replay")
	require.NoError(t, err)
	assertGolden(t, "replay_store", out)
}

func TestReplayWithJSONHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "histcache.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: memory\nhistory:\n  codec: json\n"), 0o600))

	opts := newTestOptions()
	_, err := run(t, opts, "--config", path, "store", "foo")
	require.NoError(t, err)
	_, err = run(t, opts, "--config", path, "store", "42", "--type", "int")
	require.NoError(t, err)
	_, err = run(t, opts, "--config", path, "store", "bar")
	require.NoError(t, err)

	out, err := run(t, opts, "--config", path, "replay", histcache.StoreOp)
	require.NoError(t, err)
	assertGolden(t, "replay_store", out)
}

func TestReplayUnknownOperation(t *testing.T) {
	out, err := run(t, newTestOptions(), "replay", "Other.op")
	require.NoError(t, err)
	assert.Equal(t, "Other.op was called 0 times:\n", out)
}

func TestDemoDefaults(t *testing.T) {
	out, err := run(t, newTestOptions(), "demo")
	require.NoError(t, err)
	assertGolden(t, "demo_default", out)
}

func TestDemoOnInProcessBackends(t *testing.T) {
	for _, backend := range []string{"memory", "bigcache", "ristretto"} {
		t.Run(backend, func(t *testing.T) {
			opts := &RootOptions{NewID: seqIDs()}
			out, err := run(t, opts, "--backend", backend, "demo", "x", "7")
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(out), "\n")
			require.Len(t, lines, 3)
			assert.Equal(t, "Cache.store was called 2 times:", lines[0])
			assert.Equal(t, `Cache.store(*("x")) -> id-1`, lines[1])
			assert.Equal(t, `Cache.store(*(7)) -> id-2`, lines[2])
		})
	}
}

func TestInvalidBackend(t *testing.T) {
	_, err := run(t, &RootOptions{}, "--backend", "etcd", "calls")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid backend")
}

func TestInvalidHistoryCodec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "histcache.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history:\n  codec: xml\n"), 0o600))

	_, err := run(t, newTestOptions(), "--config", path, "calls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid history codec")
}

func TestOpenCacheKeepsDataByDefault(t *testing.T) {
	opts := newTestOptions()
	ctx := context.Background()
	require.NoError(t, opts.Provider.Set(ctx, "pre", []byte("x"), 0))

	_, err := run(t, opts, "calls")
	require.NoError(t, err)

	_, ok, err := opts.Provider.Get(ctx, "pre")
	require.NoError(t, err)
	assert.True(t, ok)
}

// lockedBuffer is written to by the hook worker and the command concurrently.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestVerboseTextLoggingAndHooks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "histcache.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  format: text\n"), 0o600))

	var stdout bytes.Buffer
	var stderr lockedBuffer
	cmd := newRootCommand(newTestOptions())
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--config", path, "-v", "--flush", "get", "nope"})
	err := cmd.Execute()

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Empty(t, stdout.String())

	logs := stderr.String()
	assert.Contains(t, logs, `msg="store flushed"`)
	assert.Contains(t, logs, "component=histcache")
	assert.Contains(t, logs, "msg=histcache.flushed")
	assert.Contains(t, logs, "msg=histcache.miss")
	assert.NotContains(t, logs, "key=nope", "miss keys are redacted")
}

func TestInvalidLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "histcache.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  format: xml\n"), 0o600))

	_, err := run(t, newTestOptions(), "--config", path, "calls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
}

func TestReplayBinaryAndWideIntegers(t *testing.T) {
	opts := newTestOptions()
	_, err := run(t, opts, "store", "hi", "--type", "bytes")
	require.NoError(t, err)
	_, err = run(t, opts, "store", "9223372036854775807", "--type", "int")
	require.NoError(t, err)

	out, err := run(t, opts, "replay")
	require.NoError(t, err)
	assert.Equal(t, "Cache.store was called 2 times:\n"+
		"Cache.store(*(\"hi\")) -> id-1\n"+
		"Cache.store(*(9223372036854775807)) -> id-2\n", out)
}

func TestHistoryMaxEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "histcache.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history:\n  max_entry: 16\n"), 0o600))

	opts := newTestOptions()
	_, err := run(t, opts, "--config", path, "store", strings.Repeat("x", 64))
	require.NoError(t, err)

	out, err := run(t, opts, "--config", path, "replay")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache.store(*<undecodable ")
	assert.True(t, strings.HasSuffix(out, "-> id-1\n"), out)
}
