package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/histcache"
	"github.com/unkn0wn-root/histcache/codec"
	"github.com/unkn0wn-root/histcache/docstore"
	asynchook "github.com/unkn0wn-root/histcache/hooks/async"
	logruslog "github.com/unkn0wn-root/histcache/log/logrus"
	zaplog "github.com/unkn0wn-root/histcache/log/zap"
	pr "github.com/unkn0wn-root/histcache/provider"
	"github.com/unkn0wn-root/histcache/provider/bigcache"
	"github.com/unkn0wn-root/histcache/provider/local"
	"github.com/unkn0wn-root/histcache/provider/redis"
	"github.com/unkn0wn-root/histcache/provider/ristretto"
	"github.com/unkn0wn-root/histcache/sloghooks"
)

// RootOptions holds global flags and the resolved configuration.
type RootOptions struct {
	ConfigPath string
	Redis      string // overrides redis.addr
	Backend    string // overrides backend
	Verbose    bool
	Flush      bool

	Config Config

	// Set by tests; nil means build from Config.
	Provider   pr.Provider
	Collection docstore.Collection
	NewID      func() string

	logger histcache.Logger
	sync   func() error
}

// NewRootCommand creates the root command for the histcache CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "histcache",
		Short: "Key-value cache with call counting and replayable history",
		Long: `histcache stores values under generated identifiers, counts every store
call and keeps a replayable record of its inputs and outputs.

It also lists and inserts documents in a MongoDB collection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.sync != nil {
				_ = opts.sync()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Redis, "redis", "", "redis address (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "key-value backend (redis|memory|bigcache|ristretto)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&opts.Flush, "flush", false, "clear all stored data and counters before running")

	cmd.AddCommand(NewStoreCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewCallsCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewDemoCommand(opts))
	cmd.AddCommand(NewDocsCommand(opts))

	return cmd
}

func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := LoadConfig(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Redis != "" {
		cfg.Redis.Addr = o.Redis
	}
	if o.Backend != "" {
		cfg.Backend = o.Backend
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	o.Config = cfg

	if err := o.buildLogger(cmd); err != nil {
		return WrapExitError(ExitCommandError, "failed to build logger", err)
	}
	return nil
}

// buildLogger writes to stderr: zap JSON by default, logrus text when log.format is text.
func (o *RootOptions) buildLogger(cmd *cobra.Command) error {
	if o.Config.Log.Format == "text" {
		lvl, err := logrus.ParseLevel(o.Config.Log.Level)
		if err != nil {
			return err
		}
		l := logrus.New()
		l.SetOutput(cmd.ErrOrStderr())
		l.SetLevel(lvl)
		o.logger = logruslog.New(l)
		o.sync = nil
		return nil
	}

	lvl, err := zap.ParseAtomicLevel(o.Config.Log.Level)
	if err != nil {
		return err
	}
	zc := zap.NewProductionConfig()
	if lvl.Level() == zap.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = lvl
	l, err := zc.Build()
	if err != nil {
		return err
	}
	o.logger = zaplog.New(l)
	o.sync = l.Sync
	return nil
}

// openProvider builds the key-value provider named by the configuration.
func (o *RootOptions) openProvider() (pr.Provider, error) {
	if o.Provider != nil {
		return o.Provider, nil
	}
	switch o.Config.Backend {
	case "redis":
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     o.Config.Redis.Addr,
			DB:       o.Config.Redis.DB,
			Password: o.Config.Redis.Password,
		})
		return redis.New(redis.Config{Client: rdb, CloseClient: true})
	case "memory":
		return local.NewMemory(), nil
	case "bigcache":
		return bigcache.New(bigcache.Config{LifeWindow: 24 * time.Hour, MaxEntriesInWindow: 4096, MaxEntrySize: 256})
	case "ristretto":
		return ristretto.New(ristretto.Config{NumCounters: 1e5, MaxCost: 64 << 20, BufferItems: 64})
	default:
		return nil, fmt.Errorf("unknown backend %q", o.Config.Backend)
	}
}

// openCache returns a ready cache. Existing data is kept unless --flush is set.
func (o *RootOptions) openCache(ctx context.Context, cmd *cobra.Command) (histcache.Cache, error) {
	p, err := o.openProvider()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open provider", err)
	}
	args, err := codec.ByName(o.Config.History.Codec)
	if err != nil {
		_ = p.Close(ctx)
		return nil, WrapExitError(ExitCommandError, "invalid history codec", err)
	}
	opts := histcache.Options{
		Provider:  p,
		ArgsCodec: args,
		NewID:     o.NewID,
		Output:    cmd.OutOrStdout(),
		KeepData:  !o.Flush,
		Logger:    o.logger,

		MaxHistoryEntry: o.Config.History.MaxEntry,
	}
	var hooks *asynchook.Hooks
	if o.Verbose {
		sl := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
		hooks = asynchook.New(sloghooks.New(sl, sloghooks.Options{}), 1, 64)
		opts.Hooks = hooks
	}
	c, err := histcache.New(ctx, opts)
	if err != nil {
		if hooks != nil {
			hooks.Close()
		}
		_ = p.Close(ctx)
		return nil, WrapExitError(ExitCommandError, "failed to connect", err)
	}
	return &hookedCache{Cache: c, hooks: hooks}, nil
}

// hookedCache drains pending hook events once the cache is closed.
type hookedCache struct {
	histcache.Cache
	hooks *asynchook.Hooks
}

func (c *hookedCache) Close(ctx context.Context) error {
	err := c.Cache.Close(ctx)
	if c.hooks != nil {
		c.hooks.Close()
	}
	return err
}

// openCollection returns the configured collection and a release func.
func (o *RootOptions) openCollection(ctx context.Context) (docstore.Collection, func(context.Context) error, error) {
	if o.Collection != nil {
		return o.Collection, func(context.Context) error { return nil }, nil
	}
	st, err := docstore.Open(ctx, docstore.Config{
		URI:        o.Config.Mongo.URI,
		Database:   o.Config.Mongo.Database,
		Collection: o.Config.Mongo.Collection,
	})
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open document store", err)
	}
	return st.Collection(), st.Close, nil
}
