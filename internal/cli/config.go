package cli

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration. Flags override it.
type Config struct {
	Backend string        `yaml:"backend"` // redis | memory | bigcache | ristretto
	Redis   RedisConfig   `yaml:"redis"`
	Mongo   MongoConfig   `yaml:"mongo"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	DB       int    `yaml:"db"`
	Password string `yaml:"password"`
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type HistoryConfig struct {
	Codec    string `yaml:"codec"`     // msgpack | json | cbor | proto
	MaxEntry int    `yaml:"max_entry"` // bytes; larger recorded inputs replay as undecodable. 0 = no limit
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // json (zap) | text (logrus)
}

var ValidBackends = []string{"redis", "memory", "bigcache", "ristretto"}

func DefaultConfig() Config {
	return Config{
		Backend: "redis",
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "logs",
			Collection: "nginx",
		},
		History: HistoryConfig{Codec: "msgpack"},
		Log:     LogConfig{Level: "warn", Format: "json"},
	}
}

// LoadConfig reads path over DefaultConfig. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if !contains(ValidBackends, c.Backend) {
		return fmt.Errorf("invalid backend %q: must be one of %v", c.Backend, ValidBackends)
	}
	if c.Backend == "redis" && c.Redis.Addr == "" {
		return errors.New("redis.addr is required for the redis backend")
	}
	if c.History.MaxEntry < 0 {
		return fmt.Errorf("invalid history.max_entry %d: must not be negative", c.History.MaxEntry)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log.format %q: must be json or text", c.Log.Format)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
