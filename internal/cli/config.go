package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/probkit/probkit/pkg/trace"
)

// =============================================================================
// Run Configuration
// =============================================================================

// Config is the TOML run configuration accepted by `probkit sample --config`.
//
// Example:
//
//	[run]
//	iterations = 10000
//	burn = 1000
//	thin = 2
//	seed = 42
//	scale = 1.0
//
//	[trace]
//	backend = "file"
//	path = "chain.jsonl"
type Config struct {
	Run   RunConfig   `toml:"run"`
	Trace TraceConfig `toml:"trace"`
}

// RunConfig holds chain settings.
type RunConfig struct {
	Iterations int     `toml:"iterations"`
	Burn       int     `toml:"burn"`
	Thin       int     `toml:"thin"`
	Seed       int64   `toml:"seed"`
	Scale      float64 `toml:"scale"`
}

// TraceConfig selects and configures the trace backend.
type TraceConfig struct {
	// Backend is one of "memory", "none", "file", "redis", "mongo".
	Backend string `toml:"backend"`

	// Path is the JSONL file path for the file backend.
	Path string `toml:"path"`

	// Redis settings.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`

	// Mongo settings.
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Run: RunConfig{
			Iterations: 10000,
			Burn:       1000,
			Thin:       1,
			Seed:       42,
			Scale:      1.0,
		},
		Trace: TraceConfig{
			Backend: "memory",
		},
	}
}

// LoadConfig reads a TOML config file over the defaults. Keys absent from
// the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// openStore builds the trace store named by the config.
func openStore(cfg TraceConfig) (trace.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return trace.NewMemoryStore(), nil
	case "none":
		return trace.NewNullStore(), nil
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file backend requires trace.path")
		}
		return trace.NewFileStore(cfg.Path)
	case "redis":
		rc := trace.DefaultRedisConfig()
		if cfg.RedisAddr != "" {
			rc.Addr = cfg.RedisAddr
		}
		rc.Password = cfg.RedisPassword
		rc.DB = cfg.RedisDB
		if cfg.RedisPrefix != "" {
			rc.Prefix = cfg.RedisPrefix
		}
		return trace.NewRedisStore(rc)
	case "mongo":
		mc := trace.DefaultMongoConfig()
		if cfg.MongoURI != "" {
			mc.URI = cfg.MongoURI
		}
		if cfg.MongoDatabase != "" {
			mc.Database = cfg.MongoDatabase
		}
		if cfg.MongoCollection != "" {
			mc.Collection = cfg.MongoCollection
		}
		return trace.NewMongoStore(context.Background(), mc)
	}
	return nil, fmt.Errorf("unknown trace backend %q", cfg.Backend)
}
