// Package config loads the engine knobs: defaults, then an optional YAML
// file, then environment variables. Env wins so deployments can override a
// checked-in config without editing it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Get returns the environment value for key, or fallback when the variable
// is unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type Config struct {
	Port    string        `yaml:"port"`
	Maps    MapsConfig    `yaml:"maps"`
	Cache   CacheConfig   `yaml:"cache"`
	Planner PlannerConfig `yaml:"planner"`
}

type MapsConfig struct {
	// BaseURL overrides the mapping API endpoint. Empty means the real one.
	BaseURL string `yaml:"base_url"`
	// DailyCallLimit caps matrix calls per rolling 24h window. Zero or
	// negative disables the cap.
	DailyCallLimit int `yaml:"daily_call_limit"`
	// MinCallIntervalMS spaces consecutive external calls.
	MinCallIntervalMS int `yaml:"min_call_interval_ms"`
	// TileSize is the square block edge for matrix requests. 10 keeps each
	// call at or under the 100-element limit.
	TileSize int `yaml:"tile_size"`
	// Offline disables the external client entirely; only cached data
	// serves, and a cold request fails with a typed error.
	Offline bool `yaml:"offline"`
	// ForceRefresh recomputes matrices even when a cached record exists.
	ForceRefresh bool `yaml:"force_refresh"`
}

func (m MapsConfig) MinCallInterval() time.Duration {
	return time.Duration(m.MinCallIntervalMS) * time.Millisecond
}

type CacheConfig struct {
	// Backend selects the persistence layer: file, postgres or redis.
	Backend string `yaml:"backend"`
	// Dir holds the file backend's JSON records.
	Dir string `yaml:"dir"`
	// RedisAddr is the redis backend's host:port.
	RedisAddr string `yaml:"redis_addr"`
	// RedisTTLHours expires redis entries; zero keeps them forever, which
	// matches the other backends.
	RedisTTLHours int `yaml:"redis_ttl_hours"`
}

func (c CacheConfig) RedisTTL() time.Duration {
	return time.Duration(c.RedisTTLHours) * time.Hour
}

type PlannerConfig struct {
	// MaxParallelVehicles caps concurrent per-vehicle tour optimizations.
	MaxParallelVehicles int `yaml:"max_parallel_vehicles"`
}

// Default returns the knob values the engine ships with.
func Default() Config {
	return Config{
		Port: "8080",
		Maps: MapsConfig{
			DailyCallLimit:    950,
			MinCallIntervalMS: 200,
			TileSize:          10,
		},
		Cache: CacheConfig{
			Backend:   "file",
			Dir:       "data/cache",
			RedisAddr: "localhost:6379",
		},
		Planner: PlannerConfig{
			MaxParallelVehicles: 5,
		},
	}
}

// Load reads the YAML file at path over the defaults and then applies the
// environment. A missing file is not an error; the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv layers the deployment environment on top of the file. Variable
// names follow the ones operators already export for this system.
func (c *Config) applyEnv() {
	c.Port = Get("PORT", c.Port)
	c.Cache.Backend = Get("CACHE_BACKEND", c.Cache.Backend)
	c.Cache.Dir = Get("CACHE_DIR", c.Cache.Dir)
	c.Cache.RedisAddr = Get("REDIS_ADDR", c.Cache.RedisAddr)

	if v := os.Getenv("MAX_API_REQUESTS_PER_DAY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Maps.DailyCallLimit = n
		}
	}
	// USE_REAL_API=0 is the historical switch for running without the
	// external mapping service.
	if v := os.Getenv("USE_REAL_API"); v != "" {
		c.Maps.Offline = v == "0"
	}
	if v := os.Getenv("FORCE_REFRESH"); v != "" {
		c.Maps.ForceRefresh = v == "1"
	}
}
