package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.Maps.DailyCallLimit != 950 {
		t.Errorf("daily call limit = %d, want 950", cfg.Maps.DailyCallLimit)
	}
	if got := cfg.Maps.MinCallInterval(); got != 200*time.Millisecond {
		t.Errorf("min call interval = %v, want 200ms", got)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("cache backend = %q, want file", cfg.Cache.Backend)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	body := `
port: "9090"
maps:
  daily_call_limit: 10
  tile_size: 5
  offline: true
cache:
  backend: redis
  redis_addr: "redis:6379"
planner:
  max_parallel_vehicles: 2
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.Maps.DailyCallLimit != 10 || cfg.Maps.TileSize != 5 || !cfg.Maps.Offline {
		t.Errorf("maps knobs not applied: %+v", cfg.Maps)
	}
	// Untouched keys keep their defaults.
	if cfg.Maps.MinCallIntervalMS != 200 {
		t.Errorf("min_call_interval_ms = %d, want default 200", cfg.Maps.MinCallIntervalMS)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("cache knobs not applied: %+v", cfg.Cache)
	}
	if cfg.Planner.MaxParallelVehicles != 2 {
		t.Errorf("max_parallel_vehicles = %d", cfg.Planner.MaxParallelVehicles)
	}
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte("port: \"9090\"\nmaps:\n  daily_call_limit: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PORT", "7070")
	t.Setenv("MAX_API_REQUESTS_PER_DAY", "25")
	t.Setenv("USE_REAL_API", "0")
	t.Setenv("FORCE_REFRESH", "1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "7070" {
		t.Errorf("port = %q, want env value 7070", cfg.Port)
	}
	if cfg.Maps.DailyCallLimit != 25 {
		t.Errorf("daily call limit = %d, want env value 25", cfg.Maps.DailyCallLimit)
	}
	if !cfg.Maps.Offline {
		t.Error("USE_REAL_API=0 should force offline mode")
	}
	if !cfg.Maps.ForceRefresh {
		t.Error("FORCE_REFRESH=1 should force refresh mode")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte("port: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for malformed yaml")
	}
}

func TestGetFallback(t *testing.T) {
	t.Setenv("FLEETROUTE_TEST_KEY", "")
	if got := Get("FLEETROUTE_TEST_KEY", "fb"); got != "fb" {
		t.Errorf("empty env: got %q, want fallback", got)
	}

	t.Setenv("FLEETROUTE_TEST_KEY", "set")
	if got := Get("FLEETROUTE_TEST_KEY", "fb"); got != "set" {
		t.Errorf("set env: got %q", got)
	}
}
