package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"fleetroute/internal/adapters/cache"
	"fleetroute/internal/adapters/maps"
	"fleetroute/internal/adapters/repositories"
	"fleetroute/internal/api"
	"fleetroute/internal/config"
	"fleetroute/internal/platform/db"
	"fleetroute/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (mapping API, cache backend, Postgres) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal(err)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	geocodeCache, matrixCache, err := openCaches(cfg.Cache, pool)
	if err != nil {
		log.Fatal(err)
	}

	geocoder, provider, err := buildEngine(cfg.Maps, geocodeCache, matrixCache)
	if err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewPostgresPlaceRepository(pool)
	router := api.NewRouter(repo, geocoder, provider, cfg.Planner.MaxParallelVehicles)

	// Timeouts are tuned for cold-cache fleet planning (external API latency
	// plus quota waits).
	log.Printf("Server listening addr=:%s cache_backend=%s offline=%t", cfg.Port, cfg.Cache.Backend, cfg.Maps.Offline)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openCaches selects the persistence backend both engine caches run on.
func openCaches(cfg config.CacheConfig, pool *sql.DB) (ports.GeocodeCache, ports.MatrixCache, error) {
	switch cfg.Backend {
	case "file":
		gc, err := cache.NewFileGeocodeCache(filepath.Join(cfg.Dir, "coords.json"))
		if err != nil {
			return nil, nil, err
		}
		mc, err := cache.NewFileMatrixCache(filepath.Join(cfg.Dir, "matrices"))
		if err != nil {
			return nil, nil, err
		}
		return gc, mc, nil

	case "postgres":
		return cache.NewPostgresGeocodeCache(pool), cache.NewPostgresMatrixCache(pool), nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return cache.NewRedisGeocodeCache(client, cfg.RedisTTL()), cache.NewRedisMatrixCache(client, cfg.RedisTTL()), nil

	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q (want file, postgres or redis)", cfg.Backend)
	}
}

// buildEngine assembles the geocoder and the matrix provider decorator
// stack: client, call quota, pacing, tiling, then the caching provider.
// Offline mode drops the external client; cached records still serve.
func buildEngine(cfg config.MapsConfig, gc ports.GeocodeCache, mc ports.MatrixCache) (ports.Geocoder, ports.MatrixProvider, error) {
	if cfg.Offline {
		geocoder := maps.NewCachedGeocoder(nil, gc, cfg.MinCallInterval())
		provider := maps.NewProvider(nil, mc, cfg.ForceRefresh)
		return geocoder, provider, nil
	}

	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		return nil, nil, errors.New("GOOGLE_MAPS_API_KEY is required (set USE_REAL_API=0 to run offline)")
	}

	client, err := maps.NewClient(apiKey, cfg.BaseURL)
	if err != nil {
		return nil, nil, err
	}

	quota := maps.NewCallQuota(cfg.DailyCallLimit, 24*time.Hour)
	limited := maps.NewRateLimitedClient(client, quota, cfg.MinCallInterval())
	builder := maps.NewTiledMatrixBuilder(limited, cfg.TileSize)

	geocoder := maps.NewCachedGeocoder(client, gc, cfg.MinCallInterval())
	provider := maps.NewProvider(builder, mc, cfg.ForceRefresh)
	return geocoder, provider, nil
}
