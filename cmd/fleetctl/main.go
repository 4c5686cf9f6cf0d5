// fleetctl runs one fleet optimization from CSV inputs and prints the
// per-vehicle routes, the daily batch flow this engine grew out of.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"fleetroute/internal/adapters/cache"
	"fleetroute/internal/adapters/maps"
	"fleetroute/internal/config"
	"fleetroute/internal/domain"
	"fleetroute/internal/maplink"
	"fleetroute/internal/ports"
	"fleetroute/internal/services"
)

func main() {
	depotsPath := flag.String("depots", "data/input/depots.csv", "depot CSV (name,address), one vehicle per row")
	deliveriesPath := flag.String("deliveries", "data/input/deliveries.csv", "delivery CSV (name,address)")
	configPath := flag.String("config", "config.yaml", "engine config file")
	noCache := flag.Bool("no-cache", false, "recompute matrices even when a cached record exists")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *noCache {
		cfg.Maps.ForceRefresh = true
	}

	depots, err := loadPlaces(*depotsPath)
	if err != nil {
		log.Fatal(err)
	}
	deliveries, err := loadPlaces(*deliveriesPath)
	if err != nil {
		log.Fatal(err)
	}

	geocoder, provider, err := buildEngine(cfg)
	if err != nil {
		log.Fatal(err)
	}

	plan, err := services.PlanFleet(context.Background(), services.PlanFleetRequest{
		Depots:        depots,
		Deliveries:    deliveries,
		MaxConcurrent: cfg.Planner.MaxParallelVehicles,
	}, geocoder, provider)
	if err != nil {
		log.Fatal(err)
	}

	printPlan(depots, plan)

	if len(plan.Failures) > 0 {
		os.Exit(1)
	}
}

// loadPlaces reads a name,address CSV. Header casing does not matter, rows
// without an address are skipped, and a missing name falls back to Stop_N.
func loadPlaces(path string) ([]domain.Place, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load places: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("load places %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("load places %s: file is empty", path)
	}

	nameCol, addrCol := -1, -1
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name":
			nameCol = i
		case "address":
			addrCol = i
		}
	}
	if addrCol == -1 {
		return nil, fmt.Errorf("load places %s: no address column", path)
	}

	places := make([]domain.Place, 0, len(records)-1)
	for _, rec := range records[1:] {
		if addrCol >= len(rec) {
			continue
		}
		addr := strings.TrimSpace(rec[addrCol])
		if addr == "" {
			continue
		}

		name := ""
		if nameCol >= 0 && nameCol < len(rec) {
			name = strings.TrimSpace(rec[nameCol])
		}
		if name == "" {
			name = fmt.Sprintf("Stop_%d", len(places)+1)
		}

		places = append(places, domain.Place{Name: name, Address: addr})
	}

	if len(places) == 0 {
		return nil, fmt.Errorf("load places %s: no addresses found, add at least 1 row", path)
	}
	return places, nil
}

// buildEngine assembles the file-cache-backed geocoder and matrix provider
// for batch runs.
func buildEngine(cfg config.Config) (ports.Geocoder, ports.MatrixProvider, error) {
	gc, err := cache.NewFileGeocodeCache(filepath.Join(cfg.Cache.Dir, "coords.json"))
	if err != nil {
		return nil, nil, err
	}
	mc, err := cache.NewFileMatrixCache(filepath.Join(cfg.Cache.Dir, "matrices"))
	if err != nil {
		return nil, nil, err
	}

	if cfg.Maps.Offline {
		return maps.NewCachedGeocoder(nil, gc, cfg.Maps.MinCallInterval()),
			maps.NewProvider(nil, mc, cfg.Maps.ForceRefresh), nil
	}

	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if strings.TrimSpace(apiKey) == "" {
		return nil, nil, errors.New("GOOGLE_MAPS_API_KEY is required (set USE_REAL_API=0 to reuse cached data offline)")
	}

	client, err := maps.NewClient(apiKey, cfg.Maps.BaseURL)
	if err != nil {
		return nil, nil, err
	}

	quota := maps.NewCallQuota(cfg.Maps.DailyCallLimit, 24*time.Hour)
	limited := maps.NewRateLimitedClient(client, quota, cfg.Maps.MinCallInterval())
	builder := maps.NewTiledMatrixBuilder(limited, cfg.Maps.TileSize)

	return maps.NewCachedGeocoder(client, gc, cfg.Maps.MinCallInterval()),
		maps.NewProvider(builder, mc, cfg.Maps.ForceRefresh), nil
}

func printPlan(depots []domain.Place, plan *domain.FleetPlan) {
	for _, rt := range plan.Routes {
		fmt.Printf("\nVehicle %d (%s):\n", rt.Vehicle+1, depots[rt.Vehicle].Name)
		for i, stop := range rt.Stops {
			fmt.Printf("  %d. %s\n", i+1, stop)
		}
		fmt.Printf("  Totals: %s, %s\n",
			maplink.FormatDistance(rt.DistanceMeters), maplink.FormatDuration(rt.DurationSeconds))
		if link := maplink.RouteURL(rt.Depot, rt.Stops); link != "" {
			fmt.Printf("  Map: %s\n", link)
		}
	}

	for _, f := range plan.Failures {
		fmt.Printf("\nVehicle %d (%s) FAILED: %v\n", f.Vehicle+1, depots[f.Vehicle].Name, f.Err)
	}

	fmt.Println("\nSummary")
	fmt.Println(strings.Repeat("=", 30))
	fmt.Printf("Vehicles:       %d\n", len(plan.Routes))
	fmt.Printf("Total distance: %s\n", maplink.FormatDistance(plan.TotalDistanceMeters))
	fmt.Printf("Total time:     %s\n", maplink.FormatDuration(plan.TotalDurationSeconds))
}
