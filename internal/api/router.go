package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fleetroute/internal/api/handlers"
	"fleetroute/internal/platform/metrics"
	"fleetroute/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	repo ports.PlaceRepository,
	geocoder ports.Geocoder,
	provider ports.MatrixProvider,
	maxParallel int,
) http.Handler {
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	placeHandler := &handlers.PlaceHandler{Repo: repo}
	planHandler := &handlers.PlanHandler{
		Repo:        repo,
		Geocoder:    geocoder,
		Provider:    provider,
		MaxParallel: maxParallel,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/depots", placeHandler.ListDepots)
	mux.HandleFunc("/deliveries", placeHandler.ListDeliveries)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return loggingMiddleware(mux)
}
