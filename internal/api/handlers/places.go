package handlers

import (
	"context"
	"log"
	"net/http"

	"fleetroute/internal/api/dto"
	"fleetroute/internal/domain"
	"fleetroute/internal/ports"
)

// PlaceHandler exposes read-only depot and delivery listing endpoints.
type PlaceHandler struct {
	Repo ports.PlaceRepository
}

func (h *PlaceHandler) ListDepots(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "depots", h.Repo.ListDepots)
}

func (h *PlaceHandler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "deliveries", h.Repo.ListDeliveries)
}

func (h *PlaceHandler) list(
	w http.ResponseWriter,
	r *http.Request,
	kind string,
	fetch func(ctx context.Context) ([]domain.Place, error),
) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	places, err := fetch(r.Context())
	if err != nil {
		log.Printf("list %s failed: %v", kind, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListPlacesResponse{
		Places: make([]dto.PlaceResponse, 0, len(places)),
	}
	for _, p := range places {
		res.Places = append(res.Places, dto.PlaceResponse{
			Name:    p.Name,
			Address: p.Address,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
