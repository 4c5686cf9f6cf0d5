package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"fleetroute/internal/api/dto"
	"fleetroute/internal/domain"
	"fleetroute/internal/maplink"
	"fleetroute/internal/platform/metrics"
	"fleetroute/internal/ports"
	"fleetroute/internal/services"
)

type PlanHandler struct {
	Repo     ports.PlaceRepository
	Geocoder ports.Geocoder
	Provider ports.MatrixProvider

	// MaxParallel is the default per-request vehicle concurrency when the
	// request does not set one.
	MaxParallel int
}

// Plan runs one full fleet optimization: geocode, assign, per-vehicle tour
// reorder. Depots and deliveries omitted from the request fall back to the
// repository listings.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if err := validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	depots, err := h.places(r, req.Depots, h.Repo.ListDepots)
	if err != nil {
		log.Printf("load depots failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if len(depots) == 0 {
		writeError(w, r, http.StatusBadRequest, "at least one depot is required")
		return
	}

	deliveries, err := h.places(r, req.Deliveries, h.Repo.ListDeliveries)
	if err != nil {
		log.Printf("load deliveries failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	maxParallel := req.MaxParallel
	if maxParallel == 0 {
		maxParallel = h.MaxParallel
	}

	svcReq := services.PlanFleetRequest{
		Depots:        depots,
		Deliveries:    deliveries,
		MaxConcurrent: maxParallel,
	}

	plan, err := services.PlanFleet(r.Context(), svcReq, h.Geocoder, h.Provider)
	if err != nil {
		writePlanError(w, r, err)
		return
	}

	// A plan where every vehicle failed on matrix availability is a
	// service outage, not a result.
	if len(plan.Routes) == 0 && matrixUnavailable(plan.Failures) {
		writeError(w, r, http.StatusServiceUnavailable, plan.Failures[0].Err.Error())
		return
	}

	metrics.PlansComputed.Inc()
	writeJSON(w, r, http.StatusOK, planResponse(plan))
}

// places prefers the request body, falling back to the repository when the
// body names none.
func (h *PlanHandler) places(
	r *http.Request,
	reqPlaces []dto.PlaceRequest,
	fetch func(ctx context.Context) ([]domain.Place, error),
) ([]domain.Place, error) {
	if len(reqPlaces) > 0 {
		out := make([]domain.Place, 0, len(reqPlaces))
		for _, p := range reqPlaces {
			out = append(out, domain.Place{Name: p.Name, Address: p.Address})
		}
		return out, nil
	}
	return fetch(r.Context())
}

func writePlanError(w http.ResponseWriter, r *http.Request, err error) {
	var geoErr *domain.GeocodeError
	if errors.As(err, &geoErr) {
		writeError(w, r, http.StatusUnprocessableEntity, geoErr.Error())
		return
	}

	var matrixErr *domain.MatrixUnavailableError
	if errors.As(err, &matrixErr) {
		writeError(w, r, http.StatusServiceUnavailable, matrixErr.Error())
		return
	}

	log.Printf("plan fleet failed: %v", err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func matrixUnavailable(failures []domain.VehicleFailure) bool {
	for _, f := range failures {
		var matrixErr *domain.MatrixUnavailableError
		if errors.As(f.Err, &matrixErr) {
			return true
		}
	}
	return false
}

func planResponse(plan *domain.FleetPlan) dto.PlanResponse {
	res := dto.PlanResponse{
		Routes:               make([]dto.RouteResponse, 0, len(plan.Routes)),
		TotalDistanceMeters:  plan.TotalDistanceMeters,
		TotalDurationSeconds: plan.TotalDurationSeconds,
	}

	for _, rt := range plan.Routes {
		res.Routes = append(res.Routes, dto.RouteResponse{
			Vehicle:              rt.Vehicle,
			Depot:                rt.Depot,
			Stops:                rt.Stops,
			TotalDistanceMeters:  rt.DistanceMeters,
			TotalDurationSeconds: rt.DurationSeconds,
			MapURL:               maplink.RouteURL(rt.Depot, rt.Stops),
		})
	}
	for _, f := range plan.Failures {
		res.Failures = append(res.Failures, dto.FailureResponse{
			Vehicle: f.Vehicle,
			Depot:   f.Depot,
			Error:   f.Err.Error(),
		})
	}

	return res
}
