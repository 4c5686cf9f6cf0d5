package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fleetroute/internal/domain"
	"fleetroute/internal/ports"
)

const defaultMaxConcurrent = 5

type vehicleResult struct {
	vehicle int
	route   *domain.VehicleRoute
	err     error
}

type PlanFleetRequest struct {
	Depots     []domain.Place
	Deliveries []domain.Place

	// MaxConcurrent caps simultaneous per-vehicle tour optimizations.
	// Zero means the default.
	MaxConcurrent int
}

// PlanFleet runs the full pipeline: geocode every address, split the
// stops across vehicles, then optimize each vehicle's tour.
//
// Vehicles optimize concurrently; each reads only its own depot and stop
// subset, so a failed vehicle does not sink the others. Failed vehicles
// are reported in FleetPlan.Failures rather than silently omitted.
func PlanFleet(
	ctx context.Context,
	req PlanFleetRequest,
	geocoder ports.Geocoder,
	provider ports.MatrixProvider,
) (*domain.FleetPlan, error) {
	if len(req.Depots) == 0 {
		return nil, errors.New("plan fleet: depot list must not be empty")
	}

	addresses := make([]string, 0, len(req.Depots)+len(req.Deliveries))
	for _, p := range req.Depots {
		a := strings.TrimSpace(p.Address)
		if a == "" {
			return nil, errors.New("plan fleet: depot address must be non-empty")
		}
		addresses = append(addresses, a)
	}
	for _, p := range req.Deliveries {
		a := strings.TrimSpace(p.Address)
		if a == "" {
			return nil, errors.New("plan fleet: delivery address must be non-empty")
		}
		addresses = append(addresses, a)
	}

	// Any unresolvable address aborts the run. Dropping a stop silently
	// would corrupt fleet coverage.
	coords, err := geocoder.ResolveAll(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("plan fleet: resolve addresses: %w", err)
	}

	depots := make([]domain.Location, len(req.Depots))
	for i, p := range req.Depots {
		a := strings.TrimSpace(p.Address)
		depots[i] = domain.Location{Address: a, Coord: coords[a]}
	}

	seen := map[string]struct{}{}
	stops := make([]domain.Location, 0, len(req.Deliveries))
	for _, p := range req.Deliveries {
		a := strings.TrimSpace(p.Address)
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		stops = append(stops, domain.Location{Address: a, Coord: coords[a]})
	}

	assigned, err := AssignStops(depots, stops)
	if err != nil {
		return nil, fmt.Errorf("plan fleet: assign stops: %w", err)
	}

	vehicles := make([]*domain.Vehicle, len(depots))
	for i := range depots {
		stopAddrs := make([]string, len(assigned[i]))
		for k, s := range assigned[i] {
			stopAddrs[k] = s.Address
		}
		vehicles[i] = &domain.Vehicle{Index: i, Depot: depots[i], Stops: stopAddrs}
	}

	maxConcurrent := req.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}

	sem := make(chan struct{}, maxConcurrent)
	resultsCh := make(chan vehicleResult, len(vehicles))
	var wg sync.WaitGroup

	for _, v := range vehicles {
		wg.Add(1)
		go func(v *domain.Vehicle) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			ordered, meters, seconds, err := ReorderTour(ctx, provider, v.Depot.Address, v.Stops)
			if err != nil {
				resultsCh <- vehicleResult{
					vehicle: v.Index,
					err:     fmt.Errorf("optimize vehicle %d: %w", v.Index, err),
				}
				return
			}
			resultsCh <- vehicleResult{
				vehicle: v.Index,
				route: &domain.VehicleRoute{
					Vehicle:         v.Index,
					Depot:           v.Depot.Address,
					Stops:           ordered,
					DistanceMeters:  meters,
					DurationSeconds: seconds,
				},
			}
		}(v)
	}

	wg.Wait()
	close(resultsCh)

	byVehicle := make(map[int]vehicleResult, len(vehicles))
	for res := range resultsCh {
		byVehicle[res.vehicle] = res
	}

	plan := &domain.FleetPlan{Routes: make([]domain.VehicleRoute, 0, len(vehicles))}
	for _, v := range vehicles {
		res := byVehicle[v.Index]
		if res.err != nil {
			plan.Failures = append(plan.Failures, domain.VehicleFailure{
				Vehicle: v.Index,
				Depot:   v.Depot.Address,
				Err:     res.err,
			})
			continue
		}
		plan.Routes = append(plan.Routes, *res.route)
		plan.TotalDistanceMeters += res.route.DistanceMeters
		plan.TotalDurationSeconds += res.route.DurationSeconds
	}

	return plan, nil
}
