package services

import (
	"context"
	"errors"
	"testing"

	"fleetroute/internal/adapters/maps"
	"fleetroute/internal/domain"
)

func fleetGeocoder() *maps.MockGeocoder {
	return &maps.MockGeocoder{Coords: map[string]domain.Coordinates{
		"D1": {Lat: 0, Lon: 0},
		"D2": {Lat: 0, Lon: 1},
		"A":  {Lat: 0, Lon: 0.01},
		"B":  {Lat: 0, Lon: 0.02},
		"C":  {Lat: 0, Lon: 0.99},
		"E":  {Lat: 0, Lon: 0.98},
	}}
}

func symmetricTourSet(depot, first, second string) *domain.MatrixSet {
	locations := []string{depot, first, second}
	durations := [][]int{
		{0, 100, 200},
		{100, 0, 100},
		{200, 100, 0},
	}
	return matrixSet(locations, scale(durations, 10), durations)
}

func TestPlanFleetTwoVehicles(t *testing.T) {
	provider := &maps.MockMatrixProvider{
		Sets: map[string]*domain.MatrixSet{
			maps.MockKey([]string{"D1", "A", "B"}): symmetricTourSet("D1", "A", "B"),
			maps.MockKey([]string{"D2", "C", "E"}): symmetricTourSet("D2", "C", "E"),
		},
	}

	req := PlanFleetRequest{
		Depots: []domain.Place{
			{Name: "North", Address: "D1"},
			{Name: "South", Address: "D2"},
		},
		Deliveries: []domain.Place{
			{Address: "C"},
			{Address: "A"},
			{Address: "E"},
			{Address: "B"},
		},
	}

	plan, err := PlanFleet(context.Background(), req, fleetGeocoder(), provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", plan.Failures)
	}
	if len(plan.Routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(plan.Routes))
	}

	v0 := plan.Routes[0]
	if v0.Vehicle != 0 || v0.Depot != "D1" {
		t.Fatalf("route 0 = vehicle %d depot %s, want vehicle 0 depot D1", v0.Vehicle, v0.Depot)
	}
	if len(v0.Stops) != 2 || v0.Stops[0] != "A" || v0.Stops[1] != "B" {
		t.Fatalf("vehicle 0 stops = %v, want [A B]", v0.Stops)
	}

	v1 := plan.Routes[1]
	if len(v1.Stops) != 2 || v1.Stops[0] != "C" || v1.Stops[1] != "E" {
		t.Fatalf("vehicle 1 stops = %v, want [C E]", v1.Stops)
	}

	if v0.DurationSeconds != 400 || v0.DistanceMeters != 4000 {
		t.Fatalf("vehicle 0 totals = %d m / %d s, want 4000/400", v0.DistanceMeters, v0.DurationSeconds)
	}
	if plan.TotalDurationSeconds != 800 || plan.TotalDistanceMeters != 8000 {
		t.Fatalf("plan totals = %d m / %d s, want 8000/800", plan.TotalDistanceMeters, plan.TotalDurationSeconds)
	}

	seen := map[string]int{}
	for _, r := range plan.Routes {
		for _, s := range r.Stops {
			seen[s]++
		}
	}
	for _, want := range []string{"A", "B", "C", "E"} {
		if seen[want] != 1 {
			t.Fatalf("stop %q routed %d times", want, seen[want])
		}
	}
}

func TestPlanFleetReportsFailedVehicle(t *testing.T) {
	// Only vehicle 0's matrices are available; vehicle 1 must fail
	// without sinking the rest of the fleet.
	provider := &maps.MockMatrixProvider{
		Sets: map[string]*domain.MatrixSet{
			maps.MockKey([]string{"D1", "A", "B"}): symmetricTourSet("D1", "A", "B"),
		},
	}

	req := PlanFleetRequest{
		Depots: []domain.Place{
			{Address: "D1"},
			{Address: "D2"},
		},
		Deliveries: []domain.Place{
			{Address: "A"},
			{Address: "B"},
			{Address: "C"},
			{Address: "E"},
		},
	}

	plan, err := PlanFleet(context.Background(), req, fleetGeocoder(), provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Routes) != 1 || plan.Routes[0].Vehicle != 0 {
		t.Fatalf("expected only vehicle 0 route, got %+v", plan.Routes)
	}
	if len(plan.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(plan.Failures))
	}

	failure := plan.Failures[0]
	if failure.Vehicle != 1 || failure.Depot != "D2" {
		t.Fatalf("failure = vehicle %d depot %s, want vehicle 1 depot D2", failure.Vehicle, failure.Depot)
	}
	var unavailable *domain.MatrixUnavailableError
	if !errors.As(failure.Err, &unavailable) {
		t.Fatalf("failure error = %v, want MatrixUnavailableError", failure.Err)
	}

	if plan.TotalDurationSeconds != 400 {
		t.Fatalf("plan duration = %d, want only vehicle 0's 400", plan.TotalDurationSeconds)
	}
}

func TestPlanFleetGeocodeFailureAborts(t *testing.T) {
	geocoder := &maps.MockGeocoder{Coords: map[string]domain.Coordinates{
		"D1": {Lat: 0, Lon: 0},
	}}
	provider := &maps.MockMatrixProvider{}

	req := PlanFleetRequest{
		Depots:     []domain.Place{{Address: "D1"}},
		Deliveries: []domain.Place{{Address: "nowhere at all"}},
	}

	_, err := PlanFleet(context.Background(), req, geocoder, provider)
	if err == nil {
		t.Fatal("expected geocode failure")
	}
	var geoErr *domain.GeocodeError
	if !errors.As(err, &geoErr) {
		t.Fatalf("error = %v, want GeocodeError", err)
	}
	if geoErr.Address != "nowhere at all" {
		t.Fatalf("failed address = %q, want %q", geoErr.Address, "nowhere at all")
	}
	if provider.Calls() != 0 {
		t.Fatalf("provider called %d times after geocode failure", provider.Calls())
	}
}

func TestPlanFleetNoDeliveries(t *testing.T) {
	provider := &maps.MockMatrixProvider{}

	req := PlanFleetRequest{
		Depots: []domain.Place{{Address: "D1"}},
	}

	plan, err := PlanFleet(context.Background(), req, fleetGeocoder(), provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Routes) != 1 || len(plan.Routes[0].Stops) != 0 {
		t.Fatalf("expected one empty route, got %+v", plan.Routes)
	}
	if plan.TotalDistanceMeters != 0 || plan.TotalDurationSeconds != 0 {
		t.Fatalf("expected zero totals, got %d m / %d s", plan.TotalDistanceMeters, plan.TotalDurationSeconds)
	}
	if provider.Calls() != 0 {
		t.Fatalf("provider called %d times with no deliveries", provider.Calls())
	}
}

func TestPlanFleetDeduplicatesDeliveries(t *testing.T) {
	provider := &maps.MockMatrixProvider{
		Sets: map[string]*domain.MatrixSet{
			maps.MockKey([]string{"D1", "A", "B"}): symmetricTourSet("D1", "A", "B"),
		},
	}

	req := PlanFleetRequest{
		Depots: []domain.Place{{Address: "D1"}},
		Deliveries: []domain.Place{
			{Address: "A"},
			{Address: "A"},
			{Address: "B"},
		},
	}

	plan, err := PlanFleet(context.Background(), req, fleetGeocoder(), provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Routes) != 1 {
		t.Fatalf("expected 1 route, got %d", len(plan.Routes))
	}
	stops := plan.Routes[0].Stops
	if len(stops) != 2 || stops[0] != "A" || stops[1] != "B" {
		t.Fatalf("stops = %v, want [A B]", stops)
	}
}
