package services

import (
	"context"
	"testing"

	"fleetroute/internal/adapters/maps"
	"fleetroute/internal/domain"
)

func matrixSet(locations []string, distances, durations [][]int) *domain.MatrixSet {
	return &domain.MatrixSet{Locations: locations, Distances: distances, Durations: durations}
}

func scale(m [][]int, factor int) [][]int {
	out := make([][]int, len(m))
	for i, row := range m {
		out[i] = make([]int, len(row))
		for j, v := range row {
			out[i][j] = v * factor
		}
	}
	return out
}

func TestReorderTourShortestRoundTrip(t *testing.T) {
	locations := []string{"D", "A", "B", "C"}
	durations := [][]int{
		{0, 10, 20, 5},
		{12, 0, 8, 7},
		{20, 9, 0, 26},
		{6, 6, 25, 0},
	}
	distances := scale(durations, 10)

	provider := &maps.MockMatrixProvider{
		Sets: map[string]*domain.MatrixSet{
			maps.MockKey(locations): matrixSet(locations, distances, durations),
		},
	}

	ordered, meters, seconds, err := ReorderTour(context.Background(), provider, "D", []string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ordered) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(ordered))
	}
	if ordered[0] != "C" || ordered[1] != "A" || ordered[2] != "B" {
		t.Fatalf("order = %v, want [C A B]", ordered)
	}
	// D->C->A->B->D
	if seconds != 5+6+8+20 {
		t.Fatalf("duration = %d, want %d", seconds, 5+6+8+20)
	}
	if meters != 50+60+80+200 {
		t.Fatalf("distance = %d, want %d", meters, 50+60+80+200)
	}
}

func TestReorderTourImprovesOnNearestNeighbor(t *testing.T) {
	locations := []string{"D", "A", "B", "C"}
	// Nearest neighbor walks D->A->B->C->D for 124s; reversing [A,B]
	// yields D->B->A->C->D for 46s.
	durations := [][]int{
		{0, 10, 12, 50},
		{10, 0, 5, 20},
		{12, 5, 0, 100},
		{9, 20, 100, 0},
	}
	distances := scale(durations, 10)

	provider := &maps.MockMatrixProvider{
		Sets: map[string]*domain.MatrixSet{
			maps.MockKey(locations): matrixSet(locations, distances, durations),
		},
	}

	ordered, meters, seconds, err := ReorderTour(context.Background(), provider, "D", []string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ordered[0] != "B" || ordered[1] != "A" || ordered[2] != "C" {
		t.Fatalf("order = %v, want [B A C]", ordered)
	}
	if seconds != 46 {
		t.Fatalf("duration = %d, want 46", seconds)
	}
	if seconds > 124 {
		t.Fatalf("two-opt result %d worse than nearest-neighbor 124", seconds)
	}
	if meters != 460 {
		t.Fatalf("distance = %d, want 460", meters)
	}
}

func TestReorderTourAvoidsUnreachableLeg(t *testing.T) {
	locations := []string{"D", "A", "B"}
	durations := [][]int{
		{0, 10, 10},
		{10, 0, domain.UnreachableCost},
		{10, 5, 0},
	}
	distances := [][]int{
		{0, 100, 100},
		{100, 0, domain.UnreachableCost},
		{100, 50, 0},
	}

	provider := &maps.MockMatrixProvider{
		Sets: map[string]*domain.MatrixSet{
			maps.MockKey(locations): matrixSet(locations, distances, durations),
		},
	}

	ordered, meters, seconds, err := ReorderTour(context.Background(), provider, "D", []string{"A", "B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A->B is priced unreachable; B->A is fine, so the tour must visit B first.
	if ordered[0] != "B" || ordered[1] != "A" {
		t.Fatalf("order = %v, want [B A]", ordered)
	}
	if seconds != 25 {
		t.Fatalf("duration = %d, want 25", seconds)
	}
	if meters != 250 {
		t.Fatalf("distance = %d, want 250", meters)
	}
}

func TestReorderTourZeroStopsSkipsProvider(t *testing.T) {
	provider := &maps.MockMatrixProvider{}

	ordered, meters, seconds, err := ReorderTour(context.Background(), provider, "D", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ordered) != 0 || meters != 0 || seconds != 0 {
		t.Fatalf("expected empty zero-cost tour, got %v %d %d", ordered, meters, seconds)
	}
	if provider.Calls() != 0 {
		t.Fatalf("provider called %d times for an empty tour", provider.Calls())
	}
}

func TestReorderTourEmptyDepotAddress(t *testing.T) {
	provider := &maps.MockMatrixProvider{}
	if _, _, _, err := ReorderTour(context.Background(), provider, "", []string{"A"}); err == nil {
		t.Fatal("expected error for empty depot address")
	}
}

func TestReorderTourSingleStop(t *testing.T) {
	locations := []string{"D", "A"}
	durations := [][]int{
		{0, 30},
		{40, 0},
	}
	distances := [][]int{
		{0, 300},
		{500, 0},
	}

	provider := &maps.MockMatrixProvider{
		Sets: map[string]*domain.MatrixSet{
			maps.MockKey(locations): matrixSet(locations, distances, durations),
		},
	}

	ordered, meters, seconds, err := ReorderTour(context.Background(), provider, "D", []string{"A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ordered) != 1 || ordered[0] != "A" {
		t.Fatalf("order = %v, want [A]", ordered)
	}
	if seconds != 70 {
		t.Fatalf("duration = %d, want 70", seconds)
	}
	if meters != 800 {
		t.Fatalf("distance = %d, want 800", meters)
	}
}
