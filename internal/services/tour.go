package services

import (
	"context"
	"errors"
	"fmt"

	"fleetroute/internal/ports"
)

// maxTwoOptPasses bounds local-search runtime on large stop counts.
const maxTwoOptPasses = 25

// ReorderTour orders one vehicle's stops into a short round trip.
//
// The node order starts as a nearest-neighbor walk over the duration
// matrix and is then improved with 2-opt until no reversal helps or the
// pass limit hits. Both tour endpoints stay pinned to the depot. The
// returned stop list omits the final return to the depot; the totals
// still include that leg.
//
// The algorithm minimizes a heuristic cost, not a global optimum. The
// design prioritizes determinism and bounded runtime over optimality.
func ReorderTour(
	ctx context.Context,
	provider ports.MatrixProvider,
	depotAddress string,
	stopAddresses []string,
) ([]string, int, int, error) {
	if depotAddress == "" {
		return nil, 0, 0, errors.New("reorder tour: depot address must be non-empty")
	}

	if len(stopAddresses) == 0 {
		// Nothing to order, and no reason to touch the matrix service.
		return []string{}, 0, 0, nil
	}

	locations := make([]string, 0, len(stopAddresses)+1)
	locations = append(locations, depotAddress)
	locations = append(locations, stopAddresses...)

	set, err := provider.BuildMatrices(ctx, locations)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("reorder tour: build matrices: %w", err)
	}
	if set.Dim() != len(locations) {
		return nil, 0, 0, fmt.Errorf("reorder tour: matrix dimension %d does not match %d locations", set.Dim(), len(locations))
	}

	order := nearestNeighborOrder(set.Durations)
	order = twoOpt(order, set.Durations, maxTwoOptPasses)

	ordered := make([]string, 0, len(stopAddresses))
	totalDistanceMeters := 0
	totalDurationSeconds := 0
	for k := 0; k+1 < len(order); k++ {
		a, b := order[k], order[k+1]
		totalDistanceMeters += set.Distances[a][b]
		totalDurationSeconds += set.Durations[a][b]
		if b == 0 {
			// Return leg counted, depot not re-listed.
			break
		}
		ordered = append(ordered, locations[b])
	}

	return ordered, totalDistanceMeters, totalDurationSeconds, nil
}

// nearestNeighborOrder builds a closed tour [0, ..., 0] over the duration
// matrix by always driving to the cheapest unvisited node next. Ties go
// to the lowest index so the result is stable.
func nearestNeighborOrder(durations [][]int) []int {
	n := len(durations)
	if n == 0 {
		return nil
	}

	order := make([]int, 0, n+1)
	order = append(order, 0)
	visited := make([]bool, n)
	visited[0] = true
	current := 0

	for len(order) < n {
		next := -1
		for j := 1; j < n; j++ {
			if visited[j] {
				continue
			}
			if next == -1 || durations[current][j] < durations[current][next] {
				next = j
			}
		}
		order = append(order, next)
		visited[next] = true
		current = next
	}

	order = append(order, 0)
	return order
}

// twoOpt improves a closed tour in place by reversing sub-segments that
// strictly reduce total round-trip duration. Index 0 at both ends never
// moves. The delta is computed without rebuilding the tour, and it is
// exact for asymmetric matrices: reversing a segment also flips the
// direction of every leg inside it.
func twoOpt(order []int, durations [][]int, maxPasses int) []int {
	n := len(order)
	for pass := 0; pass < maxPasses; pass++ {
		improved := false
		for i := 1; i < n-2; i++ {
			for j := i + 1; j < n-1; j++ {
				if reversalDelta(order, durations, i, j) < 0 {
					reverseSegment(order, i, j)
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return order
}

// reversalDelta is the change in total duration from reversing
// order[i..j]: the two boundary legs are rewired and every interior leg
// runs in the opposite direction.
func reversalDelta(order []int, durations [][]int, i, j int) int {
	a, b := order[i-1], order[i]
	c, d := order[j], order[j+1]
	delta := durations[a][c] + durations[b][d] - durations[a][b] - durations[c][d]
	for k := i; k < j; k++ {
		delta += durations[order[k+1]][order[k]] - durations[order[k]][order[k+1]]
	}
	return delta
}

func reverseSegment(order []int, i, j int) {
	for i < j {
		order[i], order[j] = order[j], order[i]
		i++
		j--
	}
}
