package services

import (
	"errors"
	"slices"

	"fleetroute/internal/domain"
)

// AssignStops splits delivery stops across vehicles using a cheap
// great-circle heuristic.
//
// One depot gets a single nearest-successor walk. With several depots the
// pool is split in two phases: a round-robin greedy pass so no vehicle
// drains the nearby pool alone, then a rebalancing pass that re-homes
// each stop to whichever vehicle's tour end sits closest. Straight-line
// distance is deliberate at this stage; only the tour optimizer pays for
// real road times.
//
// Vehicle i departs from depots[i]. The result has one stop list per
// vehicle, possibly empty, in that same order.
func AssignStops(depots []domain.Location, stops []domain.Location) ([][]domain.Location, error) {
	if len(depots) == 0 {
		return nil, errors.New("assign stops: depot list must not be empty")
	}

	m := len(depots)
	if m == 1 {
		return [][]domain.Location{nearestSuccessorWalk(depots[0].Coord, stops)}, nil
	}

	// Phase 1: alternating turns. Each vehicle in rotation claims the
	// pool stop nearest its own current position.
	routes := make([][]domain.Location, m)
	ends := make([]domain.Coordinates, m)
	for i, d := range depots {
		ends[i] = d.Coord
	}
	pool := slices.Clone(stops)
	for turn := 0; len(pool) > 0; turn++ {
		vid := turn % m
		idx := nearestIndex(ends[vid], pool)
		stop := pool[idx]
		pool = slices.Delete(pool, idx, idx+1)
		routes[vid] = append(routes[vid], stop)
		ends[vid] = stop.Coord
	}

	// Phase 2: walk the phase-1 routes vehicle by vehicle in visiting
	// order and re-home each stop to the nearest current tour end. Ties
	// go to the lowest vehicle index.
	rebalanced := make([][]domain.Location, m)
	for i, d := range depots {
		ends[i] = d.Coord
	}
	for _, route := range routes {
		for _, stop := range route {
			chosen := 0
			best := domain.HaversineMeters(ends[0], stop.Coord)
			for v := 1; v < m; v++ {
				if d := domain.HaversineMeters(ends[v], stop.Coord); d < best {
					best = d
					chosen = v
				}
			}
			rebalanced[chosen] = append(rebalanced[chosen], stop)
			ends[chosen] = stop.Coord
		}
	}

	return rebalanced, nil
}

// nearestSuccessorWalk orders stops by repeatedly taking the pool stop
// nearest the current position, starting from start.
func nearestSuccessorWalk(start domain.Coordinates, stops []domain.Location) []domain.Location {
	pool := slices.Clone(stops)
	ordered := make([]domain.Location, 0, len(pool))
	current := start
	for len(pool) > 0 {
		idx := nearestIndex(current, pool)
		stop := pool[idx]
		pool = slices.Delete(pool, idx, idx+1)
		ordered = append(ordered, stop)
		current = stop.Coord
	}
	return ordered
}

// nearestIndex returns the first pool index at minimal great-circle
// distance from pos. Callers guarantee a non-empty pool.
func nearestIndex(pos domain.Coordinates, pool []domain.Location) int {
	best := 0
	bestDist := domain.HaversineMeters(pos, pool[0].Coord)
	for i := 1; i < len(pool); i++ {
		if d := domain.HaversineMeters(pos, pool[i].Coord); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
