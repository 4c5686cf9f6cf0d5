package domain

import "fmt"

// UnreachableCost marks an origin/destination pair the distance service
// reported no route for. The value is stored instead of omitting the entry
// so downstream minimization can never mistake missing data for a free leg.
const UnreachableCost = 1_000_000_000

// MatrixSet is one full distance/duration computation: the exact location
// ordering it was computed against plus both N×N matrices. Distances are
// meters, durations seconds; cell [i][j] prices the leg from Locations[i]
// to Locations[j] and diagonal cells are always zero. A MatrixSet is cached
// and replaced as a whole record, never patched per cell.
type MatrixSet struct {
	Locations []string `json:"locations"`
	Distances [][]int  `json:"distance_matrix"`
	Durations [][]int  `json:"duration_matrix"`
}

// NewMatrixSet allocates zeroed square matrices sized to the location list.
func NewMatrixSet(locations []string) *MatrixSet {
	n := len(locations)
	m := &MatrixSet{
		Locations: locations,
		Distances: make([][]int, n),
		Durations: make([][]int, n),
	}
	for i := 0; i < n; i++ {
		m.Distances[i] = make([]int, n)
		m.Durations[i] = make([]int, n)
	}
	return m
}

func (m *MatrixSet) Dim() int { return len(m.Locations) }

// Validate rejects records whose matrices do not square up with the stored
// location order. Cache backends use it to treat corrupt payloads as misses.
func (m *MatrixSet) Validate() error {
	n := len(m.Locations)
	if len(m.Distances) != n || len(m.Durations) != n {
		return fmt.Errorf("matrix set: %d locations, %d distance rows, %d duration rows", n, len(m.Distances), len(m.Durations))
	}
	for i := 0; i < n; i++ {
		if len(m.Distances[i]) != n {
			return fmt.Errorf("matrix set: distance row %d has %d cells, want %d", i, len(m.Distances[i]), n)
		}
		if len(m.Durations[i]) != n {
			return fmt.Errorf("matrix set: duration row %d has %d cells, want %d", i, len(m.Durations[i]), n)
		}
	}
	return nil
}
