package maps

import (
	"context"
	"fmt"

	"fleetroute/internal/domain"
)

// DefaultTileSize bounds one call to a 10x10 block, keeping every request
// at or under the service's 100-element cap.
const DefaultTileSize = 10

// TiledMatrixBuilder assembles full NxN distance and duration matrices
// from bounded block-pair calls. Each tile's elements are offset back into
// the full grid by the tile's origin and destination indices.
type TiledMatrixBuilder struct {
	caller   MatrixCaller
	tileSize int
}

// NewTiledMatrixBuilder wraps caller. A non-positive tileSize falls back
// to DefaultTileSize.
func NewTiledMatrixBuilder(caller MatrixCaller, tileSize int) *TiledMatrixBuilder {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	return &TiledMatrixBuilder{caller: caller, tileSize: tileSize}
}

// BuildFull fetches every tile pair and assembles complete matrices over
// locations. Non-routable elements get domain.UnreachableCost so the
// optimizer avoids them without special-casing; diagonal cells stay zero
// no matter what the service reports for them.
func (b *TiledMatrixBuilder) BuildFull(ctx context.Context, locations []string) (*domain.MatrixSet, error) {
	set := domain.NewMatrixSet(locations)
	n := len(locations)
	if n == 0 {
		return set, nil
	}

	for i0 := 0; i0 < n; i0 += b.tileSize {
		i1 := min(i0+b.tileSize, n)
		origins := locations[i0:i1]
		for j0 := 0; j0 < n; j0 += b.tileSize {
			j1 := min(j0+b.tileSize, n)
			destinations := locations[j0:j1]

			resp, err := b.caller.DistanceMatrix(ctx, origins, destinations)
			if err != nil {
				return nil, fmt.Errorf("matrix tile at (%d,%d): %w", i0, j0, err)
			}
			if len(resp.Rows) != len(origins) {
				return nil, fmt.Errorf("matrix tile at (%d,%d): got %d rows, want %d", i0, j0, len(resp.Rows), len(origins))
			}
			for oi, row := range resp.Rows {
				if len(row.Elements) != len(destinations) {
					return nil, fmt.Errorf("matrix tile at (%d,%d): row %d has %d elements, want %d", i0, j0, oi, len(row.Elements), len(destinations))
				}
				for dj, el := range row.Elements {
					i, j := i0+oi, j0+dj
					switch {
					case i == j:
						// zero by construction
					case el.Status == ElementStatusOK:
						set.Distances[i][j] = el.Distance.Value
						set.Durations[i][j] = el.Duration.Value
					default:
						set.Distances[i][j] = domain.UnreachableCost
						set.Durations[i][j] = domain.UnreachableCost
					}
				}
			}
		}
	}
	return set, nil
}
