package ports

import (
	"context"
	"fleetroute/internal/domain"
)

// GeocodeCache persists address → coordinate mappings across runs.
// Implementations are safe for concurrent readers; writes replace whole
// entries atomically.
type GeocodeCache interface {
	// Fetch cached coordinates; absent addresses are simply missing from
	// the returned map.
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	// Store address → coordinate mappings.
	PutMany(ctx context.Context, coords map[string]domain.Coordinates) error
}

// MatrixCache persists whole matrix records keyed by the request hash of
// the exact ordered address list. Records are replaced wholesale, never
// patched per cell.
type MatrixCache interface {
	// Get returns the record for key, reporting whether one was found.
	Get(ctx context.Context, key string) (*domain.MatrixSet, bool, error)
	// Put stores or replaces the record for key.
	Put(ctx context.Context, key string, set *domain.MatrixSet) error
}
