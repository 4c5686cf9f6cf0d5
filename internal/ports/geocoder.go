package ports

import (
	"context"
	"fleetroute/internal/domain"
)

// Contract for resolving free-text addresses to coordinates.
type Geocoder interface {
	// Resolve returns the coordinate for one address, deterministic given a
	// warm cache. A *domain.GeocodeError means the address has no results.
	Resolve(ctx context.Context, address string) (domain.Coordinates, error)
	// ResolveAll resolves every address, failing on the first unresolvable
	// one. No partial results are returned on failure.
	ResolveAll(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
}
