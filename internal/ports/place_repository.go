package ports

import (
	"context"
	"fleetroute/internal/domain"
)

// Port: a boundary for retrieving depot and delivery addresses from a data
// source. The engine is agnostic to how the lists were produced.
type PlaceRepository interface {
	// Retrieve all depot addresses, one vehicle per depot.
	ListDepots(ctx context.Context) ([]domain.Place, error)
	// Retrieve all delivery addresses awaiting routing.
	ListDeliveries(ctx context.Context) ([]domain.Place, error)
}
