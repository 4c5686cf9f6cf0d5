package ports

import (
	"context"
	"fleetroute/internal/domain"
)

// Contract for obtaining full driving distance and duration matrices over
// an ordered location list.
type MatrixProvider interface {
	// BuildMatrices returns N×N matrices for the given ordered addresses.
	// Callers must expect it to block: a cold cache means external calls,
	// and daily-quota exhaustion means sleeping until capacity frees.
	BuildMatrices(ctx context.Context, locations []string) (*domain.MatrixSet, error)
}
