package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetroute/internal/domain"
)

// Postgres-backed implementation of the PlaceRepository port. Rows come
// back in insertion order; depot order decides vehicle identity, so it
// must be stable across reads.
type PostgresPlaceRepository struct{ DB *sql.DB }

func NewPostgresPlaceRepository(db *sql.DB) *PostgresPlaceRepository {
	return &PostgresPlaceRepository{DB: db}
}

// Return all depots, oldest first.
func (s *PostgresPlaceRepository) ListDepots(ctx context.Context) ([]domain.Place, error) {
	return s.listPlaces(ctx, "depots")
}

// Return all delivery addresses, oldest first.
func (s *PostgresPlaceRepository) ListDeliveries(ctx context.Context) ([]domain.Place, error) {
	return s.listPlaces(ctx, "deliveries")
}

func (s *PostgresPlaceRepository) listPlaces(ctx context.Context, table string) ([]domain.Place, error) {
	if s.DB == nil {
		return nil, errors.New("place repository: DB is nil")
	}

	query := fmt.Sprintf(`
	SELECT
		name,
		address
	FROM %s
	ORDER BY id;
	`, table)

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: query %s table: %w", table, table, err)
	}
	defer rows.Close()

	places := make([]domain.Place, 0, 64)
	for rows.Next() {
		var name, address string
		if err := rows.Scan(&name, &address); err != nil {
			return nil, fmt.Errorf("list %s: scan row: %w", table, err)
		}
		places = append(places, domain.Place{Name: name, Address: address})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: row iteration: %w", table, err)
	}

	return places, nil
}
