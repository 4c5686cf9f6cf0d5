package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fleetroute/internal/domain"
	"fleetroute/internal/platform/obs"
)

// PostgresMatrixCache stores whole matrix records keyed by request hash.
// Records are opaque JSON payloads; a record that no longer decodes or
// validates reads as a miss rather than an error, so a corrupt row only
// costs a recompute.
type PostgresMatrixCache struct {
	DB *sql.DB
}

func NewPostgresMatrixCache(db *sql.DB) *PostgresMatrixCache {
	return &PostgresMatrixCache{DB: db}
}

// Get returns the cached record for key, if present and well-formed.
func (s *PostgresMatrixCache) Get(ctx context.Context, key string) (_ *domain.MatrixSet, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("matrix cache: db is nil")
	}
	if key == "" {
		return nil, false, errors.New("get matrix cache: key must not be empty")
	}

	q := `
	SELECT payload
    FROM matrix_cache
    WHERE request_key = $1;
	`

	var payload []byte
	if err := s.DB.QueryRowContext(ctx, q, key).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get matrix cache: query matrix_cache table: %w", err)
	}

	var set domain.MatrixSet
	if err := json.Unmarshal(payload, &set); err != nil {
		return nil, false, nil
	}
	if err := set.Validate(); err != nil {
		return nil, false, nil
	}
	return &set, true, nil
}

// Put upserts the record for key.
func (s *PostgresMatrixCache) Put(ctx context.Context, key string, set *domain.MatrixSet) (err error) {
	defer obs.Time(ctx, "matrix.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("matrix cache: db is nil")
	}
	if key == "" {
		return errors.New("insert matrix cache: key must not be empty")
	}
	if set == nil {
		return errors.New("insert matrix cache: record must not be nil")
	}

	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("insert matrix cache: encode record: %w", err)
	}

	q := `
	INSERT INTO matrix_cache (request_key, payload)
    VALUES ($1, $2)
	ON CONFLICT (request_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		updated_at = now();
	`

	if _, err := s.DB.ExecContext(ctx, q, key, payload); err != nil {
		return fmt.Errorf("insert matrix cache key=%s: %w", key, err)
	}
	return nil
}
