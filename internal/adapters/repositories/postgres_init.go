package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres schema: fleet places plus both cache tables.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDepotsQuery := `
	CREATE TABLE IF NOT EXISTS depots (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL UNIQUE
	);
	`

	createDeliveriesQuery := `
	CREATE TABLE IF NOT EXISTS deliveries (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL UNIQUE
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lon DOUBLE PRECISION NOT NULL,
        lat DOUBLE PRECISION NOT NULL
    );
	`

	createMatrixCacheQuery := `
	CREATE TABLE IF NOT EXISTS matrix_cache (
        request_key TEXT PRIMARY KEY,
        payload JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );
	`

	statements := []string{
		createDepotsQuery,
		createDeliveriesQuery,
		createGeocodeCacheQuery,
		createMatrixCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type PlaceSeed struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type FleetSeed struct {
	Depots     []PlaceSeed `json:"depots"`
	Deliveries []PlaceSeed `json:"deliveries"`
}

// Populate the database with depot and delivery data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed places: read %q: %w", jsonPath, err)
	}

	var data FleetSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed places: parse json: %w", err)
	}
	if len(data.Depots) == 0 {
		return errors.New("seed places: at least one depot is required")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed places: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := seedTable(tx, "depots", data.Depots); err != nil {
		return err
	}
	if err := seedTable(tx, "deliveries", data.Deliveries); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed places: commit tx: %w", err)
	}

	return nil
}

func seedTable(tx *sql.Tx, table string, seeds []PlaceSeed) error {
	query := fmt.Sprintf(`
	INSERT INTO %s (
		name,
		address
	)
	VALUES ($1, $2)
	ON CONFLICT (address) DO UPDATE
	SET name = EXCLUDED.name;
	`, table)

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed %s: prepare insert: %w", table, err)
	}
	defer stmt.Close()

	for i, p := range seeds {
		address := strings.TrimSpace(p.Address)
		if address == "" {
			return fmt.Errorf("seed %s: item at index %d: address cannot be empty", table, i+1)
		}
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = address
		}
		if _, err := stmt.Exec(name, address); err != nil {
			return fmt.Errorf("seed %s: insert address=%q: %w", table, address, err)
		}
	}

	return nil
}
