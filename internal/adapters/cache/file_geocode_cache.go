package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fleetroute/internal/domain"
	"fleetroute/internal/platform/obs"
)

// FileGeocodeCache keeps the address book in one JSON file. The whole map
// lives in memory; every PutMany rewrites the file through a temp file and
// rename so a crash mid-write never leaves a torn cache behind.
type FileGeocodeCache struct {
	path string

	mu      sync.RWMutex
	entries map[string]domain.Coordinates
}

// NewFileGeocodeCache loads the cache at path, creating parent directories
// as needed. An unreadable or corrupt file starts the cache empty; losing
// cached lookups is recoverable, refusing to start is not.
func NewFileGeocodeCache(path string) (*FileGeocodeCache, error) {
	if path == "" {
		return nil, errors.New("file geocode cache: path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("file geocode cache: create cache dir: %w", err)
	}

	c := &FileGeocodeCache{path: path, entries: map[string]domain.Coordinates{}}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// first run
	case err != nil:
		log.Printf("geocode cache load failed, starting empty: path=%s err=%v", path, err)
	default:
		if err := json.Unmarshal(raw, &c.entries); err != nil {
			log.Printf("geocode cache corrupt, starting empty: path=%s err=%v", path, err)
			c.entries = map[string]domain.Coordinates{}
		}
	}
	return c, nil
}

// Fetch cached coordinates for the given addresses.
func (c *FileGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]domain.Coordinates, len(addresses))
	for _, a := range addresses {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if coord, ok := c.entries[a]; ok {
			out[a] = coord
		}
	}
	return out, nil
}

// Store address -> coordinate mappings and persist the full map.
func (c *FileGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

	if len(results) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for addr, coord := range results {
		if strings.TrimSpace(addr) == "" {
			return errors.New("file geocode cache: empty address key")
		}
		c.entries[addr] = coord
	}
	return c.flushLocked()
}

// flushLocked writes the map atomically. Callers hold c.mu.
func (c *FileGeocodeCache) flushLocked() error {
	payload, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("file geocode cache: encode entries: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".geocode-*.tmp")
	if err != nil {
		return fmt.Errorf("file geocode cache: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("file geocode cache: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file geocode cache: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file geocode cache: replace cache file: %w", err)
	}
	return nil
}
