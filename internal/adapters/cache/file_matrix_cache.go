package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"fleetroute/internal/domain"
	"fleetroute/internal/platform/obs"
)

// hexKeyPattern matches SHA-256 request keys. Anything else is rejected
// before it can become a filename.
var hexKeyPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// FileMatrixCache stores one JSON file per matrix record under a cache
// directory, named by the request key. Records are written through a temp
// file and rename; an unreadable or invalid record reads as a miss.
type FileMatrixCache struct {
	dir string
}

// NewFileMatrixCache ensures dir exists and returns the cache.
func NewFileMatrixCache(dir string) (*FileMatrixCache, error) {
	if dir == "" {
		return nil, errors.New("file matrix cache: dir must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file matrix cache: create cache dir: %w", err)
	}
	return &FileMatrixCache{dir: dir}, nil
}

// Get returns the cached record for key, if present and well-formed.
func (c *FileMatrixCache) Get(ctx context.Context, key string) (_ *domain.MatrixSet, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.Get")(&err)

	if !hexKeyPattern.MatchString(key) {
		return nil, false, fmt.Errorf("get matrix cache: malformed key %q", key)
	}

	raw, err := os.ReadFile(c.recordPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: read record: %w", err)
	}

	var set domain.MatrixSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, false, nil
	}
	if err := set.Validate(); err != nil {
		return nil, false, nil
	}
	return &set, true, nil
}

// Put writes the record for key, replacing any previous one.
func (c *FileMatrixCache) Put(ctx context.Context, key string, set *domain.MatrixSet) (err error) {
	defer obs.Time(ctx, "matrix.cache.Put")(&err)

	if !hexKeyPattern.MatchString(key) {
		return fmt.Errorf("insert matrix cache: malformed key %q", key)
	}
	if set == nil {
		return errors.New("insert matrix cache: record must not be nil")
	}

	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("insert matrix cache: encode record: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".matrix-*.tmp")
	if err != nil {
		return fmt.Errorf("insert matrix cache: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("insert matrix cache: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("insert matrix cache: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, c.recordPath(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("insert matrix cache: replace record: %w", err)
	}
	return nil
}

func (c *FileMatrixCache) recordPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}
