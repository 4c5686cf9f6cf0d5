package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fleetroute/internal/domain"
	"fleetroute/internal/platform/obs"
)

const matrixKeyPrefix = "matrix:"

// RedisMatrixCache stores whole matrix records as JSON values under
// matrix:<request-key> keys. A zero TTL keeps records forever.
type RedisMatrixCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisMatrixCache(client *redis.Client, ttl time.Duration) *RedisMatrixCache {
	return &RedisMatrixCache{Client: client, TTL: ttl}
}

// Get returns the cached record for key, if present and well-formed.
func (s *RedisMatrixCache) Get(ctx context.Context, key string) (_ *domain.MatrixSet, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.Get")(&err)

	if s.Client == nil {
		return nil, false, errors.New("matrix cache: redis client is nil")
	}
	if key == "" {
		return nil, false, errors.New("get matrix cache: key must not be empty")
	}

	raw, err := s.Client.Get(ctx, matrixKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: redis get: %w", err)
	}

	var set domain.MatrixSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return nil, false, nil
	}
	if err := set.Validate(); err != nil {
		return nil, false, nil
	}
	return &set, true, nil
}

// Put writes the record for key, replacing any previous one.
func (s *RedisMatrixCache) Put(ctx context.Context, key string, set *domain.MatrixSet) (err error) {
	defer obs.Time(ctx, "matrix.cache.Put")(&err)

	if s.Client == nil {
		return errors.New("matrix cache: redis client is nil")
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
	if err := s.Client.Set(ctx, matrixKeyPrefix+key, payload, s.TTL).Err(); err != nil {
		return fmt.Errorf("insert matrix cache key=%s: %w", key, err)
	}
	return nil
}
