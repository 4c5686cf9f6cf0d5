package maps

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"fleetroute/internal/domain"
	"fleetroute/internal/platform/metrics"
	"fleetroute/internal/ports"
)

// Provider implements ports.MatrixProvider: whole-record caching keyed by
// the exact ordered address list, with the tiled rate-limited client
// underneath for fresh computes. A hit returns the stored record as-is;
// there is no staleness check beyond input-set identity.
//
// Safe for concurrent use. Concurrent requests for the same address list
// collapse into one external computation.
type Provider struct {
	builder      *TiledMatrixBuilder // nil when running offline
	cache        ports.MatrixCache
	group        singleflight.Group
	forceRefresh bool
}

// NewProvider builds a Provider. builder may be nil for offline mode, in
// which case only cached records can be served. forceRefresh skips cache
// lookups but still writes fresh results back.
func NewProvider(builder *TiledMatrixBuilder, cache ports.MatrixCache, forceRefresh bool) *Provider {
	return &Provider{builder: builder, cache: cache, forceRefresh: forceRefresh}
}

// RequestKey derives the cache key for an ordered address list: SHA-256
// over the JSON encoding. Any change to the set or its order misses the
// whole record. Keys hash addresses, not coordinates, so geocoding
// precision drift cannot split entries.
func RequestKey(locations []string) string {
	payload, err := json.Marshal(locations)
	if err != nil {
		// []string cannot fail to encode
		panic(fmt.Sprintf("encode matrix key: %v", err))
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (p *Provider) BuildMatrices(ctx context.Context, locations []string) (*domain.MatrixSet, error) {
	if len(locations) == 0 {
		return domain.NewMatrixSet(nil), nil
	}
	key := RequestKey(locations)

	if !p.forceRefresh {
		if set, ok := p.lookup(ctx, key); ok {
			metrics.MatrixCacheHits.Inc()
			return set, nil
		}
		metrics.MatrixCacheMisses.Inc()
	}

	v, err, _ := p.group.Do(key, func() (any, error) {
		// Another goroutine may have written the record while this one
		// queued on the flight.
		if !p.forceRefresh {
			if set, ok := p.lookup(ctx, key); ok {
				return set, nil
			}
		}
		if p.builder == nil {
			return nil, &domain.MatrixUnavailableError{Reason: "offline mode, no cached record for this address set"}
		}
		set, err := p.builder.BuildFull(ctx, locations)
		if err != nil {
			return nil, fmt.Errorf("build matrices for %d locations: %w", len(locations), err)
		}
		if p.cache != nil {
			if err := p.cache.Put(ctx, key, set); err != nil {
				// Serving the computed result matters more than persisting it.
				log.Printf("matrix cache write failed: key=%s err=%v", key, err)
			}
		}
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.MatrixSet), nil
}

func (p *Provider) lookup(ctx context.Context, key string) (*domain.MatrixSet, bool) {
	if p.cache == nil {
		return nil, false
	}
	set, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		log.Printf("matrix cache read failed: key=%s err=%v", key, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return set, true
}
