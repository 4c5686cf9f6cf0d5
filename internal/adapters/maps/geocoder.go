package maps

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"fleetroute/internal/domain"
	"fleetroute/internal/platform/metrics"
	"fleetroute/internal/ports"
)

// CachedGeocoder implements ports.Geocoder: a persistent write-through
// cache in front of the mapping client, with paced external calls.
// Addresses are normalized before they touch the cache or the service so
// spacing variants share one entry.
type CachedGeocoder struct {
	client *Client // nil when geocoding is disabled
	cache  ports.GeocodeCache
	pacer  *rate.Limiter
	group  singleflight.Group
}

// NewCachedGeocoder builds a geocoder. cache may be nil (every resolve
// goes out), client may be nil (only cached addresses resolve). A
// non-positive minInterval disables pacing.
func NewCachedGeocoder(client *Client, cache ports.GeocodeCache, minInterval time.Duration) *CachedGeocoder {
	var pacer *rate.Limiter
	if minInterval > 0 {
		pacer = rate.NewLimiter(rate.Every(minInterval), 1)
	}
	return &CachedGeocoder{client: client, cache: cache, pacer: pacer}
}

func normalizeAddress(address string) string {
	return strings.Join(strings.Fields(address), " ")
}

// Resolve returns the coordinates for one address, from cache when
// possible. A fresh result is cached before it is returned. Concurrent
// resolves of the same address collapse into one external call.
func (g *CachedGeocoder) Resolve(ctx context.Context, address string) (domain.Coordinates, error) {
	norm := normalizeAddress(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("resolve address: address must be non-empty")
	}

	if coord, ok := g.fromCache(ctx, norm); ok {
		metrics.GeocodeCacheHits.Inc()
		return coord, nil
	}
	metrics.GeocodeCacheMisses.Inc()

	v, err, _ := g.group.Do(norm, func() (any, error) {
		// A concurrent resolver may have cached the address already.
		if coord, ok := g.fromCache(ctx, norm); ok {
			return coord, nil
		}
		if g.client == nil {
			return nil, fmt.Errorf("resolve %q: geocoding disabled and address not cached", norm)
		}
		if g.pacer != nil {
			if err := g.pacer.Wait(ctx); err != nil {
				return nil, err
			}
		}
		coord, err := g.client.Geocode(ctx, norm)
		if err != nil {
			return nil, err
		}
		metrics.GeocodeAPICalls.Inc()
		if g.cache != nil {
			if err := g.cache.PutMany(ctx, map[string]domain.Coordinates{norm: coord}); err != nil {
				log.Printf("geocode cache write failed: addr=%q err=%v", norm, err)
			}
		}
		return coord, nil
	})
	if err != nil {
		return domain.Coordinates{}, err
	}
	return v.(domain.Coordinates), nil
}

// ResolveAll resolves every address, keyed by the caller's original
// strings. Any single failure aborts the whole batch: a stop that cannot
// be located must never be silently dropped from a route.
func (g *CachedGeocoder) ResolveAll(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	out := make(map[string]domain.Coordinates, len(addresses))
	for _, address := range addresses {
		if _, ok := out[address]; ok {
			continue
		}
		coord, err := g.Resolve(ctx, address)
		if err != nil {
			return nil, err
		}
		out[address] = coord
	}
	return out, nil
}

func (g *CachedGeocoder) fromCache(ctx context.Context, norm string) (domain.Coordinates, bool) {
	if g.cache == nil {
		return domain.Coordinates{}, false
	}
	hits, err := g.cache.GetMany(ctx, []string{norm})
	if err != nil {
		log.Printf("geocode cache read failed: addr=%q err=%v", norm, err)
		return domain.Coordinates{}, false
	}
	coord, ok := hits[norm]
	return coord, ok
}
