package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"fleetroute/internal/platform/metrics"
)

const (
	statusOK = "OK"

	// ElementStatusOK marks a routable origin/destination pair. Anything
	// else (NOT_FOUND, ZERO_RESULTS, ...) means the leg has no road route.
	ElementStatusOK = "OK"
)

// MatrixCaller issues one bounded distance-matrix call. Implementations
// must keep len(origins)*len(destinations) within the service's per-call
// element cap; the tiling layer guarantees that for the real client.
type MatrixCaller interface {
	DistanceMatrix(ctx context.Context, origins, destinations []string) (*MatrixResponse, error)
}

// MatrixResponse mirrors the service's row-major element grid: one row per
// origin, one element per destination.
type MatrixResponse struct {
	Status string      `json:"status"`
	Rows   []MatrixRow `json:"rows"`
}

type MatrixRow struct {
	Elements []MatrixElement `json:"elements"`
}

type MatrixElement struct {
	Status   string      `json:"status"`
	Distance MatrixValue `json:"distance"`
	Duration MatrixValue `json:"duration"`
}

type MatrixValue struct {
	Value int `json:"value"`
}

// DistanceMatrix fetches driving distances and durations for every
// origin/destination pair in one call. Addresses are pipe-joined per the
// service's querystring convention.
func (c *Client) DistanceMatrix(ctx context.Context, origins, destinations []string) (*MatrixResponse, error) {
	query := url.Values{}
	query.Set("origins", strings.Join(origins, "|"))
	query.Set("destinations", strings.Join(destinations, "|"))
	query.Set("mode", c.mode)
	query.Set("units", c.units)

	body, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, "/distancematrix/json", query)
	})
	if err != nil {
		return nil, fmt.Errorf("distance matrix call: %w", err)
	}
	metrics.MatrixAPICalls.Inc()

	var decoded MatrixResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("distance matrix call: decode response: %w", err)
	}
	if decoded.Status != statusOK {
		return nil, fmt.Errorf("distance matrix call: service status %s", decoded.Status)
	}
	if len(decoded.Rows) != len(origins) {
		return nil, fmt.Errorf("distance matrix call: got %d rows, want %d", len(decoded.Rows), len(origins))
	}
	for i, row := range decoded.Rows {
		if len(row.Elements) != len(destinations) {
			return nil, fmt.Errorf("distance matrix call: row %d has %d elements, want %d", i, len(row.Elements), len(destinations))
		}
	}
	return &decoded, nil
}
