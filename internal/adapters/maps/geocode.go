package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"fleetroute/internal/domain"
)

const statusZeroResults = "ZERO_RESULTS"

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address to the first candidate coordinate pair.
// An empty candidate list is a *domain.GeocodeError: the address is
// unusable and the run must not silently drop it.
func (c *Client) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	query := url.Values{}
	query.Set("address", address)

	body, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, "/geocode/json", query)
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}

	var decoded geocodeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: decode response: %w", address, err)
	}
	if decoded.Status == statusZeroResults || len(decoded.Results) == 0 {
		return domain.Coordinates{}, &domain.GeocodeError{Address: address, Status: decoded.Status}
	}
	if decoded.Status != statusOK {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: service status %s", address, decoded.Status)
	}

	loc := decoded.Results[0].Geometry.Location
	return domain.Coordinates{Lat: loc.Lat, Lon: loc.Lng}, nil
}
