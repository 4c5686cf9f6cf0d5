package maps

import (
	"context"
	"strings"
	"sync"

	"fleetroute/internal/domain"
)

// MockGeocoder is a scripted ports.Geocoder for tests and demos. Unknown
// addresses fail the same way the real service does.
type MockGeocoder struct {
	Coords map[string]domain.Coordinates
}

func (m *MockGeocoder) Resolve(ctx context.Context, address string) (domain.Coordinates, error) {
	coord, ok := m.Coords[address]
	if !ok {
		return domain.Coordinates{}, &domain.GeocodeError{Address: address, Status: "ZERO_RESULTS"}
	}
	return coord, nil
}

func (m *MockGeocoder) ResolveAll(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	out := make(map[string]domain.Coordinates, len(addresses))
	for _, address := range addresses {
		coord, err := m.Resolve(ctx, address)
		if err != nil {
			return nil, err
		}
		out[address] = coord
	}
	return out, nil
}

// MockKey joins an ordered location list into the lookup key used by
// MockMatrixProvider scripts.
func MockKey(locations []string) string {
	return strings.Join(locations, "|")
}

// MockMatrixProvider is a scripted ports.MatrixProvider keyed by the
// ordered location list. It counts calls so tests can assert cache and
// fast-path behavior. Safe for concurrent use.
type MockMatrixProvider struct {
	Sets map[string]*domain.MatrixSet

	mu    sync.Mutex
	calls int
}

func (m *MockMatrixProvider) BuildMatrices(ctx context.Context, locations []string) (*domain.MatrixSet, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	set, ok := m.Sets[MockKey(locations)]
	if !ok {
		return nil, &domain.MatrixUnavailableError{Reason: "no scripted matrices for location set"}
	}
	return set, nil
}

// Calls reports how many times BuildMatrices ran.
func (m *MockMatrixProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
