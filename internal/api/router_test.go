package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fleetroute/internal/adapters/maps"
	"fleetroute/internal/api/dto"
	"fleetroute/internal/domain"
)

type fakeRepo struct {
	depots     []domain.Place
	deliveries []domain.Place
}

func (r *fakeRepo) ListDepots(ctx context.Context) ([]domain.Place, error) {
	return r.depots, nil
}

func (r *fakeRepo) ListDeliveries(ctx context.Context) ([]domain.Place, error) {
	return r.deliveries, nil
}

func testRouter() http.Handler {
	geocoder := &maps.MockGeocoder{Coords: map[string]domain.Coordinates{
		"Depot Rd": {Lat: 0, Lon: 0},
		"A St":     {Lat: 0, Lon: 1},
	}}

	set := domain.NewMatrixSet([]string{"Depot Rd", "A St"})
	set.Distances[0][1], set.Distances[1][0] = 4000, 5000
	set.Durations[0][1], set.Durations[1][0] = 400, 500
	provider := &maps.MockMatrixProvider{Sets: map[string]*domain.MatrixSet{
		maps.MockKey([]string{"Depot Rd", "A St"}): set,
	}}

	repo := &fakeRepo{
		depots:     []domain.Place{{Name: "hub", Address: "Depot Rd"}},
		deliveries: []domain.Place{{Name: "a", Address: "A St"}},
	}

	return NewRouter(repo, geocoder, provider, 2)
}

func TestHealthEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestListDepotsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/depots", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res dto.ListPlacesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Places) != 1 || res.Places[0].Address != "Depot Rd" {
		t.Fatalf("places = %+v", res.Places)
	}
}

func TestPlanEndpointFallsBackToRepository(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(`{}`))
	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.PlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Routes) != 1 || len(res.Failures) != 0 {
		t.Fatalf("routes = %+v failures = %+v", res.Routes, res.Failures)
	}

	rt := res.Routes[0]
	if rt.Depot != "Depot Rd" || len(rt.Stops) != 1 || rt.Stops[0] != "A St" {
		t.Fatalf("route = %+v", rt)
	}
	if rt.TotalDistanceMeters != 9000 || rt.TotalDurationSeconds != 900 {
		t.Fatalf("totals = %d m / %d s, want 9000/900", rt.TotalDistanceMeters, rt.TotalDurationSeconds)
	}
	if !strings.Contains(rt.MapURL, "origin=Depot+Rd") {
		t.Fatalf("map url = %q", rt.MapURL)
	}
	if res.TotalDistanceMeters != 9000 || res.TotalDurationSeconds != 900 {
		t.Fatalf("plan totals = %d m / %d s", res.TotalDistanceMeters, res.TotalDurationSeconds)
	}
}

func TestPlanEndpointValidatesAddresses(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"depots": [{"name": "x", "address": ""}]}`
	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(body))
	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "address is required") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestPlanEndpointRejectsUnknownFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(`{"bogus": 1}`))
	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPlanEndpointGeocodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"depots": [{"address": "Depot Rd"}], "deliveries": [{"address": "No Such Pl"}]}`
	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(body))
	testRouter().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "No Such Pl") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestPlanEndpointMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plans", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if got := rec.Header().Get("Allow"); got != http.MethodPost {
		t.Fatalf("Allow = %q, want POST", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter()

	// Drive one request through the middleware so the counters exist.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatal("metrics exposition missing http_requests_total")
	}
}
