package dto

// PlaceRequest is one named address in a plan request. The name is
// cosmetic; routing runs on the address alone.
type PlaceRequest struct {
	Name    string `json:"name"`
	Address string `json:"address" validate:"required"`
}

// PlanRequest asks for one full fleet optimization run. Omitted depots or
// deliveries fall back to the repository listings, so an empty body plans
// the seeded fleet.
type PlanRequest struct {
	Depots      []PlaceRequest `json:"depots" validate:"dive"`
	Deliveries  []PlaceRequest `json:"deliveries" validate:"dive"`
	MaxParallel int            `json:"max_parallel" validate:"omitempty,min=1,max=32"`
}

type RouteResponse struct {
	Vehicle              int      `json:"vehicle"`
	Depot                string   `json:"depot"`
	Stops                []string `json:"stops"`
	TotalDistanceMeters  int      `json:"total_distance_meters"`
	TotalDurationSeconds int      `json:"total_duration_seconds"`
	MapURL               string   `json:"map_url,omitempty"`
}

type FailureResponse struct {
	Vehicle int    `json:"vehicle"`
	Depot   string `json:"depot"`
	Error   string `json:"error"`
}

type PlanResponse struct {
	Routes               []RouteResponse   `json:"routes"`
	Failures             []FailureResponse `json:"failures,omitempty"`
	TotalDistanceMeters  int               `json:"total_distance_meters"`
	TotalDurationSeconds int               `json:"total_duration_seconds"`
}
