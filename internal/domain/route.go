package domain

// VehicleRoute is the optimized tour for a single vehicle. Stops are the
// delivery addresses in driving order; the depot opens the tour and is
// returned to at the end but is not repeated in the stop list. Totals do
// include the return leg. It is immutable planning data.
type VehicleRoute struct {
	Vehicle         int
	Depot           string
	Stops           []string
	DistanceMeters  int
	DurationSeconds int
}

// VehicleFailure records a vehicle whose tour could not be computed.
// Failed vehicles are reported alongside the successful routes rather than
// silently missing from the plan.
type VehicleFailure struct {
	Vehicle int
	Depot   string
	Err     error
}

// FleetPlan is the output of one full optimization run: one route per
// vehicle that optimized cleanly, one failure record per vehicle that did
// not, and aggregate totals over the successful routes.
type FleetPlan struct {
	Routes               []VehicleRoute
	Failures             []VehicleFailure
	TotalDistanceMeters  int
	TotalDurationSeconds int
}
