package domain

// Vehicle pairs a depot with the delivery stops assigned to it for one
// optimization run. Vehicles are identified by depot index (0-based) and
// rebuilt from scratch on every run; no vehicle identity persists across
// runs beyond that convention.
type Vehicle struct {
	Index int
	Depot Location
	Stops []string
}
