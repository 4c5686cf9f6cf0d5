package domain

import "fmt"

// GeocodeError reports an address the geocoding service returned no
// candidates for. It is fatal for the run that contains the address:
// silently dropping a stop would corrupt fleet coverage, and matrix sizing
// assumes every input address resolves.
type GeocodeError struct {
	Address string
	Status  string
}

func (e *GeocodeError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("geocode %q: no results (status %s)", e.Address, e.Status)
	}
	return fmt.Sprintf("geocode %q: no results", e.Address)
}

// MatrixUnavailableError reports that a fresh matrix computation was
// required while the distance service is unreachable, misconfigured, or
// explicitly disabled. Fabricating distances would corrupt route quality,
// so the failure is explicit instead.
type MatrixUnavailableError struct {
	Reason string
}

func (e *MatrixUnavailableError) Error() string {
	return "distance matrix unavailable: " + e.Reason
}
