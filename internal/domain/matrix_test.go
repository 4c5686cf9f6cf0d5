package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewMatrixSetZeroed(t *testing.T) {
	set := NewMatrixSet([]string{"D", "A", "B"})

	if set.Dim() != 3 {
		t.Fatalf("dim = %d, want 3", set.Dim())
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if set.Distances[i][j] != 0 || set.Durations[i][j] != 0 {
				t.Fatalf("cell (%d,%d) not zeroed", i, j)
			}
		}
	}
	if err := set.Validate(); err != nil {
		t.Fatalf("fresh set invalid: %v", err)
	}
}

func TestMatrixSetValidateShape(t *testing.T) {
	set := NewMatrixSet([]string{"D", "A"})
	set.Distances = set.Distances[:1]
	if err := set.Validate(); err == nil {
		t.Fatal("expected error for truncated distance matrix")
	}

	set = NewMatrixSet([]string{"D", "A"})
	set.Durations[1] = []int{1}
	if err := set.Validate(); err == nil {
		t.Fatal("expected error for ragged duration row")
	}
}

func TestGeocodeErrorUnwrapsThroughChain(t *testing.T) {
	cause := &GeocodeError{Address: "nowhere", Status: "ZERO_RESULTS"}
	wrapped := fmt.Errorf("plan fleet: resolve addresses: %w", cause)

	var geoErr *GeocodeError
	if !errors.As(wrapped, &geoErr) {
		t.Fatalf("GeocodeError lost in chain: %v", wrapped)
	}
	if geoErr.Address != "nowhere" {
		t.Fatalf("address = %q", geoErr.Address)
	}
}

func TestMatrixUnavailableErrorMessage(t *testing.T) {
	err := &MatrixUnavailableError{Reason: "offline mode, no cached record for this address set"}
	want := "distance matrix unavailable: offline mode, no cached record for this address set"
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}
