package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "places.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPlaces(t *testing.T) {
	path := writeCSV(t, "Name,Address\nhub,1 Depot Rd\n,2 Side St\nskip me,\n")

	places, err := loadPlaces(path)
	if err != nil {
		t.Fatalf("loadPlaces: %v", err)
	}

	if len(places) != 2 {
		t.Fatalf("got %d places, want 2 (addressless row skipped)", len(places))
	}
	if places[0].Name != "hub" || places[0].Address != "1 Depot Rd" {
		t.Errorf("first place = %+v", places[0])
	}
	// Nameless rows get a generated label.
	if places[1].Name != "Stop_2" || places[1].Address != "2 Side St" {
		t.Errorf("second place = %+v", places[1])
	}
}

func TestLoadPlacesNoAddressColumn(t *testing.T) {
	path := writeCSV(t, "foo,bar\n1,2\n")
	if _, err := loadPlaces(path); err == nil {
		t.Fatal("expected error for missing address column")
	}
}

func TestLoadPlacesEmptyBody(t *testing.T) {
	path := writeCSV(t, "name,address\n")
	if _, err := loadPlaces(path); err == nil {
		t.Fatal("expected error for header-only file")
	}
}

func TestLoadPlacesMissingFile(t *testing.T) {
	if _, err := loadPlaces(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
