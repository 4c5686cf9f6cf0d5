package domain

// Location is a resolved input address: the free-text address handed to the
// engine plus the coordinate it geocodes to. Coordinates are immutable once
// resolved; an address with no resolvable coordinate is a terminal input
// error, never a Location with a zero coordinate.
type Location struct {
	Address string
	Coord   Coordinates
}

// Place is a named but not yet resolved depot or delivery address, as read
// from the repository or a CSV row.
type Place struct {
	Name    string
	Address string
}
