// Package maplink renders optimized routes for humans: shareable driving
// directions links plus compact distance and duration formatting.
package maplink

import (
	"fmt"
	"net/url"
	"strings"
)

const directionsBase = "https://www.google.com/maps/dir/?api=1"

// DirectionsURL builds a driving directions link that walks the stops in
// order: first stop is the origin, last the destination, everything in
// between a waypoint. Empty input yields "".
func DirectionsURL(stops []string) string {
	if len(stops) == 0 {
		return ""
	}

	origin := url.QueryEscape(stops[0])
	destination := url.QueryEscape(stops[len(stops)-1])

	link := fmt.Sprintf("%s&origin=%s&destination=%s&travelmode=driving", directionsBase, origin, destination)

	if len(stops) > 2 {
		mids := make([]string, 0, len(stops)-2)
		for _, s := range stops[1 : len(stops)-1] {
			mids = append(mids, url.QueryEscape(s))
		}
		link += "&waypoints=" + strings.Join(mids, "|")
	}

	return link
}

// RouteURL renders one vehicle's closed tour: depot out, every stop in
// driving order, back to the depot. Vehicles with no stops have no route
// to show and yield "".
func RouteURL(depot string, stops []string) string {
	if len(stops) == 0 {
		return ""
	}

	full := make([]string, 0, len(stops)+2)
	full = append(full, depot)
	full = append(full, stops...)
	full = append(full, depot)
	return DirectionsURL(full)
}

// FormatDistance renders meters, switching to one-decimal kilometers from
// 1 km up.
func FormatDistance(meters int) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", float64(meters)/1000)
	}
	return fmt.Sprintf("%d m", meters)
}

// FormatDuration renders whole hours and minutes. Sub-minute durations
// still print "0m" so columns never go blank.
func FormatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	parts := make([]string, 0, 2)
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	return strings.Join(parts, " ")
}
