package dispatch

import (
	"fmt"
	"net/url"

	"delivery-dispatch-service/internal/domain"
)

// BuildMapsURL renders a route's path descriptor as a Google Maps directions
// link from the origin through the selected orders in visiting order. The
// last order is the destination, everything in between a waypoint.
func BuildMapsURL(origin domain.LatLng, selected []*domain.Order) string {
	if len(selected) == 0 {
		return ""
	}

	last := selected[len(selected)-1]
	params := url.Values{}
	params.Set("api", "1")
	params.Set("origin", formatLatLng(origin))
	params.Set("destination", formatLatLng(last.Coordinates()))

	if len(selected) > 1 {
		waypoints := ""
		for i, o := range selected[:len(selected)-1] {
			if i > 0 {
				waypoints += "|"
			}
			waypoints += formatLatLng(o.Coordinates())
		}
		params.Set("waypoints", waypoints)
	}

	return "https://www.google.com/maps/dir/?" + params.Encode()
}

func formatLatLng(p domain.LatLng) string {
	return fmt.Sprintf("%v,%v", p.Lat, p.Lng)
}
