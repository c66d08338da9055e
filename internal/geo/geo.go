// Package geo provides the great-circle geometry used by batch formation and
// pricing. Pure functions, no state.
package geo

import (
	"math"

	"delivery-dispatch-service/internal/domain"
)

const earthRadiusKm = 6371

// DistanceKm returns the great-circle (haversine) distance in kilometers
// between two coordinates.
func DistanceKm(a, b domain.LatLng) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// Nearest returns the index of the candidate closest to point. Ties break by
// input order (first occurrence wins). Callers must guarantee a non-empty
// candidate set; Nearest returns -1 otherwise.
func Nearest(point domain.LatLng, candidates []domain.LatLng) int {
	best := -1
	bestDist := math.Inf(1)
	for i, c := range candidates {
		if d := DistanceKm(point, c); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
