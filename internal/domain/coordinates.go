package domain

// Immutable geographic coordinates (latitude, longitude).
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
