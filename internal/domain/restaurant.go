package domain

import (
	"errors"
	"math"
	"strings"
)

// Operation profile of the single-origin restaurant. Carries the dispatch
// origin coordinate and the routing configuration consumed by batching.
type RestaurantProfile struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	ContactPhone   string  `json:"contactPhone,omitempty"`
	MaxRadiusKm    float64 `json:"maxRadiusKm"`
	MinBatch       int     `json:"minBatch"`
	MaxBatch       int     `json:"maxBatch"`
	MaxWaitMinutes int     `json:"maxWaitMinutes"`
	HoldMinutes    int     `json:"smartBatchHoldMinutes"`
}

// RoutingConfig projects the profile's batching parameters.
func (p *RestaurantProfile) RoutingConfig() RoutingConfig {
	return RoutingConfig{
		MinBatch:       p.MinBatch,
		MaxBatch:       p.MaxBatch,
		MaxWaitMinutes: p.MaxWaitMinutes,
		HoldMinutes:    p.HoldMinutes,
		Origin:         LatLng{Lat: p.Lat, Lng: p.Lng},
	}
}

// Validate checks the profile fields an update must preserve.
func (p *RestaurantProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("restaurant profile: name must be non-empty")
	}
	if strings.TrimSpace(p.Address) == "" {
		return errors.New("restaurant profile: address must be non-empty")
	}
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return errors.New("restaurant profile: invalid coordinates")
	}
	if p.MaxRadiusKm <= 0 {
		return errors.New("restaurant profile: max radius must be positive")
	}
	if p.MinBatch < 1 {
		return errors.New("restaurant profile: min batch must be at least 1")
	}
	if p.MaxBatch < p.MinBatch {
		return errors.New("restaurant profile: max batch must not be below min batch")
	}
	return nil
}
