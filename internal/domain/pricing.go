package domain

// Distance-based pricing tier: the delivery price for destinations up to
// MaxDistanceKm from the origin.
type PricingBand struct {
	ID            string  `json:"id"`
	MaxDistanceKm float64 `json:"maxDistanceKm"`
	Price         float64 `json:"price"`
}

// Address-based pricing override: matched by case-insensitive substring of
// the order address, checked before distance bands.
type PricingZone struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	MatchText string  `json:"matchText"`
	Price     float64 `json:"price"`
}
