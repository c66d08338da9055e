// Package pricing implements the PricingLookup port with the zone/band rule
// set: address zones match first, then distance bands from the dispatch
// origin.
package pricing

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/geo"
	"delivery-dispatch-service/internal/ports"
)

// Source of the current origin coordinate and delivery radius. The dispatcher
// satisfies this, so profile updates reprice new orders immediately.
type ProfileSource interface {
	CurrentProfile() domain.RestaurantProfile
}

// Calculator resolves delivery prices against a rule set. Rule management is
// outside the dispatch core; rules are loaded from the persisted snapshot.
type Calculator struct {
	mu      sync.RWMutex
	bands   []domain.PricingBand
	zones   []domain.PricingZone
	profile ProfileSource
}

var _ ports.PricingLookup = (*Calculator)(nil)

func NewCalculator(bands []domain.PricingBand, zones []domain.PricingZone, profile ProfileSource) *Calculator {
	c := &Calculator{
		bands:   append([]domain.PricingBand(nil), bands...),
		zones:   append([]domain.PricingZone(nil), zones...),
		profile: profile,
	}
	sort.Slice(c.bands, func(i, j int) bool { return c.bands[i].MaxDistanceKm < c.bands[j].MaxDistanceKm })
	return c
}

// PriceFor returns the delivery price for a destination and the rule that
// produced it. Zone matches (case-insensitive substring of the address) win
// over distance bands; among bands, the first one covering the great-circle
// distance from the origin applies, falling back to the widest band for
// destinations beyond every configured tier.
func (c *Calculator) PriceFor(address string, lat, lng float64) ports.PriceQuote {
	c.mu.RLock()
	defer c.mu.RUnlock()

	normalized := strings.ToLower(address)
	for _, zone := range c.zones {
		if strings.Contains(normalized, strings.ToLower(zone.MatchText)) {
			return ports.PriceQuote{
				Price: zone.Price,
				Rule:  domain.PricingRuleSummary{Type: "ZONE", Label: zone.Name},
			}
		}
	}

	if len(c.bands) == 0 {
		return ports.PriceQuote{
			Rule: domain.PricingRuleSummary{Type: "DISTANCE", Label: "no bands configured"},
		}
	}

	profile := c.profile.CurrentProfile()
	origin := domain.LatLng{Lat: profile.Lat, Lng: profile.Lng}
	distanceKm := geo.DistanceKm(origin, domain.LatLng{Lat: lat, Lng: lng})

	band := c.bands[len(c.bands)-1]
	for _, b := range c.bands {
		if distanceKm <= b.MaxDistanceKm {
			band = b
			break
		}
	}

	label := fmt.Sprintf("up to %g km", band.MaxDistanceKm)
	if distanceKm > profile.MaxRadiusKm {
		label = fmt.Sprintf("beyond delivery radius (%g km)", profile.MaxRadiusKm)
	}

	return ports.PriceQuote{
		Price: band.Price,
		Rule:  domain.PricingRuleSummary{Type: "DISTANCE", Label: label},
	}
}
