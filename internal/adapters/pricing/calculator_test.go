package pricing

import (
	"testing"

	"delivery-dispatch-service/internal/domain"
)

type staticProfile domain.RestaurantProfile

func (p staticProfile) CurrentProfile() domain.RestaurantProfile {
	return domain.RestaurantProfile(p)
}

func testSource() staticProfile {
	return staticProfile{
		ID:          "rest-1",
		Name:        "Test Kitchen",
		Address:     "Origin St 1",
		Lat:         -3.1120,
		Lng:         -60.0348,
		MaxRadiusKm: 15,
	}
}

// Bands deliberately unsorted; the calculator must order them itself.
func testBands() []domain.PricingBand {
	return []domain.PricingBand{
		{ID: "b3", MaxDistanceKm: 30, Price: 15},
		{ID: "b1", MaxDistanceKm: 3, Price: 5},
		{ID: "b2", MaxDistanceKm: 10, Price: 10},
	}
}

func TestPriceForZoneBeatsDistance(t *testing.T) {
	zones := []domain.PricingZone{{ID: "z1", Name: "Centro fixo", MatchText: "Centro", Price: 12}}
	c := NewCalculator(testBands(), zones, testSource())

	quote := c.PriceFor("Av. Sete de Setembro - centro", -3.1130, -60.0348)
	if quote.Price != 12 {
		t.Fatalf("price = %v, want zone price 12", quote.Price)
	}
	if quote.Rule.Type != "ZONE" || quote.Rule.Label != "Centro fixo" {
		t.Fatalf("rule = %+v", quote.Rule)
	}
}

func TestPriceForPicksFirstCoveringBand(t *testing.T) {
	c := NewCalculator(testBands(), nil, testSource())

	near := c.PriceFor("Rua Perto, 5", -3.1130, -60.0348) // ~0.1 km
	if near.Price != 5 || near.Rule.Label != "up to 3 km" {
		t.Fatalf("near quote = %+v", near)
	}

	mid := c.PriceFor("Rua Media, 50", -3.1620, -60.0348) // ~5.6 km
	if mid.Price != 10 || mid.Rule.Label != "up to 10 km" {
		t.Fatalf("mid quote = %+v", mid)
	}
}

func TestPriceForBeyondRadiusFallsBackToWidestBand(t *testing.T) {
	c := NewCalculator(testBands(), nil, testSource())

	quote := c.PriceFor("Rua Longe, 999", -3.32, -60.0348) // ~23 km
	if quote.Price != 15 {
		t.Fatalf("price = %v, want widest band 15", quote.Price)
	}
	if quote.Rule.Label != "beyond delivery radius (15 km)" {
		t.Fatalf("label = %q", quote.Rule.Label)
	}
}

func TestPriceForNoBands(t *testing.T) {
	c := NewCalculator(nil, nil, testSource())

	quote := c.PriceFor("Rua Qualquer, 1", -3.1130, -60.0348)
	if quote.Price != 0 {
		t.Fatalf("price = %v, want 0", quote.Price)
	}
	if quote.Rule.Label != "no bands configured" {
		t.Fatalf("label = %q", quote.Rule.Label)
	}
}
