package dispatch

import (
	"errors"
	"testing"

	"delivery-dispatch-service/internal/adapters/pricing"
	"delivery-dispatch-service/internal/domain"
)

func testBands() []domain.PricingBand {
	return []domain.PricingBand{
		{ID: "b1", MaxDistanceKm: 3, Price: 5},
		{ID: "b2", MaxDistanceKm: 10, Price: 10},
		{ID: "b3", MaxDistanceKm: 30, Price: 15},
	}
}

func pricedEngine(t *testing.T) *Dispatcher {
	t.Helper()
	profile := testProfile()
	profile.MinBatch = 10 // keep orders pending
	profile.HoldMinutes = 0
	d, _ := newTestEngine(profile)

	zones := []domain.PricingZone{{ID: "z1", Name: "Centro fixo", MatchText: "centro", Price: 12}}
	d.SetPricing(pricing.NewCalculator(testBands(), zones, d))
	return d
}

func TestCreateOrderPricesThroughLookup(t *testing.T) {
	d := pricedEngine(t)

	near := d.CreateOrder("Rua Perto, 5", -3.1130, -60.0348)
	if near.DeliveryPrice != 5 {
		t.Fatalf("near price = %v, want 5", near.DeliveryPrice)
	}
	if near.PricingRule == nil || near.PricingRule.Type != "DISTANCE" {
		t.Fatalf("near rule = %+v", near.PricingRule)
	}

	zoned := d.CreateOrder("Av. Eduardo Ribeiro, 900 - Centro", -3.13, -60.02)
	if zoned.DeliveryPrice != 12 {
		t.Fatalf("zone price = %v, want 12", zoned.DeliveryPrice)
	}
	if zoned.PricingRule == nil || zoned.PricingRule.Type != "ZONE" || zoned.PricingRule.Label != "Centro fixo" {
		t.Fatalf("zone rule = %+v", zoned.PricingRule)
	}
}

func TestUpdateOrderRepricesOnMove(t *testing.T) {
	d := pricedEngine(t)

	order := d.CreateOrder("Rua Perto, 5", -3.1130, -60.0348)

	lat, lng := -3.1620, -60.0348 // ~5.6 km out
	updated, err := d.UpdateOrder(order.ID, OrderUpdate{Lat: &lat, Lng: &lng})
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}
	if updated.DeliveryPrice != 10 {
		t.Fatalf("price after move = %v, want 10", updated.DeliveryPrice)
	}

	lat = -3.32 // ~23 km out, past the 15 km radius
	updated, err = d.UpdateOrder(order.ID, OrderUpdate{Lat: &lat, Lng: &lng})
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}
	if updated.DeliveryPrice != 15 {
		t.Fatalf("price beyond radius = %v, want widest band 15", updated.DeliveryPrice)
	}
	if updated.PricingRule.Label != "beyond delivery radius (15 km)" {
		t.Fatalf("rule label = %q", updated.PricingRule.Label)
	}
}

func TestUpdateOrderStatusGuards(t *testing.T) {
	d := pricedEngine(t)
	order := d.CreateOrder("Rua Perto, 5", -3.1130, -60.0348)

	onRoute := domain.OrderOnRoute
	if _, err := d.UpdateOrder(order.ID, OrderUpdate{Status: &onRoute}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("ON_ROUTE without courier err = %v, want ErrInvalidState", err)
	}

	queued := domain.OrderQueued
	if _, err := d.UpdateOrder(order.ID, OrderUpdate{Status: &queued}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("QUEUED without route err = %v, want ErrInvalidState", err)
	}

	bogus := domain.OrderStatus("LOST")
	if _, err := d.UpdateOrder(order.ID, OrderUpdate{Status: &bogus}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("unknown status err = %v, want ErrInvalidState", err)
	}
}

func TestUpdateOrderBackToPendingClearsReferences(t *testing.T) {
	d, _ := newTestEngine(testProfile())
	route := makeRoute(t, d)

	pending := domain.OrderPending
	updated, err := d.UpdateOrder(route.OrderIDs[0], OrderUpdate{Status: &pending})
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}
	if updated.Status != domain.OrderPending || updated.RouteID != "" || updated.CourierID != "" {
		t.Fatalf("order after reset = %+v", updated)
	}
}

func TestDeleteOrderGuardsAndRouteCleanup(t *testing.T) {
	d, _ := newTestEngine(testProfile())
	route := makeRoute(t, d)
	courier := availableCourier(t, d, "Ana", "555-0001")
	if _, err := d.AssignRoute(route.ID, courier.ID); err != nil {
		t.Fatalf("AssignRoute: %v", err)
	}

	// Members are ON_ROUTE now; deleting one needs force.
	if err := d.DeleteOrder(route.OrderIDs[0], false); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("delete on-route order err = %v, want ErrInvalidState", err)
	}
	if err := d.DeleteOrder(route.OrderIDs[0], true); err != nil {
		t.Fatalf("forced DeleteOrder: %v", err)
	}

	// Deleting the last member completes the route and frees the courier.
	if err := d.DeleteOrder(route.OrderIDs[1], true); err != nil {
		t.Fatalf("forced DeleteOrder: %v", err)
	}
	got, err := d.GetRoute(route.ID)
	if err != nil {
		t.Fatalf("GetRoute: %v", err)
	}
	if got.Status != domain.RouteDone {
		t.Fatalf("route status = %s, want DONE after losing all members", got.Status)
	}
	for _, c := range d.ListCouriers() {
		if c.Status != domain.CourierAvailable {
			t.Fatalf("courier status = %s, want AVAILABLE", c.Status)
		}
	}
	if err := d.DeleteOrder("missing", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing err = %v, want ErrNotFound", err)
	}
}
