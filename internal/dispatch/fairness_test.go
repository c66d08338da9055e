package dispatch

import (
	"errors"
	"testing"
	"time"

	"delivery-dispatch-service/internal/domain"
)

// fairnessFixture gives an engine that never auto-batches, six pending
// orders to carve manual routes from, and a controllable clock.
func fairnessFixture(t *testing.T) (*Dispatcher, *time.Time, []string) {
	t.Helper()
	profile := testProfile()
	profile.MinBatch = 10
	profile.HoldMinutes = 0
	d, clock := newTestEngine(profile)

	ids := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		o := d.CreateOrder("Rua X", -3.1120+float64(i)*0.05, -60.0348)
		ids = append(ids, o.ID)
	}
	return d, clock, ids
}

func finishRoute(t *testing.T, d *Dispatcher, routeID string) {
	t.Helper()
	orders, err := d.RouteOrders(routeID)
	if err != nil {
		t.Fatalf("RouteOrders: %v", err)
	}
	for _, o := range orders {
		if _, err := d.MarkOrderDelivered(o.ID, ""); err != nil {
			t.Fatalf("MarkOrderDelivered: %v", err)
		}
	}
}

func TestSuggestCourierPrefersNeverServed(t *testing.T) {
	d, clock, ids := fairnessFixture(t)
	ana := availableCourier(t, d, "Ana", "555-0001")
	bia := availableCourier(t, d, "Bia", "555-0002")

	r1, err := d.CreateManualRoute(ids[0:2])
	if err != nil {
		t.Fatalf("CreateManualRoute: %v", err)
	}

	suggestion, err := d.SuggestCourier(r1.ID)
	if err != nil {
		t.Fatalf("SuggestCourier: %v", err)
	}
	if suggestion.Courier.ID != ana.ID {
		t.Fatalf("suggested %s, want first-registered %s on a clean slate", suggestion.Courier.ID, ana.ID)
	}
	if suggestion.Reason != "no routes served yet" {
		t.Fatalf("reason = %q", suggestion.Reason)
	}

	assignment, err := d.AssignRouteAutomatically(r1.ID)
	if err != nil {
		t.Fatalf("AssignRouteAutomatically: %v", err)
	}
	if assignment.Courier.ID != ana.ID || assignment.Courier.Status != domain.CourierAssigned {
		t.Fatalf("assignment courier = %+v", assignment.Courier)
	}
	finishRoute(t, d, r1.ID)

	*clock = clock.Add(10 * time.Minute)
	r2, err := d.CreateManualRoute(ids[2:4])
	if err != nil {
		t.Fatalf("CreateManualRoute: %v", err)
	}

	suggestion, err = d.SuggestCourier(r2.ID)
	if err != nil {
		t.Fatalf("SuggestCourier: %v", err)
	}
	if suggestion.Courier.ID != bia.ID {
		t.Fatalf("suggested %s, want never-served %s", suggestion.Courier.ID, bia.ID)
	}
}

func TestSuggestCourierRanksByLastRouteStart(t *testing.T) {
	d, clock, ids := fairnessFixture(t)
	ana := availableCourier(t, d, "Ana", "555-0001")
	availableCourier(t, d, "Bia", "555-0002")

	r1, err := d.CreateManualRoute(ids[0:2])
	if err != nil {
		t.Fatalf("CreateManualRoute: %v", err)
	}
	if _, err := d.AssignRouteAutomatically(r1.ID); err != nil {
		t.Fatalf("AssignRouteAutomatically: %v", err)
	}
	finishRoute(t, d, r1.ID)

	*clock = clock.Add(10 * time.Minute)
	r2, err := d.CreateManualRoute(ids[2:4])
	if err != nil {
		t.Fatalf("CreateManualRoute: %v", err)
	}
	if _, err := d.AssignRouteAutomatically(r2.ID); err != nil {
		t.Fatalf("AssignRouteAutomatically: %v", err)
	}
	finishRoute(t, d, r2.ID)

	// Both served now; Ana's route is the older one.
	*clock = clock.Add(10 * time.Minute)
	r3, err := d.CreateManualRoute(ids[4:6])
	if err != nil {
		t.Fatalf("CreateManualRoute: %v", err)
	}

	suggestion, err := d.SuggestCourier(r3.ID)
	if err != nil {
		t.Fatalf("SuggestCourier: %v", err)
	}
	if suggestion.Courier.ID != ana.ID {
		t.Fatalf("suggested %s, want %s with the oldest last route", suggestion.Courier.ID, ana.ID)
	}
	wantReason := "last route started at " + r1.CreatedAt.Format(time.RFC3339)
	if suggestion.Reason != wantReason {
		t.Fatalf("reason = %q, want %q", suggestion.Reason, wantReason)
	}
}

func TestSuggestCourierErrors(t *testing.T) {
	d, _, ids := fairnessFixture(t)

	r1, err := d.CreateManualRoute(ids[0:2])
	if err != nil {
		t.Fatalf("CreateManualRoute: %v", err)
	}

	if _, err := d.SuggestCourier(r1.ID); !errors.Is(err, ErrNoCourierAvailable) {
		t.Fatalf("no couriers err = %v, want ErrNoCourierAvailable", err)
	}
	if _, err := d.SuggestCourier("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing route err = %v, want ErrNotFound", err)
	}

	courier := availableCourier(t, d, "Ana", "555-0001")
	if _, err := d.AssignRoute(r1.ID, courier.ID); err != nil {
		t.Fatalf("AssignRoute: %v", err)
	}
	if _, err := d.SuggestCourier(r1.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("assigned route err = %v, want ErrInvalidState", err)
	}
}
