// Package dispatch implements the dispatch engine: batch formation, the
// order/route/courier state machines, and fairness-based courier assignment,
// over a single serialized in-memory state set.
package dispatch

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/ports"
)

// Dispatcher owns the dispatch state. Every mutating operation runs to
// completion under one mutex, so no caller ever observes a half-updated
// order/route pair; exported methods return copies, never live references.
//
// Persistence is a best-effort side effect: a failed SaveAll is logged and
// surfaced nowhere else, in-memory state is not rolled back.
type Dispatcher struct {
	mu       sync.Mutex
	orders   []*domain.Order
	couriers []*domain.Courier
	routes   []*domain.Route
	bands    []domain.PricingBand
	zones    []domain.PricingZone
	seq      int64

	// The restaurant profile has its own lock so the routing configuration
	// and pricing origin can be read while a mutation holds mu.
	profileMu  sync.RWMutex
	restaurant domain.RestaurantProfile

	pricing ports.PricingLookup
	store   ports.SnapshotStore

	// Overridable clock for deterministic tests.
	now func() time.Time
}

// New builds a Dispatcher from a loaded snapshot. The sequence counter
// resumes past the highest persisted order sequence.
func New(snap *ports.Snapshot, pricing ports.PricingLookup, store ports.SnapshotStore) *Dispatcher {
	d := &Dispatcher{
		orders:     snap.Orders,
		couriers:   snap.Couriers,
		routes:     snap.Routes,
		bands:      snap.PricingBands,
		zones:      snap.PricingZones,
		restaurant: snap.Restaurant,
		pricing:    pricing,
		store:      store,
		now:        time.Now,
	}
	for _, o := range d.orders {
		if o.Sequence > d.seq {
			d.seq = o.Sequence
		}
	}
	return d
}

// SetPricing installs the pricing lookup. The lookup reads the profile back
// through the dispatcher, so it is wired after construction.
func (d *Dispatcher) SetPricing(pricing ports.PricingLookup) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pricing = pricing
}

// CurrentRoutingConfig returns the routing configuration as of now. The batch
// formation engine reads through this on every run; updates to the restaurant
// profile take effect on the next invocation.
func (d *Dispatcher) CurrentRoutingConfig() domain.RoutingConfig {
	d.profileMu.RLock()
	defer d.profileMu.RUnlock()
	return d.restaurant.RoutingConfig()
}

// CurrentProfile returns a copy of the restaurant profile.
func (d *Dispatcher) CurrentProfile() domain.RestaurantProfile {
	d.profileMu.RLock()
	defer d.profileMu.RUnlock()
	return d.restaurant
}

// Tick re-runs the batch formation engine against the pending set. It is
// invoked by the periodic scheduler to catch SLA expirations when no new
// order arrives, and is an idempotent no-op when nothing is eligible.
func (d *Dispatcher) Tick(now time.Time) BatchOutcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	plan := d.runBatchingLocked(now)
	if len(plan.Batches) > 0 {
		d.persistLocked()
	}
	return plan.Outcome
}

// RunTickLoop invokes Tick at the given interval until ctx is cancelled.
// Overlapping triggers serialize on the dispatcher mutex; a tick that finds
// nothing to do is a cheap no-op.
func (d *Dispatcher) RunTickLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if outcome := d.Tick(d.now()); outcome == OutcomeBatched {
				log.Printf("scheduler tick formed routes outcome=%s", outcome)
			}
		}
	}
}

// runBatchingLocked runs one batch formation pass and materializes the
// planned routes. Callers must hold mu.
func (d *Dispatcher) runBatchingLocked(now time.Time) BatchPlan {
	cfg := d.CurrentRoutingConfig()
	pending := d.pendingOrdersLocked()

	plan := PlanBatches(pending, cfg, now)
	for _, batch := range plan.Batches {
		route := d.materializeRouteLocked(batch, cfg.Origin, now)
		log.Printf("batch formed route=%s orders=%d outcome=%s", route.ID, len(batch), plan.Outcome)
	}
	return plan
}

// materializeRouteLocked creates an AWAITING_COURIER route from the selected
// orders and marks each of them QUEUED with the new route reference.
func (d *Dispatcher) materializeRouteLocked(batch []*domain.Order, origin domain.LatLng, now time.Time) *domain.Route {
	route := &domain.Route{
		ID:        newID(),
		OrderIDs:  make([]string, 0, len(batch)),
		Status:    domain.RouteAwaitingCourier,
		CreatedAt: now,
		MapsURL:   BuildMapsURL(origin, batch),
	}
	for _, o := range batch {
		route.OrderIDs = append(route.OrderIDs, o.ID)
		route.TotalPrice += o.DeliveryPrice
		o.Status = domain.OrderQueued
		o.RouteID = route.ID
		o.CourierID = ""
	}
	d.routes = append(d.routes, route)
	return route
}

func (d *Dispatcher) pendingOrdersLocked() []*domain.Order {
	pending := make([]*domain.Order, 0, len(d.orders))
	for _, o := range d.orders {
		if o.Status == domain.OrderPending {
			pending = append(pending, o)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Sequence < pending[j].Sequence })
	return pending
}

// persistLocked writes the full state back to the snapshot store. Callers
// must hold mu.
func (d *Dispatcher) persistLocked() {
	if d.store == nil {
		return
	}
	d.profileMu.RLock()
	snap := &ports.Snapshot{
		Orders:       d.orders,
		Couriers:     d.couriers,
		Routes:       d.routes,
		PricingBands: d.bands,
		PricingZones: d.zones,
		Restaurant:   d.restaurant,
	}
	d.profileMu.RUnlock()

	if err := d.store.SaveAll(snap); err != nil {
		log.Printf("persist failed err=%v", err)
	}
}

func (d *Dispatcher) orderByIDLocked(id string) *domain.Order {
	for _, o := range d.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (d *Dispatcher) courierByIDLocked(id string) *domain.Courier {
	for _, c := range d.couriers {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (d *Dispatcher) routeByIDLocked(id string) *domain.Route {
	for _, r := range d.routes {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// activeRouteForCourierLocked returns the most recent non-DONE route linked
// to the courier, or nil.
func (d *Dispatcher) activeRouteForCourierLocked(courierID string) *domain.Route {
	var active *domain.Route
	for _, r := range d.routes {
		if r.CourierID != courierID || r.Status == domain.RouteDone {
			continue
		}
		if active == nil || r.CreatedAt.After(active.CreatedAt) {
			active = r
		}
	}
	return active
}

func copyOrder(o *domain.Order) *domain.Order {
	c := *o
	if o.PricingRule != nil {
		rule := *o.PricingRule
		c.PricingRule = &rule
	}
	return &c
}

func copyRoute(r *domain.Route) *domain.Route {
	c := *r
	c.OrderIDs = append([]string(nil), r.OrderIDs...)
	return &c
}

func copyCourier(c *domain.Courier) *domain.Courier {
	cp := *c
	return &cp
}
