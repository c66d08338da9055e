package ports

import "delivery-dispatch-service/internal/domain"

// Full persisted state of the dispatch operation. Loaded once at startup and
// written back after every successful mutation.
type Snapshot struct {
	Orders       []*domain.Order
	Couriers     []*domain.Courier
	Routes       []*domain.Route
	PricingBands []domain.PricingBand
	PricingZones []domain.PricingZone
	Restaurant   domain.RestaurantProfile
}

// Port: durable storage of the dispatch state. Durability is best-effort for
// the engine; a failed SaveAll is surfaced but does not roll back memory.
type SnapshotStore interface {
	LoadAll() (*Snapshot, error)
	SaveAll(snap *Snapshot) error
}
