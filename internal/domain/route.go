package domain

import "time"

// Lifecycle state of a route.
type RouteStatus string

const (
	RouteAwaitingCourier RouteStatus = "AWAITING_COURIER"
	RouteAssigned        RouteStatus = "ASSIGNED"
	RouteInProgress      RouteStatus = "IN_PROGRESS"
	RouteDone            RouteStatus = "DONE"
)

// A batch of orders to be delivered together by one courier.
//
// OrderIDs is non-empty at creation and keeps its visiting order for the
// lifetime of the route. CourierID is empty while AWAITING_COURIER.
type Route struct {
	ID         string      `json:"id"`
	CourierID  string      `json:"courierId,omitempty"`
	OrderIDs   []string    `json:"orderIds"`
	Status     RouteStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	MapsURL    string      `json:"mapsUrl,omitempty"`
	TotalPrice float64     `json:"totalPrice"`
}

// DeriveRouteStatus computes the route status implied by its members and
// courier presence. It is the single source of truth for route status: callers
// recompute through it after every member delivery instead of hand-setting.
//
// A route already IN_PROGRESS stays IN_PROGRESS even when no member has been
// delivered yet (the courier has started driving).
func DeriveRouteStatus(r *Route, deliveredCount, memberCount int, wasInProgress bool) RouteStatus {
	if memberCount > 0 && deliveredCount == memberCount {
		return RouteDone
	}
	if deliveredCount > 0 || wasInProgress {
		return RouteInProgress
	}
	if r.CourierID != "" {
		return RouteAssigned
	}
	return RouteAwaitingCourier
}
