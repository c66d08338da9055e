package dispatch

import (
	"fmt"
	"log"
	"sort"

	"delivery-dispatch-service/internal/domain"
)

// AssignRoute moves an AWAITING_COURIER route to ASSIGNED: all member orders
// go ON_ROUTE with courier and route references, the courier goes ASSIGNED.
// The target courier must be AVAILABLE.
func (d *Dispatcher) AssignRoute(routeID, courierID string) (*domain.Route, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	route, err := d.assignRouteLocked(routeID, courierID)
	if err != nil {
		return nil, err
	}
	d.persistLocked()
	return copyRoute(route), nil
}

func (d *Dispatcher) assignRouteLocked(routeID, courierID string) (*domain.Route, error) {
	route := d.routeByIDLocked(routeID)
	if route == nil {
		return nil, fmt.Errorf("assign route: route %s: %w", routeID, ErrNotFound)
	}
	if route.Status != domain.RouteAwaitingCourier {
		return nil, fmt.Errorf("assign route: route %s already assigned or finished: %w", routeID, ErrInvalidState)
	}

	courier := d.courierByIDLocked(courierID)
	if courier == nil {
		return nil, fmt.Errorf("assign route: courier %s: %w", courierID, ErrNotFound)
	}
	if courier.Status != domain.CourierAvailable {
		return nil, fmt.Errorf("assign route: courier %s: %w", courierID, ErrCourierUnavailable)
	}

	members := d.routeOrdersLocked(route)
	if len(members) == 0 {
		return nil, fmt.Errorf("assign route: route %s: %w", routeID, ErrEmptyRoute)
	}

	for _, o := range members {
		o.Status = domain.OrderOnRoute
		o.CourierID = courier.ID
		o.RouteID = route.ID
	}
	route.CourierID = courier.ID
	route.Status = domain.RouteAssigned
	courier.Status = domain.CourierAssigned

	log.Printf("route assigned route=%s courier=%s orders=%d", route.ID, courier.ID, len(members))
	return route, nil
}

// StartRoute moves an ASSIGNED route to IN_PROGRESS. Only the assigned
// courier may start; they go ON_TRIP.
func (d *Dispatcher) StartRoute(routeID, courierID string) (*domain.Route, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	route := d.routeByIDLocked(routeID)
	if route == nil {
		return nil, fmt.Errorf("start route: route %s: %w", routeID, ErrNotFound)
	}
	if route.CourierID != courierID {
		return nil, fmt.Errorf("start route: courier %s is not assigned to route %s: %w", courierID, routeID, ErrForbidden)
	}
	if route.Status != domain.RouteAssigned {
		return nil, fmt.Errorf("start route: route %s already started or finished: %w", routeID, ErrInvalidState)
	}

	courier := d.courierByIDLocked(courierID)
	if courier == nil {
		return nil, fmt.Errorf("start route: courier %s: %w", courierID, ErrNotFound)
	}

	route.Status = domain.RouteInProgress
	courier.Status = domain.CourierOnTrip

	log.Printf("route started route=%s courier=%s", route.ID, courier.ID)
	d.persistLocked()
	return copyRoute(route), nil
}

// CreateManualRoute forms one AWAITING_COURIER route from a hand-picked set
// of PENDING orders, bypassing the batch formation engine but honoring the
// same maximum batch size. Members are ordered by creation sequence.
func (d *Dispatcher) CreateManualRoute(orderIDs []string) (*domain.Route, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	unique := make([]string, 0, len(orderIDs))
	seen := make(map[string]bool, len(orderIDs))
	for _, id := range orderIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return nil, fmt.Errorf("create manual route: %w", ErrEmptySelection)
	}

	selected := make([]*domain.Order, 0, len(unique))
	for _, id := range unique {
		order := d.orderByIDLocked(id)
		if order == nil {
			return nil, fmt.Errorf("create manual route: order %s: %w", id, ErrNotFound)
		}
		if order.Status != domain.OrderPending {
			return nil, fmt.Errorf("create manual route: order %s is not pending: %w", id, ErrInvalidState)
		}
		selected = append(selected, order)
	}

	cfg := d.CurrentRoutingConfig()
	if len(selected) > cfg.MaxBatch {
		return nil, fmt.Errorf("create manual route: %d orders selected, maximum is %d: %w", len(selected), cfg.MaxBatch, ErrBatchTooLarge)
	}

	sort.Slice(selected, func(i, j int) bool { return selected[i].Sequence < selected[j].Sequence })

	route := d.materializeRouteLocked(selected, cfg.Origin, d.now())
	log.Printf("manual route created route=%s orders=%d", route.ID, len(selected))

	d.persistLocked()
	return copyRoute(route), nil
}

// DeleteRoute removes a route. Deleting a route that has advanced past
// AWAITING_COURIER requires force, guarding against silent loss of an
// in-flight assignment. Undelivered members revert to PENDING; under force,
// delivered members additionally lose their courier linkage. A courier still
// attached to a non-terminal route returns to AVAILABLE.
func (d *Dispatcher) DeleteRoute(routeID string, force bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := -1
	for i, r := range d.routes {
		if r.ID == routeID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("delete route: route %s: %w", routeID, ErrNotFound)
	}

	route := d.routes[idx]
	if !force && route.Status != domain.RouteAwaitingCourier {
		return fmt.Errorf("delete route: route %s already assigned, force required: %w", routeID, ErrInvalidState)
	}

	for _, orderID := range route.OrderIDs {
		order := d.orderByIDLocked(orderID)
		if order == nil {
			continue
		}
		order.RouteID = ""
		if order.Status == domain.OrderDelivered {
			if force {
				order.CourierID = ""
			}
			continue
		}
		order.Status = domain.OrderPending
		order.CourierID = ""
	}

	// Only a non-terminal route still holds its courier; releasing after DONE
	// could steal a courier already assigned elsewhere.
	if route.Status != domain.RouteDone {
		d.releaseCourierLocked(route)
	}

	d.routes = append(d.routes[:idx], d.routes[idx+1:]...)
	log.Printf("route deleted route=%s force=%t", routeID, force)
	d.persistLocked()
	return nil
}

// refreshRouteProgressLocked recomputes the route status from its members and
// is the only place route status changes after assignment. A fully delivered
// route becomes DONE and releases its courier.
func (d *Dispatcher) refreshRouteProgressLocked(route *domain.Route) {
	members := d.routeOrdersLocked(route)
	delivered := 0
	for _, o := range members {
		if o.Status == domain.OrderDelivered {
			delivered++
		}
	}

	wasInProgress := route.Status == domain.RouteInProgress
	route.Status = domain.DeriveRouteStatus(route, delivered, len(members), wasInProgress)

	if route.Status == domain.RouteDone {
		d.releaseCourierLocked(route)
		log.Printf("route finished route=%s delivered=%d", route.ID, delivered)
	}
}

func (d *Dispatcher) releaseCourierLocked(route *domain.Route) {
	if route.CourierID == "" {
		return
	}
	if courier := d.courierByIDLocked(route.CourierID); courier != nil {
		courier.Status = domain.CourierAvailable
	}
}

func (d *Dispatcher) routeOrdersLocked(route *domain.Route) []*domain.Order {
	members := make([]*domain.Order, 0, len(route.OrderIDs))
	for _, id := range route.OrderIDs {
		if o := d.orderByIDLocked(id); o != nil {
			members = append(members, o)
		}
	}
	return members
}

// ListRoutes returns copies of all routes, newest first.
func (d *Dispatcher) ListRoutes() []*domain.Route {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*domain.Route, 0, len(d.routes))
	for _, r := range d.routes {
		out = append(out, copyRoute(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// GetRoute returns a copy of one route.
func (d *Dispatcher) GetRoute(routeID string) (*domain.Route, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	route := d.routeByIDLocked(routeID)
	if route == nil {
		return nil, fmt.Errorf("get route: route %s: %w", routeID, ErrNotFound)
	}
	return copyRoute(route), nil
}

// RouteOrders returns copies of a route's member orders in visiting order.
func (d *Dispatcher) RouteOrders(routeID string) ([]*domain.Order, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	route := d.routeByIDLocked(routeID)
	if route == nil {
		return nil, fmt.Errorf("route orders: route %s: %w", routeID, ErrNotFound)
	}
	members := d.routeOrdersLocked(route)
	out := make([]*domain.Order, 0, len(members))
	for _, o := range members {
		out = append(out, copyOrder(o))
	}
	return out, nil
}
