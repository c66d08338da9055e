package dispatch

import (
	"fmt"
	"log"
	"sort"

	"delivery-dispatch-service/internal/domain"
)

// CreateOrder registers a new PENDING order, assigns the next sequence
// number, prices it through the pricing lookup, and immediately runs the
// batch formation engine so a qualifying batch ships without waiting for the
// next scheduler tick.
func (d *Dispatcher) CreateOrder(address string, lat, lng float64) *domain.Order {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.seq++

	order := &domain.Order{
		ID:        newID(),
		Address:   address,
		Lat:       lat,
		Lng:       lng,
		CreatedAt: now,
		Sequence:  d.seq,
		Status:    domain.OrderPending,
	}

	if d.pricing != nil {
		quote := d.pricing.PriceFor(address, lat, lng)
		order.DeliveryPrice = quote.Price
		rule := quote.Rule
		order.PricingRule = &rule
	}

	d.orders = append(d.orders, order)
	log.Printf("order created order=%s seq=%d", order.ID, order.Sequence)

	d.runBatchingLocked(now)
	d.persistLocked()

	return copyOrder(order)
}

// MarkOrderDelivered records a delivery and recomputes the member route's
// status. courierID identifies the acting courier; pass an empty courierID
// for an administrative confirmation, which skips the ownership check.
func (d *Dispatcher) MarkOrderDelivered(orderID, courierID string) (*domain.Order, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	order := d.orderByIDLocked(orderID)
	if order == nil {
		return nil, fmt.Errorf("mark delivered: order %s: %w", orderID, ErrNotFound)
	}
	if courierID != "" && order.CourierID != courierID {
		return nil, fmt.Errorf("mark delivered: order %s is not assigned to courier %s: %w", orderID, courierID, ErrForbidden)
	}
	if order.Status == domain.OrderDelivered {
		return nil, fmt.Errorf("mark delivered: order %s already delivered: %w", orderID, ErrInvalidState)
	}
	if order.Status != domain.OrderOnRoute {
		return nil, fmt.Errorf("mark delivered: order %s is not out for delivery: %w", orderID, ErrInvalidState)
	}

	order.Status = domain.OrderDelivered
	log.Printf("order delivered order=%s courier=%s", order.ID, order.CourierID)

	if order.RouteID != "" {
		if route := d.routeByIDLocked(order.RouteID); route != nil {
			d.refreshRouteProgressLocked(route)
		}
	}

	d.persistLocked()
	return copyOrder(order), nil
}

// UpdateOrder applies an administrative correction: address or coordinate
// changes trigger re-pricing; a status override is guarded so references stay
// consistent with the target state.
type OrderUpdate struct {
	Address *string
	Lat     *float64
	Lng     *float64
	Status  *domain.OrderStatus
}

func (d *Dispatcher) UpdateOrder(orderID string, upd OrderUpdate) (*domain.Order, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	order := d.orderByIDLocked(orderID)
	if order == nil {
		return nil, fmt.Errorf("update order: order %s: %w", orderID, ErrNotFound)
	}

	locationChanged := false
	if upd.Address != nil && *upd.Address != "" {
		order.Address = *upd.Address
		locationChanged = true
	}
	if upd.Lat != nil && upd.Lng != nil {
		order.Lat = *upd.Lat
		order.Lng = *upd.Lng
		locationChanged = true
	}
	if locationChanged && d.pricing != nil {
		quote := d.pricing.PriceFor(order.Address, order.Lat, order.Lng)
		order.DeliveryPrice = quote.Price
		rule := quote.Rule
		order.PricingRule = &rule
	}

	if upd.Status != nil {
		status := *upd.Status
		switch status {
		case domain.OrderPending, domain.OrderQueued, domain.OrderOnRoute, domain.OrderDelivered:
		default:
			return nil, fmt.Errorf("update order: unknown status %q: %w", status, ErrInvalidState)
		}
		if (status == domain.OrderOnRoute || status == domain.OrderDelivered) && order.CourierID == "" {
			return nil, fmt.Errorf("update order: order %s has no courier: %w", orderID, ErrInvalidState)
		}
		if status == domain.OrderQueued && order.RouteID == "" {
			return nil, fmt.Errorf("update order: order %s is not linked to a route: %w", orderID, ErrInvalidState)
		}
		if status == domain.OrderPending {
			order.CourierID = ""
			order.RouteID = ""
		}
		order.Status = status
	}

	d.persistLocked()
	return copyOrder(order), nil
}

// DeleteOrder removes an order. Orders already on route or delivered require
// force. When the order was the last member of its route, the route completes
// and its courier is released; otherwise the route's status is recomputed.
func (d *Dispatcher) DeleteOrder(orderID string, force bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := -1
	for i, o := range d.orders {
		if o.ID == orderID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("delete order: order %s: %w", orderID, ErrNotFound)
	}

	order := d.orders[idx]
	if !force && (order.Status == domain.OrderOnRoute || order.Status == domain.OrderDelivered) {
		return fmt.Errorf("delete order: order %s is on route or delivered: %w", orderID, ErrInvalidState)
	}

	if order.RouteID != "" {
		if route := d.routeByIDLocked(order.RouteID); route != nil {
			kept := route.OrderIDs[:0]
			for _, id := range route.OrderIDs {
				if id != order.ID {
					kept = append(kept, id)
				}
			}
			route.OrderIDs = kept

			if len(route.OrderIDs) == 0 {
				route.Status = domain.RouteDone
				d.releaseCourierLocked(route)
			} else {
				d.refreshRouteProgressLocked(route)
			}
		}
	}

	d.orders = append(d.orders[:idx], d.orders[idx+1:]...)
	log.Printf("order deleted order=%s force=%t", orderID, force)
	d.persistLocked()
	return nil
}

// ListOrders returns copies of all orders sorted by sequence.
func (d *Dispatcher) ListOrders() []*domain.Order {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*domain.Order, 0, len(d.orders))
	for _, o := range d.orders {
		out = append(out, copyOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

// GetOrder returns a copy of one order.
func (d *Dispatcher) GetOrder(orderID string) (*domain.Order, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	order := d.orderByIDLocked(orderID)
	if order == nil {
		return nil, fmt.Errorf("get order: order %s: %w", orderID, ErrNotFound)
	}
	return copyOrder(order), nil
}
