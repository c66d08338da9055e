package dispatch

import (
	"fmt"
	"log"
	"strings"

	"delivery-dispatch-service/internal/domain"
)

// CreateCourier registers a new courier. Couriers start OFFLINE and must
// explicitly go available before receiving routes.
func (d *Dispatcher) CreateCourier(name, phone string) (*domain.Courier, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return nil, fmt.Errorf("create courier: name and phone are required: %w", ErrInvalidState)
	}
	for _, c := range d.couriers {
		if c.Phone == phone {
			return nil, fmt.Errorf("create courier: phone %s already registered: %w", phone, ErrInvalidState)
		}
	}

	courier := &domain.Courier{
		ID:     newID(),
		Name:   name,
		Phone:  phone,
		Status: domain.CourierOffline,
	}
	d.couriers = append(d.couriers, courier)
	log.Printf("courier created courier=%s", courier.ID)

	d.persistLocked()
	return copyCourier(courier), nil
}

// SetCourierAvailable toggles a courier to AVAILABLE. Refused while the
// courier is linked to any non-DONE route.
func (d *Dispatcher) SetCourierAvailable(courierID string) (*domain.Courier, error) {
	return d.toggleCourier(courierID, domain.CourierAvailable)
}

// SetCourierOffline toggles a courier to OFFLINE, under the same guard.
func (d *Dispatcher) SetCourierOffline(courierID string) (*domain.Courier, error) {
	return d.toggleCourier(courierID, domain.CourierOffline)
}

func (d *Dispatcher) toggleCourier(courierID string, target domain.CourierStatus) (*domain.Courier, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	courier := d.courierByIDLocked(courierID)
	if courier == nil {
		return nil, fmt.Errorf("set courier %s: courier %s: %w", target, courierID, ErrNotFound)
	}
	if active := d.activeRouteForCourierLocked(courierID); active != nil {
		return nil, fmt.Errorf("set courier %s: courier %s is linked to route %s: %w", target, courierID, active.ID, ErrActiveRouteExists)
	}

	courier.Status = target
	log.Printf("courier availability courier=%s status=%s", courier.ID, courier.Status)

	d.persistLocked()
	return copyCourier(courier), nil
}

// DeleteCourier removes a courier with no active route.
func (d *Dispatcher) DeleteCourier(courierID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := -1
	for i, c := range d.couriers {
		if c.ID == courierID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("delete courier: courier %s: %w", courierID, ErrNotFound)
	}
	if active := d.activeRouteForCourierLocked(courierID); active != nil {
		return fmt.Errorf("delete courier: courier %s is linked to route %s: %w", courierID, active.ID, ErrActiveRouteExists)
	}

	d.couriers = append(d.couriers[:idx], d.couriers[idx+1:]...)
	log.Printf("courier deleted courier=%s", courierID)
	d.persistLocked()
	return nil
}

// ListCouriers returns copies of all couriers.
func (d *Dispatcher) ListCouriers() []*domain.Courier {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*domain.Courier, 0, len(d.couriers))
	for _, c := range d.couriers {
		out = append(out, copyCourier(c))
	}
	return out
}

// CourierActiveRoute returns the courier's current non-DONE route, or
// ErrNotFound when none exists.
func (d *Dispatcher) CourierActiveRoute(courierID string) (*domain.Route, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.courierByIDLocked(courierID) == nil {
		return nil, fmt.Errorf("courier active route: courier %s: %w", courierID, ErrNotFound)
	}
	active := d.activeRouteForCourierLocked(courierID)
	if active == nil {
		return nil, fmt.Errorf("courier active route: courier %s has no active route: %w", courierID, ErrNotFound)
	}
	return copyRoute(active), nil
}
