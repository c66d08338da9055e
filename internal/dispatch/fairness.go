package dispatch

import (
	"fmt"
	"sort"
	"time"

	"delivery-dispatch-service/internal/domain"
)

// Outcome of an automatic assignment: the route, the chosen courier, and a
// human-readable justification for the choice.
type AutoAssignment struct {
	Route   *domain.Route   `json:"route"`
	Courier *domain.Courier `json:"courier"`
	Reason  string          `json:"reason"`
}

// Suggestion pairs a candidate courier with the fairness justification.
type Suggestion struct {
	Courier *domain.Courier `json:"courier"`
	Reason  string          `json:"reason"`
}

// SuggestCourier ranks the AVAILABLE couriers for an AWAITING_COURIER route
// by fairness: ascending start time of the most recent route ever linked to
// them, with never-served couriers ranking first. Ties keep registry order.
func (d *Dispatcher) SuggestCourier(routeID string) (*Suggestion, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.suggestCourierLocked(routeID)
}

func (d *Dispatcher) suggestCourierLocked(routeID string) (*Suggestion, error) {
	route := d.routeByIDLocked(routeID)
	if route == nil {
		return nil, fmt.Errorf("suggest courier: route %s: %w", routeID, ErrNotFound)
	}
	if route.Status != domain.RouteAwaitingCourier {
		return nil, fmt.Errorf("suggest courier: route %s already assigned or finished: %w", routeID, ErrInvalidState)
	}

	type ranked struct {
		courier  *domain.Courier
		lastSeen time.Time
		served   bool
	}

	candidates := make([]ranked, 0, len(d.couriers))
	for _, c := range d.couriers {
		if c.Status != domain.CourierAvailable {
			continue
		}
		last, served := d.lastRouteStartLocked(c.ID)
		candidates = append(candidates, ranked{courier: c, lastSeen: last, served: served})
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("suggest courier: route %s: %w", routeID, ErrNoCourierAvailable)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.served || !b.served {
			return !a.served && b.served
		}
		return a.lastSeen.Before(b.lastSeen)
	})

	best := candidates[0]
	reason := "no routes served yet"
	if best.served {
		reason = fmt.Sprintf("last route started at %s", best.lastSeen.Format(time.RFC3339))
	}
	return &Suggestion{Courier: copyCourier(best.courier), Reason: reason}, nil
}

// lastRouteStartLocked finds the creation time of the most recent route ever
// linked to the courier, regardless of that route's current state.
func (d *Dispatcher) lastRouteStartLocked(courierID string) (time.Time, bool) {
	var last time.Time
	served := false
	for _, r := range d.routes {
		if r.CourierID != courierID {
			continue
		}
		if !served || r.CreatedAt.After(last) {
			last = r.CreatedAt
		}
		served = true
	}
	return last, served
}

// AssignRouteAutomatically picks the fairest AVAILABLE courier and assigns
// the route to them.
func (d *Dispatcher) AssignRouteAutomatically(routeID string) (*AutoAssignment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	suggestion, err := d.suggestCourierLocked(routeID)
	if err != nil {
		return nil, err
	}
	route, err := d.assignRouteLocked(routeID, suggestion.Courier.ID)
	if err != nil {
		return nil, err
	}

	d.persistLocked()
	return &AutoAssignment{
		Route:   copyRoute(route),
		Courier: copyCourier(d.courierByIDLocked(suggestion.Courier.ID)),
		Reason:  suggestion.Reason,
	}, nil
}
