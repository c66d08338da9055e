package domain

// Lifecycle state of a courier.
//
// ASSIGNED and ON_TRIP are only ever entered through route transitions;
// explicit availability toggles move couriers between OFFLINE and AVAILABLE.
type CourierStatus string

const (
	CourierOffline   CourierStatus = "OFFLINE"
	CourierAvailable CourierStatus = "AVAILABLE"
	CourierAssigned  CourierStatus = "ASSIGNED"
	CourierOnTrip    CourierStatus = "ON_TRIP"
)

// A delivery agent. At most one non-DONE route may reference a courier.
type Courier struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Phone  string        `json:"phone"`
	Status CourierStatus `json:"status"`
}
