package domain

import "time"

// Lifecycle state of a single delivery order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderQueued    OrderStatus = "QUEUED"
	OrderOnRoute   OrderStatus = "ON_ROUTE"
	OrderDelivered OrderStatus = "DELIVERED"
)

// Summary of the pricing rule that produced an order's delivery price.
type PricingRuleSummary struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

// Represents a single delivery request.
//
// Sequence is a strictly increasing creation counter, globally unique and
// independent of wall-clock time. It drives FIFO tie-breaking in batch
// formation.
//
// CourierID and RouteID are set together while the order travels on a route
// and cleared together when the order reverts to PENDING.
type Order struct {
	ID            string              `json:"id"`
	Address       string              `json:"address"`
	Lat           float64             `json:"lat"`
	Lng           float64             `json:"lng"`
	CreatedAt     time.Time           `json:"createdAt"`
	Sequence      int64               `json:"sequence"`
	Status        OrderStatus         `json:"status"`
	CourierID     string              `json:"courierId,omitempty"`
	RouteID       string              `json:"routeId,omitempty"`
	DeliveryPrice float64             `json:"deliveryPrice,omitempty"`
	PricingRule   *PricingRuleSummary `json:"pricingRule,omitempty"`
}

// Coordinates of the order's destination.
func (o *Order) Coordinates() LatLng { return LatLng{Lat: o.Lat, Lng: o.Lng} }
