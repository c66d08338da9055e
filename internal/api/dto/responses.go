package dto

import "delivery-dispatch-service/internal/domain"

// RouteResponse expands a route with its member orders in visiting order.
type RouteResponse struct {
	*domain.Route
	Orders []*domain.Order `json:"orders"`
}
