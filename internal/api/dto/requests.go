// Package dto defines the HTTP request and response shapes, keeping wire
// concerns out of the dispatch engine.
package dto

type CreateOrderRequest struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Pointer fields distinguish "absent" from "zero" on partial updates.
type UpdateOrderRequest struct {
	Address *string  `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Status  *string  `json:"status"`
}

type DeliveredRequest struct {
	CourierID string `json:"courierId"`
}

type CreateCourierRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type ManualRouteRequest struct {
	OrderIDs []string `json:"orderIds"`
}

type AssignRouteRequest struct {
	CourierID string `json:"courierId"`
}

type StartRouteRequest struct {
	CourierID string `json:"courierId"`
}

type RestaurantRequest struct {
	Name                  string  `json:"name"`
	Address               string  `json:"address"`
	Lat                   float64 `json:"lat"`
	Lng                   float64 `json:"lng"`
	ContactPhone          string  `json:"contactPhone"`
	MaxRadiusKm           float64 `json:"maxRadiusKm"`
	MinBatch              *int    `json:"minBatch"`
	MaxBatch              *int    `json:"maxBatch"`
	MaxWaitMinutes        *int    `json:"maxWaitMinutes"`
	SmartBatchHoldMinutes *int    `json:"smartBatchHoldMinutes"`
}
