package api

import (
	"net/http"

	"delivery-dispatch-service/internal/api/handlers"
	"delivery-dispatch-service/internal/dispatch"
)

// NewRouter wires HTTP handlers to the dispatch engine and returns an
// http.Handler. This is the API composition root.
func NewRouter(engine *dispatch.Dispatcher) http.Handler {
	mux := http.NewServeMux()

	orders := &handlers.OrderHandler{Engine: engine}
	couriers := &handlers.CourierHandler{Engine: engine}
	routes := &handlers.RouteHandler{Engine: engine}
	restaurant := &handlers.RestaurantHandler{Engine: engine}
	reports := &handlers.ReportHandler{Engine: engine}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("POST /orders", orders.Create)
	mux.HandleFunc("GET /orders", orders.List)
	mux.HandleFunc("PUT /orders/{id}", orders.Update)
	mux.HandleFunc("DELETE /orders/{id}", orders.Delete)
	mux.HandleFunc("POST /orders/{id}/delivered", orders.Delivered)

	mux.HandleFunc("POST /couriers", couriers.Create)
	mux.HandleFunc("GET /couriers", couriers.List)
	mux.HandleFunc("DELETE /couriers/{id}", couriers.Delete)
	mux.HandleFunc("POST /couriers/{id}/available", couriers.Available)
	mux.HandleFunc("POST /couriers/{id}/offline", couriers.Offline)
	mux.HandleFunc("GET /couriers/{id}/current-route", couriers.CurrentRoute)

	mux.HandleFunc("GET /routes", routes.List)
	mux.HandleFunc("POST /routes/manual", routes.CreateManual)
	mux.HandleFunc("POST /routes/{id}/assign", routes.Assign)
	mux.HandleFunc("POST /routes/{id}/assign/auto", routes.AssignAuto)
	mux.HandleFunc("GET /routes/{id}/suggest-courier", routes.SuggestCourier)
	mux.HandleFunc("POST /routes/{id}/start", routes.Start)
	mux.HandleFunc("DELETE /routes/{id}", routes.Delete)

	mux.HandleFunc("GET /restaurant", restaurant.Get)
	mux.HandleFunc("PUT /restaurant", restaurant.Update)

	mux.HandleFunc("GET /reports/orders", reports.Orders)

	return requestIDMiddleware(loggingMiddleware(mux))
}
