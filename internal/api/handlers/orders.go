package handlers

import (
	"math"
	"net/http"
	"strings"

	"delivery-dispatch-service/internal/api/dto"
	"delivery-dispatch-service/internal/dispatch"
	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/platform/obs"
)

type OrderHandler struct {
	Engine *dispatch.Dispatcher
}

// Create registers a new order. Pricing and batch formation run inside the
// engine before the response is written, so the returned order already
// reflects any batch it joined.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var err error
	defer obs.Time(r.Context(), "create order")(&err)

	var req dto.CreateOrderRequest
	if err = decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Address) == "" {
		writeError(w, r, http.StatusBadRequest, "address is required")
		return
	}
	if math.IsNaN(req.Lat) || math.IsNaN(req.Lng) {
		writeError(w, r, http.StatusBadRequest, "lat and lng must be valid coordinates")
		return
	}

	order := h.Engine.CreateOrder(strings.TrimSpace(req.Address), req.Lat, req.Lng)
	writeJSON(w, r, http.StatusCreated, order)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.Engine.ListOrders())
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateOrderRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	upd := dispatch.OrderUpdate{
		Address: req.Address,
		Lat:     req.Lat,
		Lng:     req.Lng,
	}
	if req.Status != nil {
		status := domain.OrderStatus(*req.Status)
		upd.Status = &status
	}

	order, err := h.Engine.UpdateOrder(r.PathValue("id"), upd)
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, order)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.DeleteOrder(r.PathValue("id"), forceParam(r)); err != nil {
		writeDispatchError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delivered confirms a delivery. An empty courierId is an administrative
// confirmation; a courier confirming their own delivery sends their id and
// is rejected when the order belongs to someone else.
func (h *OrderHandler) Delivered(w http.ResponseWriter, r *http.Request) {
	var req dto.DeliveredRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.Engine.MarkOrderDelivered(r.PathValue("id"), req.CourierID)
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, order)
}
