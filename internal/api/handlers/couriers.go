package handlers

import (
	"net/http"

	"delivery-dispatch-service/internal/api/dto"
	"delivery-dispatch-service/internal/dispatch"
)

type CourierHandler struct {
	Engine *dispatch.Dispatcher
}

func (h *CourierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCourierRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	courier, err := h.Engine.CreateCourier(req.Name, req.Phone)
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, courier)
}

func (h *CourierHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.Engine.ListCouriers())
}

func (h *CourierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.DeleteCourier(r.PathValue("id")); err != nil {
		writeDispatchError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CourierHandler) Available(w http.ResponseWriter, r *http.Request) {
	courier, err := h.Engine.SetCourierAvailable(r.PathValue("id"))
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, courier)
}

func (h *CourierHandler) Offline(w http.ResponseWriter, r *http.Request) {
	courier, err := h.Engine.SetCourierOffline(r.PathValue("id"))
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, courier)
}

// CurrentRoute returns the courier's active route with its member orders.
func (h *CourierHandler) CurrentRoute(w http.ResponseWriter, r *http.Request) {
	route, err := h.Engine.CourierActiveRoute(r.PathValue("id"))
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}

	orders, err := h.Engine.RouteOrders(route.ID)
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.RouteResponse{Route: route, Orders: orders})
}
