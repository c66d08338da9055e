package handlers

import (
	"net/http"

	"delivery-dispatch-service/internal/api/dto"
	"delivery-dispatch-service/internal/dispatch"
	"delivery-dispatch-service/internal/platform/obs"
)

type RouteHandler struct {
	Engine *dispatch.Dispatcher
}

func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	routes := h.Engine.ListRoutes()
	out := make([]dto.RouteResponse, 0, len(routes))
	for _, route := range routes {
		orders, err := h.Engine.RouteOrders(route.ID)
		if err != nil {
			writeDispatchError(w, r, err)
			return
		}
		out = append(out, dto.RouteResponse{Route: route, Orders: orders})
	}
	writeJSON(w, r, http.StatusOK, out)
}

// CreateManual forms a route from a hand-picked order selection.
func (h *RouteHandler) CreateManual(w http.ResponseWriter, r *http.Request) {
	var req dto.ManualRouteRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	route, err := h.Engine.CreateManualRoute(req.OrderIDs)
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, route)
}

func (h *RouteHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var err error
	defer obs.Time(r.Context(), "assign route")(&err)

	var req dto.AssignRouteRequest
	if err = decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.CourierID == "" {
		writeError(w, r, http.StatusBadRequest, "courierId is required")
		return
	}

	route, err := h.Engine.AssignRoute(r.PathValue("id"), req.CourierID)
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, route)
}

// AssignAuto delegates courier choice to the fairness ranking.
func (h *RouteHandler) AssignAuto(w http.ResponseWriter, r *http.Request) {
	var err error
	defer obs.Time(r.Context(), "auto assign route")(&err)

	assignment, err := h.Engine.AssignRouteAutomatically(r.PathValue("id"))
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, assignment)
}

// SuggestCourier previews the fairness choice without committing it.
func (h *RouteHandler) SuggestCourier(w http.ResponseWriter, r *http.Request) {
	suggestion, err := h.Engine.SuggestCourier(r.PathValue("id"))
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, suggestion)
}

func (h *RouteHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req dto.StartRouteRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.CourierID == "" {
		writeError(w, r, http.StatusBadRequest, "courierId is required")
		return
	}

	route, err := h.Engine.StartRoute(r.PathValue("id"), req.CourierID)
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, route)
}

func (h *RouteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.DeleteRoute(r.PathValue("id"), forceParam(r)); err != nil {
		writeDispatchError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
