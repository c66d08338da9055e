package handlers

import (
	"net/http"

	"delivery-dispatch-service/internal/api/dto"
	"delivery-dispatch-service/internal/dispatch"
)

type RestaurantHandler struct {
	Engine *dispatch.Dispatcher
}

func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.Engine.CurrentProfile())
}

// Update replaces the operation profile. Batching thresholds left out of the
// request keep their current values.
func (h *RestaurantHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.RestaurantRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	profile := h.Engine.CurrentProfile()
	profile.Name = req.Name
	profile.Address = req.Address
	profile.Lat = req.Lat
	profile.Lng = req.Lng
	profile.ContactPhone = req.ContactPhone
	profile.MaxRadiusKm = req.MaxRadiusKm
	if req.MinBatch != nil {
		profile.MinBatch = *req.MinBatch
	}
	if req.MaxBatch != nil {
		profile.MaxBatch = *req.MaxBatch
	}
	if req.MaxWaitMinutes != nil {
		profile.MaxWaitMinutes = *req.MaxWaitMinutes
	}
	if req.SmartBatchHoldMinutes != nil {
		profile.HoldMinutes = *req.SmartBatchHoldMinutes
	}

	updated, err := h.Engine.UpdateRestaurant(profile)
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}
