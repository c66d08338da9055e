package handlers

import (
	"net/http"
	"time"

	"delivery-dispatch-service/internal/dispatch"
)

type ReportHandler struct {
	Engine *dispatch.Dispatcher
}

// Orders summarizes order volume and value inside an optional [from, to]
// window. Bounds accept RFC 3339 timestamps or plain dates.
func (h *ReportHandler) Orders(w http.ResponseWriter, r *http.Request) {
	from, ok := parseBound(w, r, "from")
	if !ok {
		return
	}
	to, ok := parseBound(w, r, "to")
	if !ok {
		return
	}
	// A date-only upper bound means "through that day".
	if to != nil && r.URL.Query().Get("to") == to.Format("2006-01-02") {
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}

	writeJSON(w, r, http.StatusOK, h.Engine.Report(from, to))
}

func parseBound(w http.ResponseWriter, r *http.Request, key string) (*time.Time, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	writeError(w, r, http.StatusBadRequest, key+" must be an RFC 3339 timestamp or YYYY-MM-DD date")
	return nil, false
}
