package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"delivery-dispatch-service/internal/dispatch"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeDispatchError maps engine error kinds onto HTTP statuses. Unclassified
// errors are logged and hidden behind a generic 500.
func writeDispatchError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, dispatch.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, dispatch.ErrForbidden):
		writeError(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, dispatch.ErrBatchTooLarge),
		errors.Is(err, dispatch.ErrEmptySelection),
		errors.Is(err, dispatch.ErrEmptyRoute):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, dispatch.ErrInvalidState),
		errors.Is(err, dispatch.ErrCourierUnavailable),
		errors.Is(err, dispatch.ErrActiveRouteExists),
		errors.Is(err, dispatch.ErrNoCourierAvailable):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		log.Printf("unhandled error: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeStrict decodes exactly one JSON object, rejecting unknown fields and
// trailing content.
func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

// decodeOptional is decodeStrict for endpoints where an empty body is a
// valid request.
func decodeOptional(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

func forceParam(r *http.Request) bool {
	v := r.URL.Query().Get("force")
	return v == "true" || v == "1"
}
