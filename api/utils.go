package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"signal-studio/sigerrors"
)

// getIntParam retrieves a positive integer query parameter with a
// default value. Zero falls back to the default too: list endpoints
// must never run without a limit.
func getIntParam(r *http.Request, key string, defaultVal int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		return defaultVal
	}
	return val
}

// writeJSON encodes a response body with the given status code
func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// errorBody is the JSON shape of every error response. Validation
// failures carry the full reason list, never just the first one.
type errorBody struct {
	Error   string   `json:"error"`
	Reasons []string `json:"reasons,omitempty"`
}

// writeError maps the error taxonomy onto HTTP statuses:
// InvalidParameters → 400, NotFound → 404, StoreUnavailable → 503,
// IntegrityViolation and everything else → 500. Integrity violations
// are logged with full context and never presented as input errors.
func writeError(w http.ResponseWriter, err error) {
	var ipe *sigerrors.InvalidParametersError
	switch {
	case errors.As(err, &ipe):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid parameters", Reasons: ipe.Reasons})
	case sigerrors.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case sigerrors.IsStoreUnavailable(err):
		log.Printf("API Error [503]: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "storage temporarily unavailable"})
	case sigerrors.IsIntegrityViolation(err):
		log.Printf("🚨 API Error [500] integrity violation: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal integrity error"})
	default:
		log.Printf("API Error [500]: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
