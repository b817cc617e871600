package api

import (
	"encoding/json"
	"net/http"

	"shareit/internal/apperr"
)

// errorResponse is the JSON error body shared by both tiers.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	message := err.Error()
	if kind == apperr.KindInternal {
		message = "internal server error"
	}
	writeJSON(w, statusOf(kind), errorResponse{Message: message, Error: string(kind)})
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation, apperr.KindUnavailable, apperr.KindUnsupportedState:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindAccessDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid JSON body")
	}
	return nil
}
