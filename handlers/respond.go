package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/raulgonca/projectsync/errs"
	"github.com/raulgonca/projectsync/logging"
	"github.com/raulgonca/projectsync/middleware"
	"github.com/raulgonca/projectsync/utils"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps error kinds to HTTP status codes in one place. Unknown
// errors become a 500 with a generic message so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"
	switch {
	case errors.Is(err, errs.ErrValidation):
		status, message = http.StatusBadRequest, errs.Message(err)
	case errors.Is(err, errs.ErrUnauthorized):
		status, message = http.StatusUnauthorized, errs.Message(err)
	case errors.Is(err, errs.ErrForbidden):
		status, message = http.StatusForbidden, errs.Message(err)
	case errors.Is(err, errs.ErrNotFound):
		status, message = http.StatusNotFound, errs.Message(err)
	case errors.Is(err, errs.ErrConflict):
		status, message = http.StatusConflict, errs.Message(err)
	case errors.Is(err, errs.ErrConfiguration):
		status, message = http.StatusInternalServerError, errs.Message(err)
	default:
		logging.Logger.Errorf("Event ID: INTERNAL_ERROR, Description: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": message})
}

// caller returns the authenticated claims or replies 401.
func caller(w http.ResponseWriter, r *http.Request) (*utils.Claims, bool) {
	claims, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no authenticated user"})
		return nil, false
	}
	return claims, true
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.Validation("invalid request format")
	}
	return nil
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errs.Validation("invalid id")
	}
	return uint(id), nil
}
