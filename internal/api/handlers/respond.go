package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finpal/finpal-be/internal/services"
)

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes a JSON error body with a message field.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondServiceError maps the service error taxonomy to HTTP status
// codes. Ownership violations are 403, missing resources 404; anything
// unrecognized is a 500 with the fallback message.
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrForbidden):
		respondError(w, http.StatusForbidden, "Not authorized")
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, "Expense not found")
	case errors.Is(err, services.ErrEmailTaken):
		respondError(w, http.StatusConflict, "User already exists")
	default:
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
