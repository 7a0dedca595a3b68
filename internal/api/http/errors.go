package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

var errorKinds = []struct {
	err    error
	kind   string
	status int
}{
	{domain.ErrUnauthorized, "UNAUTHORIZED", http.StatusUnauthorized},
	{domain.ErrForbidden, "FORBIDDEN", http.StatusForbidden},
	{domain.ErrNotFound, "NOT_FOUND", http.StatusNotFound},
	{domain.ErrInvalidTransition, "INVALID_TRANSITION", http.StatusBadRequest},
	{domain.ErrApplianceUnavailable, "APPLIANCE_UNAVAILABLE", http.StatusConflict},
	{domain.ErrNotCancellable, "NOT_CANCELLABLE", http.StatusBadRequest},
	{domain.ErrConflict, "CONFLICT", http.StatusConflict},
	{domain.ErrValidation, "VALIDATION_ERROR", http.StatusBadRequest},
	{domain.ErrDuplicate, "DUPLICATE", http.StatusConflict},
	{domain.ErrTimeout, "TIMEOUT", http.StatusServiceUnavailable},
	{domain.ErrPaymentUnavailable, "PAYMENT_UNAVAILABLE", http.StatusServiceUnavailable},
}

// classify maps an error onto its wire kind and status code.
func classify(err error) (string, int) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind, k.status
		}
	}
	return "INTERNAL", http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind, status := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
		message = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: errorBody{Kind: kind, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Validationf("invalid request body: %v", err)
	}
	return nil
}
