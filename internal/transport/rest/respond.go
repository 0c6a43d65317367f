package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fitforge/fitplan-backend/internal/domain"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error  string          `json:"error"`
	Code   string          `json:"code"`
	Fields []fieldErrorDTO `json:"fields,omitempty"`
}

type fieldErrorDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// writeError maps domain errors onto HTTP statuses. Anything unrecognized
// becomes a 500 with a generic message; internals never leak to clients.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		fields := make([]fieldErrorDTO, len(verr.Errors))
		for i, fe := range verr.Errors {
			fields[i] = fieldErrorDTO{Field: fe.Field, Message: fe.Message}
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Code:   "VALIDATION_ERROR",
			Fields: fields,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "VALIDATION_ERROR"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required", Code: "UNAUTHORIZED"})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "access denied", Code: "FORBIDDEN"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "NOT_FOUND"})
	case errors.Is(err, domain.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "ALREADY_EXISTS"})
	default:
		log.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "INTERNAL"})
	}
}
