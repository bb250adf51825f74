// Package respond centralizes JSON responses and the error-to-status
// mapping. Internal error detail never reaches the caller.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dreamdive/dreamdive/internal/model"
)

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error        string `json:"error"`
	Code         int    `json:"code"`
	Message      string `json:"message,omitempty"`
	RequiresAuth bool   `json:"requiresAuth,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// WriteError writes a standardized error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Code:    statusCode,
		Message: message,
	})
}

// FromError maps a service error onto a status code and safe message.
func FromError(w http.ResponseWriter, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteError(w, http.StatusBadRequest, ve.Reason)
	case errors.Is(err, model.ErrDuplicateEmail):
		WriteError(w, http.StatusBadRequest, model.ErrDuplicateEmail.Error())
	case errors.Is(err, model.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, model.ErrInvalidCredentials.Error())
	case errors.Is(err, model.ErrInvalidSession):
		WriteError(w, http.StatusBadRequest, model.ErrInvalidSession.Error())
	case errors.Is(err, model.ErrQuotaRequiresAuth):
		WriteJSON(w, http.StatusForbidden, ErrorResponse{
			Error:        http.StatusText(http.StatusForbidden),
			Code:         http.StatusForbidden,
			Message:      model.ErrQuotaRequiresAuth.Error(),
			RequiresAuth: true,
		})
	case errors.Is(err, model.ErrQuotaExhausted):
		WriteError(w, http.StatusForbidden, model.ErrQuotaExhausted.Error())
	case errors.Is(err, model.ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, model.ErrUnauthenticated.Error())
	case errors.Is(err, model.ErrNotFound):
		WriteError(w, http.StatusNotFound, model.ErrNotFound.Error())
	case errors.Is(err, model.ErrInterpreterUnavailable):
		WriteError(w, http.StatusInternalServerError, "dream analysis failed, please try again")
	default:
		log.Error().Stack().Err(err).Msg("request failed")
		WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
