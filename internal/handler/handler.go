package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"medicine-catalog/internal/model"

	"github.com/rs/zerolog"
)

// serverErrorMessage is the only detail a client sees for unexpected failures.
const serverErrorMessage = "Server Error"

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// errorResponse maps err to a status code and client-safe body.
// Validation failures give 400, unknown medicines 404, anything else 500.
func errorResponse(err error) (int, model.ErrorResponse) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		switch {
		case domainErr.IsValidation():
			return http.StatusBadRequest, model.ErrorResponse{Error: domainErr.Code, Message: domainErr.Message}
		case domainErr.Code == model.ErrCodeMedicineNotFound:
			return http.StatusNotFound, model.ErrorResponse{Error: domainErr.Code, Message: domainErr.Message}
		}
	}
	return http.StatusInternalServerError, model.ErrorResponse{Error: model.ErrCodeInternalError, Message: serverErrorMessage}
}

func logError(logger zerolog.Logger, r *http.Request, status int, err error) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("handler error")
}

// writeError writes err as a JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	status, body := errorResponse(err)
	logError(logger, r, status, err)
	writeJSON(w, status, body)
}

// writeTextError writes err as a plain text response for browser routes.
func writeTextError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	status, body := errorResponse(err)
	logError(logger, r, status, err)
	http.Error(w, body.Message, status)
}
