package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"food-orders/internal/middleware"
	"food-orders/internal/model"
	"food-orders/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already sent, so an encoding failure cannot be reported.
	_ = json.NewEncoder(w).Encode(data)
}

// writeMessage writes an error body carrying message and no details.
func writeMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, model.ErrorResponse{
		Error:         message,
		CorrelationID: middleware.RequestIDFrom(r.Context()),
	})
}

// writeError maps err to a status code and writes the error body. Errors
// that are not DomainErrors are logged and reported generically.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	de, ok := model.AsDomainError(err)
	if !ok || de.Kind == model.KindInternal {
		logger.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.RequestIDFrom(r.Context())).
			Msg("request failed")
		writeMessage(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	status := statusFor(de.Kind)
	logger.Debug().
		Str("code", de.Code).
		Int("status", status).
		Str("path", r.URL.Path).
		Msg(de.Message)

	writeJSON(w, status, model.ErrorResponse{
		Error:         de.Message,
		Details:       de.Details,
		CorrelationID: middleware.RequestIDFrom(r.Context()),
	})
}

// statusFor returns the HTTP status for an error kind.
func statusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindConflict:
		return http.StatusConflict
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindAuthentication:
		return http.StatusUnauthorized
	case model.KindAuthorization:
		return http.StatusForbidden
	default:
		// business_rule included: insufficient stock is reported as a server error.
		return http.StatusInternalServerError
	}
}

// decodeAndValidate reads a JSON body into dst and checks its rules.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validation.Validator, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return model.ErrInvalidJSON
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.NewDomainError(model.KindValidation, model.ErrCodeInvalidJSON, "request body too large")
		}
		return model.ErrInvalidJSON
	}

	return v.Struct(dst)
}

// orderIDParam parses the {id} path parameter, which must be a positive integer.
func orderIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError([]model.FieldError{
			{Field: "id", Message: "id must be a positive integer"},
		})
	}
	return id, nil
}
