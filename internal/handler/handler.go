package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

const (
	// TerminalHeader identifies the POS terminal a cart request belongs to.
	TerminalHeader = "X-Terminal-ID"

	// DefaultTerminal is used when a request carries no terminal id.
	DefaultTerminal = "default"

	maxBodyBytes = 1 << 20
)

// writeJSON writes a JSON response with the given status code. The status
// is already sent when encoding starts, so encode errors are dropped.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", code).
		Str("message", message).
		Int("status", status).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	})
}

// writeServiceError maps a service error onto an HTTP response. Domain
// errors keep their code and message; anything else is a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var derr *model.DomainError
	if !errors.As(err, &derr) {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
		return
	}
	writeError(w, r, statusFor(derr.Code), derr.Code, derr.Message, logger)
}

func statusFor(code string) int {
	switch code {
	case model.ErrCodeProductNotFound,
		model.ErrCodeVariantNotFound,
		model.ErrCodeCartNotFound,
		model.ErrCodeItemNotFound,
		model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodeCartLimitReached,
		model.ErrCodeInsufficientStock,
		model.ErrCodeSessionConflict:
		return http.StatusConflict
	case model.ErrCodeInvalidVoucher,
		model.ErrCodeVoucherMinOrder,
		model.ErrCodeEmptyCart:
		return http.StatusUnprocessableEntity
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// decodeJSON reads a JSON request body into v. It writes the 400 response
// itself and reports false when the body is unusable.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, logger zerolog.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}

// terminalID returns the terminal a POS request belongs to.
func terminalID(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(TerminalHeader))
	if id == "" {
		return DefaultTerminal
	}
	return id
}
