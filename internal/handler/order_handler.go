package handler

import (
	"net/http"
	"time"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order and sales statistics requests.
type OrderHandler struct {
	service service.OrderService
	now     func() time.Time
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		now:     time.Now,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderIDStr := r.PathValue("id")
	if orderIDStr == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "order ID is required", h.logger)
		return
	}

	orderID, err := uuid.Parse(orderIDStr)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid order ID format", h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// SalesSummary handles GET /api/statistics/sales?from=&to= requests. Both
// bounds are RFC 3339; the default range is the 24 hours up to now.
func (h *OrderHandler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	to := h.now()
	from := to.Add(-24 * time.Hour)

	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid to parameter", h.logger)
			return
		}
		to = t
		from = to.Add(-24 * time.Hour)
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, "invalid from parameter", h.logger)
			return
		}
		from = t
	}

	summary, err := h.service.SalesSummary(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
