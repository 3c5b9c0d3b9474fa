package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// PromotionHandler handles promotion administration requests.
type PromotionHandler struct {
	service service.PromotionService
	logger  zerolog.Logger
}

// NewPromotionHandler creates a new promotion handler.
func NewPromotionHandler(service service.PromotionService, logger zerolog.Logger) *PromotionHandler {
	return &PromotionHandler{
		service: service,
		logger:  logger.With().Str("handler", "promotion").Logger(),
	}
}

// List handles GET /api/promotions requests.
func (h *PromotionHandler) List(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, promotions)
}

// Create handles POST /api/promotions requests.
func (h *PromotionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.PromotionRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	promo, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, promo)
}
