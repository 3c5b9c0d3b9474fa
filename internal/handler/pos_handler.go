package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// POSHandler handles point-of-sale cart requests. Every request is scoped
// to the terminal named in the X-Terminal-ID header.
type POSHandler struct {
	service service.POSService
	logger  zerolog.Logger
}

// NewPOSHandler creates a new POS handler.
func NewPOSHandler(service service.POSService, logger zerolog.Logger) *POSHandler {
	return &POSHandler{
		service: service,
		logger:  logger.With().Str("handler", "pos").Logger(),
	}
}

// Session handles GET /api/pos/carts.
func (h *POSHandler) Session(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Session(r.Context(), terminalID(r))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CreateCart handles POST /api/pos/carts.
func (h *POSHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.CreateCart(r.Context(), terminalID(r))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// DeleteCart handles DELETE /api/pos/carts/{id}.
func (h *POSHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCart(r.Context(), terminalID(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetActive handles PUT /api/pos/carts/{id}/active.
func (h *POSHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.SetActive(r.Context(), terminalID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Deactivate handles DELETE /api/pos/active.
func (h *POSHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Deactivate(r.Context(), terminalID(r))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AddItem handles POST /api/pos/items. The item lands in the active POS
// cart, or in the main cart when none is active.
func (h *POSHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req model.AddItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	resp, err := h.service.AddItem(r.Context(), terminalID(r), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateItem handles PATCH /api/pos/carts/{id}/items/{key}.
func (h *POSHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateQuantityRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.Delta == 0 {
		writeServiceError(w, r, model.ErrInvalidQuantity, h.logger)
		return
	}

	c, err := h.service.UpdateItemQuantity(r.Context(), terminalID(r), r.PathValue("id"), r.PathValue("key"), req.Delta)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// RemoveItem handles DELETE /api/pos/carts/{id}/items/{key}.
func (h *POSHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.RemoveItem(r.Context(), terminalID(r), r.PathValue("id"), r.PathValue("key"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ClearItems handles DELETE /api/pos/carts/{id}/items.
func (h *POSHandler) ClearItems(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.ClearItems(r.Context(), terminalID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ApplyVoucher handles POST /api/pos/carts/{id}/voucher.
func (h *POSHandler) ApplyVoucher(w http.ResponseWriter, r *http.Request) {
	var req model.VoucherRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.Code == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "voucher code is required", h.logger)
		return
	}

	c, err := h.service.ApplyVoucher(r.Context(), terminalID(r), r.PathValue("id"), req.Code)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// RemoveVoucher handles DELETE /api/pos/carts/{id}/voucher.
func (h *POSHandler) RemoveVoucher(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.RemoveVoucher(r.Context(), terminalID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Checkout handles POST /api/pos/carts/{id}/checkout.
func (h *POSHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Checkout(r.Context(), terminalID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}
