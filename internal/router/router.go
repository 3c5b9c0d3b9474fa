package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Product   *handler.ProductHandler
	Promotion *handler.PromotionHandler
	POS       *handler.POSHandler
	Order     *handler.OrderHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, apiKey string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Catalogue
	mux.HandleFunc("GET /api/products", h.Product.List)
	mux.HandleFunc("GET /api/products/{id}", h.Product.GetByID)

	// Promotions
	mux.HandleFunc("GET /api/promotions", h.Promotion.List)
	mux.HandleFunc("POST /api/promotions", h.Promotion.Create)

	// Point of sale
	mux.HandleFunc("GET /api/pos/carts", h.POS.Session)
	mux.HandleFunc("POST /api/pos/carts", h.POS.CreateCart)
	mux.HandleFunc("DELETE /api/pos/carts/{id}", h.POS.DeleteCart)
	mux.HandleFunc("PUT /api/pos/carts/{id}/active", h.POS.SetActive)
	mux.HandleFunc("DELETE /api/pos/active", h.POS.Deactivate)
	mux.HandleFunc("POST /api/pos/items", h.POS.AddItem)
	mux.HandleFunc("PATCH /api/pos/carts/{id}/items/{key}", h.POS.UpdateItem)
	mux.HandleFunc("DELETE /api/pos/carts/{id}/items/{key}", h.POS.RemoveItem)
	mux.HandleFunc("DELETE /api/pos/carts/{id}/items", h.POS.ClearItems)
	mux.HandleFunc("POST /api/pos/carts/{id}/voucher", h.POS.ApplyVoucher)
	mux.HandleFunc("DELETE /api/pos/carts/{id}/voucher", h.POS.RemoveVoucher)
	mux.HandleFunc("POST /api/pos/carts/{id}/checkout", h.POS.Checkout)

	// Orders and reporting
	mux.HandleFunc("GET /api/orders/{id}", h.Order.GetByID)
	mux.HandleFunc("GET /api/statistics/sales", h.Order.SalesSummary)

	// Apply middleware in order: RequestID -> Recovery -> Logging -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}
