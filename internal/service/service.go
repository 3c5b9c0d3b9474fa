package service

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// CatalogService defines read operations on the priced catalogue.
type CatalogService interface {
	// List retrieves one page of products with active promotions applied.
	List(ctx context.Context, page, limit int) (*model.ProductPage, error)

	// GetByID retrieves a single priced product by ID.
	GetByID(ctx context.Context, id string) (*model.PricedProduct, error)
}

// PromotionService defines operations for promotion administration.
type PromotionService interface {
	// List retrieves every promotion.
	List(ctx context.Context) ([]model.Promotion, error)

	// Create validates and stores a new promotion.
	Create(ctx context.Context, req *model.PromotionRequest) (*model.Promotion, error)
}

// POSService defines the cart operations of a point-of-sale terminal.
type POSService interface {
	// Session returns every cart of the terminal.
	Session(ctx context.Context, terminalID string) (*model.SessionView, error)

	// CreateCart opens a new POS cart. The new cart is not activated.
	CreateCart(ctx context.Context, terminalID string) (*model.CartView, error)

	// DeleteCart discards a POS cart.
	DeleteCart(ctx context.Context, terminalID, cartID string) error

	// SetActive points routed writes at a POS cart.
	SetActive(ctx context.Context, terminalID, cartID string) (*model.SessionView, error)

	// Deactivate routes writes back to the main cart.
	Deactivate(ctx context.Context, terminalID string) (*model.SessionView, error)

	// AddItem adds a product variant to the routed cart at its current price.
	AddItem(ctx context.Context, terminalID string, req *model.AddItemRequest) (*model.AddItemResponse, error)

	// UpdateItemQuantity adjusts a line item by delta.
	UpdateItemQuantity(ctx context.Context, terminalID, cartID, key string, delta int) (*model.CartView, error)

	// RemoveItem deletes a line item.
	RemoveItem(ctx context.Context, terminalID, cartID, key string) (*model.CartView, error)

	// ClearItems empties a cart.
	ClearItems(ctx context.Context, terminalID, cartID string) (*model.CartView, error)

	// ApplyVoucher applies a voucher code to a cart.
	ApplyVoucher(ctx context.Context, terminalID, cartID, code string) (*model.CartView, error)

	// RemoveVoucher drops the voucher of a cart.
	RemoveVoucher(ctx context.Context, terminalID, cartID string) (*model.CartView, error)

	// Checkout turns a cart into an order.
	Checkout(ctx context.Context, terminalID, cartID string) (*model.OrderResponse, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// CreateFromCart persists a cart as an order and takes its items out of stock.
	CreateFromCart(ctx context.Context, terminalID string, cart model.Cart) (*model.OrderResponse, error)

	// GetByID retrieves an order by its ID with all items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)

	// SalesSummary aggregates orders created in [from, to).
	SalesSummary(ctx context.Context, from, to time.Time) (*model.SalesSummary, error)
}
