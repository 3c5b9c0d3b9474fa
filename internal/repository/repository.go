package repository

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves products ordered by name, with their variants.
	List(ctx context.Context, limit, offset int) ([]model.Product, error)

	// Count returns the number of products.
	Count(ctx context.Context) (int, error)

	// GetByID retrieves a single product with its variants, or nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products with their variants.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// DecrementStock takes qty units of a variant within tx. It fails with
	// model.ErrInsufficientStock when fewer units remain.
	DecrementStock(ctx context.Context, tx pgx.Tx, variantID string, qty int) error
}

// PromotionRepository defines the interface for promotion data access operations.
type PromotionRepository interface {
	// ListActive retrieves promotions whose status is ACTIVE, regardless of
	// their validity window.
	ListActive(ctx context.Context) ([]model.Promotion, error)

	// List retrieves every promotion, newest first.
	List(ctx context.Context) ([]model.Promotion, error)

	// Create inserts a promotion.
	Create(ctx context.Context, promo *model.Promotion) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// SalesSummary aggregates orders created in [from, to).
	SalesSummary(ctx context.Context, from, to time.Time) (*model.SalesSummary, error)
}
