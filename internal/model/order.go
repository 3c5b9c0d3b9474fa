package model

import (
	"time"

	"github.com/google/uuid"
)

// Order is a checked-out cart.
type Order struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TerminalID  string    `json:"terminalId" db:"terminal_id"`
	CartLabel   string    `json:"cartLabel" db:"cart_label"`
	VoucherCode *string   `json:"voucherCode,omitempty" db:"voucher_code"`
	Subtotal    int64     `json:"subtotal" db:"subtotal"`
	Discount    int64     `json:"discount" db:"discount"`
	Total       int64     `json:"total" db:"total"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// OrderItem represents a line item in an order.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	VariantID string    `json:"variantId" db:"variant_id"`
	Name      string    `json:"name" db:"name"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice int64     `json:"unitPrice" db:"unit_price"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	Order
	Items []OrderItem `json:"items"`
}

// SalesSummary aggregates orders created in [From, To).
type SalesSummary struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Orders    int       `json:"orders"`
	ItemsSold int       `json:"itemsSold"`
	Revenue   int64     `json:"revenue"`
	Discount  int64     `json:"discount"`
}
