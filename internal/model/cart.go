package model

import "math"

// MainCartID addresses the single (storefront / fallback) cart.
const MainCartID = "main"

// LineItem is one product variant in a cart. Display fields are copied at
// insertion time so a cart renders without re-fetching the catalogue, and
// UnitPrice keeps the discount that applied when the item was added.
type LineItem struct {
	ProductID     string `json:"productId"`
	VariantID     string `json:"variantId"`
	Quantity      int    `json:"quantity"`
	UnitPrice     int64  `json:"unitPrice"`
	OriginalPrice int64  `json:"originalPrice"`
	Stock         int    `json:"stock"`
	Name          string `json:"name"`
	Color         string `json:"color,omitempty"`
	Size          string `json:"size,omitempty"`
	Image         string `json:"image,omitempty"`
}

// ItemKey builds the composite line-item key.
func ItemKey(productID, variantID string) string {
	return productID + ":" + variantID
}

// Key returns the composite key of the line item.
func (i LineItem) Key() string {
	return ItemKey(i.ProductID, i.VariantID)
}

// LineTotal is quantity times unit price, saturating at math.MaxInt64.
func (i LineItem) LineTotal() int64 {
	qty := int64(i.Quantity)
	if qty > 0 && i.UnitPrice > 0 && i.UnitPrice > math.MaxInt64/qty {
		return math.MaxInt64
	}
	return qty * i.UnitPrice
}

// AppliedVoucher records a voucher applied to a cart and the amount it took off.
type AppliedVoucher struct {
	Code    string `json:"code"`
	Percent int    `json:"percent"`
	Amount  int64  `json:"amount"`
}

// Cart is an ordered list of line items plus an optional voucher.
type Cart struct {
	ID         string          `json:"id"`
	Label      string          `json:"label"`
	Items      []LineItem      `json:"items"`
	Voucher    *AppliedVoucher `json:"voucher,omitempty"`
	Discount   int64           `json:"discount"`
	CouponCode string          `json:"couponCode,omitempty"`
}

// Subtotal sums the line totals, saturating at math.MaxInt64.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		line := item.LineTotal()
		if line > 0 && total > math.MaxInt64-line {
			return math.MaxInt64
		}
		total += line
	}
	return total
}

// Total is the subtotal less the discount, never below zero.
func (c *Cart) Total() int64 {
	total := c.Subtotal() - c.Discount
	if total < 0 {
		return 0
	}
	return total
}

// Clone returns a deep copy of the cart.
func (c Cart) Clone() Cart {
	out := c
	if c.Items != nil {
		out.Items = make([]LineItem, len(c.Items))
		copy(out.Items, c.Items)
	}
	if c.Voucher != nil {
		v := *c.Voucher
		out.Voucher = &v
	}
	return out
}

// CartView is the JSON shape of a cart including derived totals.
type CartView struct {
	Cart
	Active   bool  `json:"active"`
	Subtotal int64 `json:"subtotal"`
	Total    int64 `json:"total"`
}

// NewCartView derives totals for a cart.
func NewCartView(c Cart, active bool) CartView {
	return CartView{Cart: c, Active: active, Subtotal: c.Subtotal(), Total: c.Total()}
}

// SessionView is the POS state of one terminal.
type SessionView struct {
	TerminalID   string     `json:"terminalId"`
	ActiveCartID string     `json:"activeCartId,omitempty"`
	Carts        []CartView `json:"carts"`
	Main         CartView   `json:"main"`
}

// AddItemRequest is the payload for adding a variant to the routed cart.
type AddItemRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// UpdateQuantityRequest is the payload for adjusting a line item's quantity.
type UpdateQuantityRequest struct {
	Delta int `json:"delta"`
}

// VoucherRequest is the payload for applying a voucher code.
type VoucherRequest struct {
	Code string `json:"code"`
}

// AddItemResponse reports which cart received the item.
type AddItemResponse struct {
	CartID string   `json:"cartId"`
	Cart   CartView `json:"cart"`
}
