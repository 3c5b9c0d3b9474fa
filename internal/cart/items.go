// Package cart holds the in-memory cart state for storefront and POS
// terminals: a single main cart, up to MaxCarts parallel POS carts, and the
// routing between them.
package cart

import (
	"storefront/internal/model"
)

// lines implements the line-item rules shared by every cart. Callers hold
// the owning store's lock.
type lines struct {
	cart model.Cart
}

func (l *lines) index(key string) int {
	for i, item := range l.cart.Items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

// add merges qty into an existing line or appends a new one. A result above
// the variant stock is rejected and leaves the cart untouched.
func (l *lines) add(item model.LineItem, qty int) error {
	if qty <= 0 {
		return model.ErrInvalidQuantity
	}

	if i := l.index(item.Key()); i >= 0 {
		existing := &l.cart.Items[i]
		stock := item.Stock
		if next := existing.Quantity + qty; next > stock {
			return model.ErrInsufficientStock
		}
		existing.Quantity += qty
		existing.Stock = stock
		return nil
	}

	if qty > item.Stock {
		return model.ErrInsufficientStock
	}
	item.Quantity = qty
	l.cart.Items = append(l.cart.Items, item)
	return nil
}

// update adjusts a line by delta. Dropping below one removes the line;
// exceeding stock is rejected.
func (l *lines) update(key string, delta int) error {
	i := l.index(key)
	if i < 0 {
		return model.ErrItemNotFound
	}

	next := l.cart.Items[i].Quantity + delta
	if next < 1 {
		l.removeAt(i)
		return nil
	}
	if next > l.cart.Items[i].Stock {
		return model.ErrInsufficientStock
	}
	l.cart.Items[i].Quantity = next
	return nil
}

func (l *lines) remove(key string) error {
	i := l.index(key)
	if i < 0 {
		return model.ErrItemNotFound
	}
	l.removeAt(i)
	return nil
}

func (l *lines) removeAt(i int) {
	l.cart.Items = append(l.cart.Items[:i], l.cart.Items[i+1:]...)
}

// clear empties the items and drops any voucher, discount and coupon.
func (l *lines) clear() {
	l.cart.Items = nil
	l.cart.Voucher = nil
	l.cart.Discount = 0
	l.cart.CouponCode = ""
}

func (l *lines) applyVoucher(v model.AppliedVoucher) {
	l.cart.Voucher = &v
	l.cart.Discount = v.Amount
	l.cart.CouponCode = v.Code
}

func (l *lines) removeVoucher() {
	l.cart.Voucher = nil
	l.cart.Discount = 0
	l.cart.CouponCode = ""
}
