package cart

import (
	"sync"

	"storefront/internal/model"
)

// Store is the single cart used by the storefront and as the POS fallback
// when no POS cart is active.
type Store struct {
	mu    sync.Mutex
	lines lines
}

// NewStore creates an empty main cart.
func NewStore() *Store {
	return &Store{lines: lines{cart: model.Cart{ID: model.MainCartID, Label: "Main"}}}
}

// Cart returns a copy of the cart.
func (s *Store) Cart() model.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.cart.Clone()
}

// AddItem adds qty of item, merging with an existing line for the same variant.
func (s *Store) AddItem(item model.LineItem, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.add(item, qty)
}

// UpdateItemQuantity adjusts a line by delta; the line is removed below one.
func (s *Store) UpdateItemQuantity(key string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.update(key, delta)
}

// RemoveItem deletes a line.
func (s *Store) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines.remove(key)
}

// ClearItems empties the cart and drops its voucher.
func (s *Store) ClearItems() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines.clear()
}

// ApplyVoucher records v on the cart, replacing any earlier voucher.
func (s *Store) ApplyVoucher(v model.AppliedVoucher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines.applyVoucher(v)
}

// RemoveVoucher drops the cart's voucher.
func (s *Store) RemoveVoucher() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines.removeVoucher()
}

func (s *Store) restore(c model.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = model.MainCartID
	if c.Label == "" {
		c.Label = "Main"
	}
	s.lines.cart = c.Clone()
}
