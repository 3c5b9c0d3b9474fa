package cart

import (
	"fmt"
	"sync"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// MaxCarts is the number of POS carts a terminal may hold at once.
const MaxCarts = 5

// MultiStore holds up to MaxCarts POS carts in creation order and a pointer
// to the active one. An empty active pointer routes writes to the main cart.
type MultiStore struct {
	mu       sync.Mutex
	carts    []*lines
	activeID string
	newID    func() string
}

// NewMultiStore creates an empty POS cart store.
func NewMultiStore() *MultiStore {
	return &MultiStore{newID: func() string { return uuid.NewString() }}
}

// CreateCart appends a new empty cart labelled with the lowest free slot
// number. It fails with ErrCartLimitReached once MaxCarts exist. The new
// cart is not activated.
func (m *MultiStore) CreateCart() (model.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.carts) >= MaxCarts {
		return model.Cart{}, model.ErrCartLimitReached
	}

	l := &lines{cart: model.Cart{ID: m.newID(), Label: m.freeLabel()}}
	m.carts = append(m.carts, l)
	return l.cart.Clone(), nil
}

func (m *MultiStore) freeLabel() string {
	used := make(map[string]bool, len(m.carts))
	for _, l := range m.carts {
		used[l.cart.Label] = true
	}
	for n := 1; ; n++ {
		label := fmt.Sprintf("Cart %d", n)
		if !used[label] {
			return label
		}
	}
}

// SetActive points the active cart at id. Unknown ids are ignored.
func (m *MultiStore) SetActive(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.find(id) == nil {
		return false
	}
	m.activeID = id
	return true
}

// Deactivate clears the active pointer.
func (m *MultiStore) Deactivate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeID = ""
}

// DeleteCart removes a cart; deleting the active cart clears the pointer.
func (m *MultiStore) DeleteCart(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, l := range m.carts {
		if l.cart.ID == id {
			m.carts = append(m.carts[:i], m.carts[i+1:]...)
			if m.activeID == id {
				m.activeID = ""
			}
			return nil
		}
	}
	return model.ErrCartNotFound
}

// ActiveCart returns a copy of the active cart.
func (m *MultiStore) ActiveCart() (model.Cart, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l := m.find(m.activeID); l != nil {
		return l.cart.Clone(), true
	}
	return model.Cart{}, false
}

// ActiveID returns the active cart id, or "" when none is active.
func (m *MultiStore) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// Cart returns a copy of the cart with the given id.
func (m *MultiStore) Cart(id string) (model.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := m.find(id)
	if l == nil {
		return model.Cart{}, model.ErrCartNotFound
	}
	return l.cart.Clone(), nil
}

// Carts returns copies of all carts in creation order.
func (m *MultiStore) Carts() []model.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Cart, len(m.carts))
	for i, l := range m.carts {
		out[i] = l.cart.Clone()
	}
	return out
}

// Len returns the number of carts.
func (m *MultiStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.carts)
}

// AddItem adds qty of item to cart id.
func (m *MultiStore) AddItem(id string, item model.LineItem, qty int) error {
	return m.with(id, func(l *lines) error { return l.add(item, qty) })
}

// UpdateItemQuantity adjusts a line of cart id by delta.
func (m *MultiStore) UpdateItemQuantity(id, key string, delta int) error {
	return m.with(id, func(l *lines) error { return l.update(key, delta) })
}

// RemoveItem deletes a line from cart id.
func (m *MultiStore) RemoveItem(id, key string) error {
	return m.with(id, func(l *lines) error { return l.remove(key) })
}

// ClearItems empties cart id and drops its voucher without deleting the cart.
func (m *MultiStore) ClearItems(id string) error {
	return m.with(id, func(l *lines) error {
		l.clear()
		return nil
	})
}

// ApplyVoucher records v on cart id.
func (m *MultiStore) ApplyVoucher(id string, v model.AppliedVoucher) error {
	return m.with(id, func(l *lines) error {
		l.applyVoucher(v)
		return nil
	})
}

// RemoveVoucher drops the voucher of cart id.
func (m *MultiStore) RemoveVoucher(id string) error {
	return m.with(id, func(l *lines) error {
		l.removeVoucher()
		return nil
	})
}

func (m *MultiStore) with(id string, fn func(*lines) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := m.find(id)
	if l == nil {
		return model.ErrCartNotFound
	}
	return fn(l)
}

func (m *MultiStore) find(id string) *lines {
	if id == "" {
		return nil
	}
	for _, l := range m.carts {
		if l.cart.ID == id {
			return l
		}
	}
	return nil
}

func (m *MultiStore) restore(carts []model.Cart, activeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.carts = m.carts[:0]
	for _, c := range carts {
		if len(m.carts) == MaxCarts {
			break
		}
		m.carts = append(m.carts, &lines{cart: c.Clone()})
	}
	m.activeID = ""
	if m.find(activeID) != nil {
		m.activeID = activeID
	}
}
