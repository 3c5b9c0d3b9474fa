package cart

import (
	"errors"
	"sync"

	"storefront/internal/model"
)

// Session is the cart state of one terminal: the POS carts plus the main
// cart. While a POS cart is active, routed writes land there; otherwise
// they land in the main cart.
type Session struct {
	mu       sync.Mutex
	id       string
	revision string
	Multi    *MultiStore
	Main     *Store
}

// NewSession creates an empty session for a terminal.
func NewSession(terminalID string) *Session {
	return &Session{
		id:    terminalID,
		Multi: NewMultiStore(),
		Main:  NewStore(),
	}
}

// ID returns the terminal id.
func (s *Session) ID() string {
	return s.id
}

// Revision returns the stored revision the session was loaded at, or ""
// when nothing is stored.
func (s *Session) Revision() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

func (s *Session) setRevision(rev string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revision = rev
}

// Empty reports whether the session holds no POS carts and no main cart
// items.
func (s *Session) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Multi.Len() == 0 && len(s.Main.Cart().Items) == 0
}

// AddItem adds qty of item to the active POS cart, or to the main cart
// when none is active, and returns the id of the cart written.
func (s *Session) AddItem(item model.LineItem, qty int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id := s.Multi.ActiveID(); id != "" {
		err := s.Multi.AddItem(id, item, qty)
		if !errors.Is(err, model.ErrCartNotFound) {
			return id, err
		}
	}
	return model.MainCartID, s.Main.AddItem(item, qty)
}

// Cart returns a copy of the cart with the given id; model.MainCartID
// addresses the main cart.
func (s *Session) Cart(id string) (model.Cart, error) {
	if id == model.MainCartID {
		return s.Main.Cart(), nil
	}
	return s.Multi.Cart(id)
}

// UpdateItemQuantity adjusts a line of cart id by delta.
func (s *Session) UpdateItemQuantity(id, key string, delta int) error {
	if id == model.MainCartID {
		return s.Main.UpdateItemQuantity(key, delta)
	}
	return s.Multi.UpdateItemQuantity(id, key, delta)
}

// RemoveItem deletes a line from cart id.
func (s *Session) RemoveItem(id, key string) error {
	if id == model.MainCartID {
		return s.Main.RemoveItem(key)
	}
	return s.Multi.RemoveItem(id, key)
}

// ClearItems empties cart id.
func (s *Session) ClearItems(id string) error {
	if id == model.MainCartID {
		s.Main.ClearItems()
		return nil
	}
	return s.Multi.ClearItems(id)
}

// ApplyVoucher records v on cart id.
func (s *Session) ApplyVoucher(id string, v model.AppliedVoucher) error {
	if id == model.MainCartID {
		s.Main.ApplyVoucher(v)
		return nil
	}
	return s.Multi.ApplyVoucher(id, v)
}

// RemoveVoucher drops the voucher of cart id.
func (s *Session) RemoveVoucher(id string) error {
	if id == model.MainCartID {
		s.Main.RemoveVoucher()
		return nil
	}
	return s.Multi.RemoveVoucher(id)
}

// View renders the session with derived totals.
func (s *Session) View() model.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	activeID := s.Multi.ActiveID()
	carts := s.Multi.Carts()
	views := make([]model.CartView, len(carts))
	for i, c := range carts {
		views[i] = model.NewCartView(c, c.ID == activeID)
	}
	return model.SessionView{
		TerminalID:   s.id,
		ActiveCartID: activeID,
		Carts:        views,
		Main:         model.NewCartView(s.Main.Cart(), activeID == ""),
	}
}

// Snapshot is the persisted form of a session.
type Snapshot struct {
	TerminalID   string       `json:"terminalId"`
	Carts        []model.Cart `json:"carts"`
	ActiveCartID string       `json:"activeCartId,omitempty"`
	Main         model.Cart   `json:"main"`
	Revision     string       `json:"revision,omitempty"`
}

// Snapshot captures the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		TerminalID:   s.id,
		Carts:        s.Multi.Carts(),
		ActiveCartID: s.Multi.ActiveID(),
		Main:         s.Main.Cart(),
		Revision:     s.revision,
	}
}

// Restore replaces the session state with snap. Carts beyond MaxCarts are
// dropped and a dangling active id is cleared. The session takes on the
// snapshot's revision.
func (s *Session) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Multi.restore(snap.Carts, snap.ActiveCartID)
	s.Main.restore(snap.Main)
	s.revision = snap.Revision
}
