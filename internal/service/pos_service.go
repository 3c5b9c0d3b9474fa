package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/repository"
	"storefront/internal/voucher"

	"github.com/rs/zerolog"
)

// posService implements POSService.
type posService struct {
	sessions      *cart.Manager
	productRepo   repository.ProductRepository
	promotionRepo repository.PromotionRepository
	vouchers      voucher.Registry
	orders        OrderService
	now           func() time.Time
	logger        zerolog.Logger

	// terminal id -> *sync.Mutex; serialises updates per terminal within
	// this instance. Writers on other instances are caught by the
	// repository revision check.
	locks sync.Map
}

// NewPOSService creates a new point-of-sale service.
func NewPOSService(
	sessions *cart.Manager,
	productRepo repository.ProductRepository,
	promotionRepo repository.PromotionRepository,
	vouchers voucher.Registry,
	orders OrderService,
	logger zerolog.Logger,
) POSService {
	return &posService{
		sessions:      sessions,
		productRepo:   productRepo,
		promotionRepo: promotionRepo,
		vouchers:      vouchers,
		orders:        orders,
		now:           time.Now,
		logger:        logger.With().Str("service", "pos").Logger(),
	}
}

func (s *posService) lock(terminalID string) func() {
	mu, _ := s.locks.LoadOrStore(terminalID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func (s *posService) session(ctx context.Context, terminalID string) (*cart.Session, error) {
	sess, err := s.sessions.Get(ctx, terminalID)
	if err != nil {
		s.logger.Error().Err(err).Str("terminal_id", terminalID).Msg("failed to load cart session")
		return nil, fmt.Errorf("failed to load cart session: %w", err)
	}
	return sess, nil
}

// update applies fn to the stored session of terminalID under the terminal
// lock and writes the result back.
func (s *posService) update(ctx context.Context, terminalID string, fn func(*cart.Session) error) (*cart.Session, error) {
	defer s.lock(terminalID)()

	sess, err := s.sessions.Update(ctx, terminalID, fn)
	if err != nil {
		var domainErr *model.DomainError
		if !errors.As(err, &domainErr) {
			s.logger.Error().Err(err).Str("terminal_id", terminalID).Msg("failed to update cart session")
		}
		return nil, err
	}
	return sess, nil
}

// Session returns every cart of the terminal.
func (s *posService) Session(ctx context.Context, terminalID string) (*model.SessionView, error) {
	sess, err := s.session(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	view := sess.View()
	return &view, nil
}

// CreateCart opens a new POS cart.
func (s *posService) CreateCart(ctx context.Context, terminalID string) (*model.CartView, error) {
	var c model.Cart
	_, err := s.update(ctx, terminalID, func(sess *cart.Session) error {
		var err error
		c, err = sess.Multi.CreateCart()
		if err != nil {
			s.logger.Warn().
				Str("terminal_id", terminalID).
				Int("carts", sess.Multi.Len()).
				Msg("cart limit reached")
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("terminal_id", terminalID).
		Str("cart_id", c.ID).
		Str("label", c.Label).
		Msg("cart created")

	view := model.NewCartView(c, false)
	return &view, nil
}

// DeleteCart discards a POS cart.
func (s *posService) DeleteCart(ctx context.Context, terminalID, cartID string) error {
	_, err := s.update(ctx, terminalID, func(sess *cart.Session) error {
		err := sess.Multi.DeleteCart(cartID)
		if err != nil {
			s.logger.Warn().Str("terminal_id", terminalID).Str("cart_id", cartID).Msg("cart not found")
		}
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("terminal_id", terminalID).Str("cart_id", cartID).Msg("cart deleted")
	return nil
}

// SetActive points routed writes at a POS cart.
func (s *posService) SetActive(ctx context.Context, terminalID, cartID string) (*model.SessionView, error) {
	sess, err := s.update(ctx, terminalID, func(sess *cart.Session) error {
		if !sess.Multi.SetActive(cartID) {
			s.logger.Warn().Str("terminal_id", terminalID).Str("cart_id", cartID).Msg("cart not found")
			return model.ErrCartNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := sess.View()
	return &view, nil
}

// Deactivate routes writes back to the main cart.
func (s *posService) Deactivate(ctx context.Context, terminalID string) (*model.SessionView, error) {
	sess, err := s.update(ctx, terminalID, func(sess *cart.Session) error {
		sess.Multi.Deactivate()
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := sess.View()
	return &view, nil
}

// AddItem adds a product variant to the routed cart. The unit price is the
// variant price with the best promotion active now; later promotion
// changes do not reprice the line.
func (s *posService) AddItem(ctx context.Context, terminalID string, req *model.AddItemRequest) (*model.AddItemResponse, error) {
	if req == nil || req.ProductID == "" || req.VariantID == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Product ID and variant ID are required")
	}
	if req.Quantity <= 0 {
		s.logger.Warn().
			Str("product_id", req.ProductID).
			Int("quantity", req.Quantity).
			Msg("invalid quantity")
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", req.ProductID).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	variant, ok := product.Variant(req.VariantID)
	if !ok {
		return nil, model.ErrVariantNotFound
	}

	promotions, err := s.promotionRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load promotions")
		return nil, fmt.Errorf("failed to get promotions: %w", err)
	}

	discount := pricing.ResolveDiscount(product.ID, variant.Price, promotions, s.now())
	item := model.LineItem{
		ProductID:     product.ID,
		VariantID:     variant.ID,
		UnitPrice:     discount.DiscountedPrice,
		OriginalPrice: variant.Price,
		Stock:         variant.Stock,
		Name:          product.Name,
		Color:         variant.Color,
		Size:          variant.Size,
	}
	if len(variant.Images) > 0 {
		item.Image = variant.Images[0]
	}

	var target string
	sess, err := s.update(ctx, terminalID, func(sess *cart.Session) error {
		var err error
		target, err = sess.AddItem(item, req.Quantity)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("terminal_id", terminalID).
				Str("cart_id", target).
				Str("item", item.Key()).
				Int("quantity", req.Quantity).
				Msg("item rejected")
			return err
		}
		s.refreshVoucher(ctx, sess, target)
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := s.cartView(sess, target)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("terminal_id", terminalID).
		Str("cart_id", target).
		Str("item", item.Key()).
		Int("quantity", req.Quantity).
		Int64("unit_price", item.UnitPrice).
		Msg("item added")

	return &model.AddItemResponse{CartID: target, Cart: *view}, nil
}

// UpdateItemQuantity adjusts a line item by delta.
func (s *posService) UpdateItemQuantity(ctx context.Context, terminalID, cartID, key string, delta int) (*model.CartView, error) {
	return s.mutate(ctx, terminalID, cartID, func(sess *cart.Session) error {
		return sess.UpdateItemQuantity(cartID, key, delta)
	})
}

// RemoveItem deletes a line item.
func (s *posService) RemoveItem(ctx context.Context, terminalID, cartID, key string) (*model.CartView, error) {
	return s.mutate(ctx, terminalID, cartID, func(sess *cart.Session) error {
		return sess.RemoveItem(cartID, key)
	})
}

// ClearItems empties a cart.
func (s *posService) ClearItems(ctx context.Context, terminalID, cartID string) (*model.CartView, error) {
	return s.mutate(ctx, terminalID, cartID, func(sess *cart.Session) error {
		return sess.ClearItems(cartID)
	})
}

// ApplyVoucher applies a voucher code to a cart.
func (s *posService) ApplyVoucher(ctx context.Context, terminalID, cartID, code string) (*model.CartView, error) {
	v, err := s.vouchers.Lookup(ctx, code)
	if err != nil {
		s.logger.Warn().Err(err).Str("code", code).Msg("voucher rejected")
		return nil, err
	}

	return s.mutate(ctx, terminalID, cartID, func(sess *cart.Session) error {
		c, err := sess.Cart(cartID)
		if err != nil {
			return err
		}
		if len(c.Items) == 0 {
			return model.ErrEmptyCart
		}

		amount, err := pricing.VoucherDiscount(c.Subtotal(), v)
		if err != nil {
			s.logger.Warn().
				Str("code", v.Code).
				Int64("subtotal", c.Subtotal()).
				Int64("min_order", v.MinOrder).
				Msg("voucher minimum not met")
			return err
		}

		return sess.ApplyVoucher(cartID, model.AppliedVoucher{Code: v.Code, Percent: v.Percent, Amount: amount})
	})
}

// RemoveVoucher drops the voucher of a cart.
func (s *posService) RemoveVoucher(ctx context.Context, terminalID, cartID string) (*model.CartView, error) {
	return s.mutate(ctx, terminalID, cartID, func(sess *cart.Session) error {
		return sess.RemoveVoucher(cartID)
	})
}

// Checkout turns a cart into an order. A checked-out POS cart is deleted;
// the main cart is emptied.
func (s *posService) Checkout(ctx context.Context, terminalID, cartID string) (*model.OrderResponse, error) {
	defer s.lock(terminalID)()

	sess, err := s.session(ctx, terminalID)
	if err != nil {
		return nil, err
	}

	s.refreshVoucher(ctx, sess, cartID)

	c, err := sess.Cart(cartID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		s.logger.Warn().Str("terminal_id", terminalID).Str("cart_id", cartID).Msg("checkout of empty cart")
		return nil, model.ErrEmptyCart
	}

	resp, err := s.orders.CreateFromCart(ctx, terminalID, c)
	if err != nil {
		return nil, err
	}

	// The order already exists, so a failed release is only logged.
	_, err = s.sessions.Update(ctx, terminalID, func(sess *cart.Session) error {
		if cartID == model.MainCartID {
			return sess.ClearItems(cartID)
		}
		err := sess.Multi.DeleteCart(cartID)
		if errors.Is(err, model.ErrCartNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("terminal_id", terminalID).
			Str("cart_id", cartID).
			Str("order_id", resp.ID.String()).
			Msg("failed to release checked-out cart")
	}

	s.logger.Info().
		Str("terminal_id", terminalID).
		Str("cart_id", cartID).
		Str("order_id", resp.ID.String()).
		Msg("cart checked out")

	return resp, nil
}

// mutate applies fn to the session, refreshes the cart's voucher, stores
// the result and returns the resulting cart.
func (s *posService) mutate(ctx context.Context, terminalID, cartID string, fn func(*cart.Session) error) (*model.CartView, error) {
	sess, err := s.update(ctx, terminalID, func(sess *cart.Session) error {
		if err := fn(sess); err != nil {
			s.logger.Warn().
				Err(err).
				Str("terminal_id", terminalID).
				Str("cart_id", cartID).
				Msg("cart update rejected")
			return err
		}
		s.refreshVoucher(ctx, sess, cartID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.cartView(sess, cartID)
}

// refreshVoucher recomputes the voucher amount after the cart changed and
// drops the voucher once the cart no longer qualifies.
func (s *posService) refreshVoucher(ctx context.Context, sess *cart.Session, cartID string) {
	c, err := sess.Cart(cartID)
	if err != nil || c.Voucher == nil {
		return
	}

	v, err := s.vouchers.Lookup(ctx, c.Voucher.Code)
	var amount int64
	if err == nil {
		amount, err = pricing.VoucherDiscount(c.Subtotal(), v)
	}

	switch {
	case err == nil:
		err = sess.ApplyVoucher(cartID, model.AppliedVoucher{Code: v.Code, Percent: v.Percent, Amount: amount})
	case errors.Is(err, model.ErrVoucherMinOrder), errors.Is(err, model.ErrInvalidVoucher):
		s.logger.Info().
			Str("cart_id", cartID).
			Str("code", c.Voucher.Code).
			Msg("voucher no longer applies, removed")
		err = sess.RemoveVoucher(cartID)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cartID).Msg("failed to refresh voucher")
	}
}

func (s *posService) cartView(sess *cart.Session, cartID string) (*model.CartView, error) {
	c, err := sess.Cart(cartID)
	if err != nil {
		return nil, err
	}
	activeID := sess.Multi.ActiveID()
	active := cartID == activeID || (cartID == model.MainCartID && activeID == "")
	view := model.NewCartView(c, active)
	return &view, nil
}
