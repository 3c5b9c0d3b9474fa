package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	now         func() time.Time
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		now:         time.Now,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// CreateFromCart persists a cart as an order and takes its items out of stock.
// The order row, its items and the stock decrements commit together.
func (s *orderService) CreateFromCart(ctx context.Context, terminalID string, c model.Cart) (*model.OrderResponse, error) {
	if len(c.Items) == 0 {
		s.logger.Warn().Str("cart_id", c.ID).Msg("checkout of empty cart")
		return nil, model.ErrEmptyCart
	}

	subtotal := c.Subtotal()
	order := &model.Order{
		ID:         uuid.New(),
		TerminalID: terminalID,
		CartLabel:  c.Label,
		Subtotal:   subtotal,
		Discount:   min(c.Discount, subtotal),
		Total:      c.Total(),
		CreatedAt:  s.now(),
	}
	if c.Voucher != nil {
		code := c.Voucher.Code
		order.VoucherCode = &code
	}

	orderItems := make([]model.OrderItem, len(c.Items))
	for i, item := range c.Items {
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	// Start transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	for _, item := range orderItems {
		if err = s.productRepo.DecrementStock(ctx, tx, item.VariantID, item.Quantity); err != nil {
			if errors.Is(err, model.ErrInsufficientStock) {
				s.logger.Warn().
					Str("variant_id", item.VariantID).
					Int("quantity", item.Quantity).
					Msg("stock changed before checkout")
				return nil, err
			}
			s.logger.Error().Err(err).Str("variant_id", item.VariantID).Msg("failed to decrement stock")
			return nil, fmt.Errorf("failed to update stock: %w", err)
		}
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("terminal_id", terminalID).
		Int("item_count", len(orderItems)).
		Int64("total", order.Total).
		Msg("order created successfully")

	return &model.OrderResponse{Order: *order, Items: orderItems}, nil
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return &model.OrderResponse{Order: *order, Items: items}, nil
}

// SalesSummary aggregates orders created in [from, to).
func (s *orderService) SalesSummary(ctx context.Context, from, to time.Time) (*model.SalesSummary, error) {
	if !to.After(from) {
		return nil, model.NewDomainError(model.ErrCodeInvalidRange, "Range end must be after its start")
	}

	summary, err := s.orderRepo.SalesSummary(ctx, from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to aggregate sales")
		return nil, fmt.Errorf("failed to get sales summary: %w", err)
	}
	return summary, nil
}
