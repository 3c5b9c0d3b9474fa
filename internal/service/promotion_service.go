package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// promotionService implements PromotionService.
type promotionService struct {
	promotionRepo repository.PromotionRepository
	now           func() time.Time
	logger        zerolog.Logger
}

// NewPromotionService creates a new promotion service.
func NewPromotionService(promotionRepo repository.PromotionRepository, logger zerolog.Logger) PromotionService {
	return &promotionService{
		promotionRepo: promotionRepo,
		now:           time.Now,
		logger:        logger.With().Str("service", "promotion").Logger(),
	}
}

// List retrieves every promotion.
func (s *promotionService) List(ctx context.Context) ([]model.Promotion, error) {
	promotions, err := s.promotionRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list promotions")
		return nil, fmt.Errorf("failed to get promotions: %w", err)
	}
	return promotions, nil
}

// Create validates and stores a new promotion.
func (s *promotionService) Create(ctx context.Context, req *model.PromotionRequest) (*model.Promotion, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.PromotionActive
	}

	promo := &model.Promotion{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Status:      status,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Percent:     req.Percent,
		AllProducts: req.AllProducts,
		CreatedAt:   s.now(),
	}
	if !req.AllProducts {
		promo.ProductIDs = req.ProductIDs
	}

	if err := s.promotionRepo.Create(ctx, promo); err != nil {
		s.logger.Error().Err(err).Str("name", promo.Name).Msg("failed to create promotion")
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}

	s.logger.Info().
		Str("promotion_id", promo.ID).
		Int("percent", promo.Percent).
		Bool("all_products", promo.AllProducts).
		Msg("promotion created")

	return promo, nil
}

func (s *promotionService) validate(req *model.PromotionRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeInvalidPromotion, "Promotion request is empty")
	}

	var problem string
	switch {
	case strings.TrimSpace(req.Name) == "":
		problem = "Promotion name is required"
	case req.Percent < 0 || req.Percent > 100:
		problem = "Promotion percent must be between 0 and 100"
	case req.StartsAt.IsZero() || req.EndsAt.IsZero():
		problem = "Promotion start and end are required"
	case !req.EndsAt.After(req.StartsAt):
		problem = "Promotion must end after it starts"
	case !req.AllProducts && len(req.ProductIDs) == 0:
		problem = "Promotion must cover all products or list product IDs"
	case req.Status != "" && req.Status != model.PromotionActive && req.Status != model.PromotionInactive:
		problem = "Promotion status must be ACTIVE or INACTIVE"
	}

	if problem != "" {
		s.logger.Warn().Str("name", req.Name).Str("reason", problem).Msg("invalid promotion")
		return model.NewDomainError(model.ErrCodeInvalidPromotion, problem)
	}
	return nil
}
