package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/pagination"
	"storefront/internal/pricing"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	pageSiblings    = 1
)

// catalogService implements CatalogService.
type catalogService struct {
	productRepo   repository.ProductRepository
	promotionRepo repository.PromotionRepository
	now           func() time.Time
	logger        zerolog.Logger
}

// NewCatalogService creates a new catalogue service.
func NewCatalogService(
	productRepo repository.ProductRepository,
	promotionRepo repository.PromotionRepository,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		productRepo:   productRepo,
		promotionRepo: promotionRepo,
		now:           time.Now,
		logger:        logger.With().Str("service", "catalog").Logger(),
	}
}

// List retrieves one page of products with active promotions applied.
func (s *catalogService) List(ctx context.Context, page, limit int) (*model.ProductPage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	total, err := s.productRepo.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	products, err := s.productRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	promotions, err := s.promotionRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load promotions")
		return nil, fmt.Errorf("failed to get promotions: %w", err)
	}

	priced := pricing.ApplyPromotionsToProducts(products, promotions, s.now())

	s.logger.Debug().
		Int("count", len(priced)).
		Int("page", page).
		Int("limit", limit).
		Int("promotions", len(promotions)).
		Msg("retrieved products")

	return &model.ProductPage{
		Items: priced,
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pagination.Window(page, pagination.TotalPages(total, limit), pageSiblings),
	}, nil
}

// GetByID retrieves a single priced product by ID.
func (s *catalogService) GetByID(ctx context.Context, id string) (*model.PricedProduct, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	promotions, err := s.promotionRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load promotions")
		return nil, fmt.Errorf("failed to get promotions: %w", err)
	}

	priced := pricing.ApplyPromotionsToProducts([]model.Product{*product}, promotions, s.now())
	return &priced[0], nil
}
