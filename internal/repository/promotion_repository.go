package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// promotionRepository implements the PromotionRepository interface using PostgreSQL.
type promotionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPromotionRepository creates a new PostgreSQL-backed promotion repository.
func NewPromotionRepository(pool *pgxpool.Pool, logger zerolog.Logger) PromotionRepository {
	return &promotionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "promotion").Logger(),
	}
}

const promotionColumns = `id, name, status, starts_at, ends_at, percent, all_products, product_ids, created_at`

// ListActive retrieves promotions whose status is ACTIVE.
func (r *promotionRepository) ListActive(ctx context.Context) ([]model.Promotion, error) {
	query := `SELECT ` + promotionColumns + `
		FROM promotions
		WHERE status = $1
		ORDER BY created_at, id
	`
	return r.query(ctx, query, string(model.PromotionActive))
}

// List retrieves every promotion, newest first.
func (r *promotionRepository) List(ctx context.Context) ([]model.Promotion, error) {
	query := `SELECT ` + promotionColumns + `
		FROM promotions
		ORDER BY created_at DESC, id
	`
	return r.query(ctx, query)
}

// Create inserts a promotion.
func (r *promotionRepository) Create(ctx context.Context, p *model.Promotion) error {
	query := `
		INSERT INTO promotions (` + promotionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	productIDs := p.ProductIDs
	if productIDs == nil {
		productIDs = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, string(p.Status), p.StartsAt, p.EndsAt,
		p.Percent, p.AllProducts, productIDs, p.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("promotion_id", p.ID).Msg("failed to create promotion")
		return fmt.Errorf("failed to create promotion: %w", err)
	}

	r.logger.Debug().Str("promotion_id", p.ID).Msg("promotion created")
	return nil
}

func (r *promotionRepository) query(ctx context.Context, query string, args ...any) ([]model.Promotion, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query promotions")
		return nil, fmt.Errorf("failed to query promotions: %w", err)
	}
	defer rows.Close()

	promotions := []model.Promotion{}
	for rows.Next() {
		var p model.Promotion
		var status string
		err := rows.Scan(&p.ID, &p.Name, &status, &p.StartsAt, &p.EndsAt,
			&p.Percent, &p.AllProducts, &p.ProductIDs, &p.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan promotion row")
			return nil, fmt.Errorf("failed to scan promotion: %w", err)
		}
		p.Status = model.PromotionStatus(status)
		promotions = append(promotions, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating promotion rows")
		return nil, fmt.Errorf("error iterating promotions: %w", err)
	}
	return promotions, nil
}
