package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// List retrieves products ordered by name, with their variants.
func (r *productRepository) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT id, name, category_id, created_at
		FROM products
		ORDER BY name, id
		LIMIT $1 OFFSET $2
	`

	products, err := r.queryProducts(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, err
	}

	if err := r.attachVariants(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// Count returns the number of products.
func (r *productRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// GetByID retrieves a single product with its variants.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT id, name, category_id, created_at
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.CategoryID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	products := []model.Product{p}
	if err := r.attachVariants(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// GetByIDs retrieves multiple products with their variants.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `
		SELECT id, name, category_id, created_at
		FROM products
		WHERE id = ANY($1)
		ORDER BY name, id
	`

	products, err := r.queryProducts(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, err
	}

	if err := r.attachVariants(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// DecrementStock takes qty units of a variant within tx.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, variantID string, qty int) error {
	query := `
		UPDATE variants
		SET stock = stock - $2
		WHERE id = $1 AND stock >= $2
	`

	tag, err := tx.Exec(ctx, query, variantID, qty)
	if err != nil {
		r.logger.Error().Err(err).Str("variant_id", variantID).Msg("failed to decrement stock")
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().
			Str("variant_id", variantID).
			Int("quantity", qty).
			Msg("insufficient stock for variant")
		return model.ErrInsufficientStock
	}
	return nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CategoryID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

// attachVariants loads the variants of every product in one query.
func (r *productRepository) attachVariants(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, len(products))
	byID := make(map[string]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = i
	}

	query := `
		SELECT id, product_id, color, size, price, stock, images
		FROM variants
		WHERE product_id = ANY($1)
		ORDER BY product_id, position, id
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query variants")
		return fmt.Errorf("failed to query variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v model.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Color, &v.Size, &v.Price, &v.Stock, &v.Images); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan variant row")
			return fmt.Errorf("failed to scan variant: %w", err)
		}
		i := byID[v.ProductID]
		products[i].Variants = append(products[i].Variants, v)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating variant rows")
		return fmt.Errorf("error iterating variants: %w", err)
	}
	return nil
}
