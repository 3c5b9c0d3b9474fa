package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type seedVariant struct {
	id, color, size string
	price           int64
	stock           int
}

type seedProduct struct {
	id, name, category string
	variants           []seedVariant
}

var products = []seedProduct{
	{id: "P001", name: "Linen Shirt", category: "shirts", variants: []seedVariant{
		{id: "P001-WHT-M", color: "White", size: "M", price: 129000, stock: 25},
		{id: "P001-WHT-L", color: "White", size: "L", price: 129000, stock: 18},
		{id: "P001-BLU-M", color: "Blue", size: "M", price: 139000, stock: 10},
	}},
	{id: "P002", name: "Chino Trousers", category: "trousers", variants: []seedVariant{
		{id: "P002-KHK-32", color: "Khaki", size: "32", price: 189000, stock: 12},
		{id: "P002-NVY-32", color: "Navy", size: "32", price: 189000, stock: 4},
	}},
	{id: "P003", name: "Canvas Tote", category: "accessories", variants: []seedVariant{
		{id: "P003-NAT", color: "Natural", price: 45000, stock: 60},
	}},
	{id: "P004", name: "Wool Scarf", category: "accessories", variants: []seedVariant{
		{id: "P004-GRY", color: "Grey", price: 99000, stock: 0},
		{id: "P004-RED", color: "Red", price: 99000, stock: 7},
	}},
}

// Seeds the catalogue and two sample promotions. Existing rows are kept.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger).With().Str("component", "seed").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(
			`INSERT INTO products (id, name, category_id) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
			p.id, p.name, p.category,
		)
		for i, v := range p.variants {
			batch.Queue(
				`INSERT INTO variants (id, product_id, color, size, price, stock, position)
				 VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (id) DO NOTHING`,
				v.id, p.id, v.color, v.size, v.price, v.stock, i,
			)
		}
	}

	now := time.Now().UTC()
	batch.Queue(
		`INSERT INTO promotions (id, name, status, starts_at, ends_at, percent, all_products, product_ids)
		 VALUES ($1, $2, 'ACTIVE', $3, $4, $5, TRUE, '{}') ON CONFLICT (id) DO NOTHING`,
		"seed-storewide", "Storewide 10%", now.Add(-24*time.Hour), now.AddDate(0, 1, 0), 10,
	)
	batch.Queue(
		`INSERT INTO promotions (id, name, status, starts_at, ends_at, percent, all_products, product_ids)
		 VALUES ($1, $2, 'ACTIVE', $3, $4, $5, FALSE, $6) ON CONFLICT (id) DO NOTHING`,
		"seed-shirts", "Shirt week", now.Add(-24*time.Hour), now.AddDate(0, 0, 7), 25, []string{"P001"},
	)

	if err := sendBatch(pool.SendBatch(ctx, batch), batch.Len(), logger); err != nil {
		return err
	}

	logger.Info().
		Int("products", len(products)).
		Int("promotions", 2).
		Msg("seed data applied")
	return nil
}

func sendBatch(br pgx.BatchResults, n int, logger zerolog.Logger) error {
	defer br.Close()
	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			logger.Error().Err(err).Int("statement", i).Msg("seed statement failed")
			return fmt.Errorf("seed statement %d failed: %w", i, err)
		}
	}
	return nil
}
