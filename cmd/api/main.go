package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/voucher"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply database schema: %w", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	promotionRepo := repository.NewPromotionRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Initialize voucher loader with S3 and local fallback
	var s3Loader voucher.Loader
	if cfg.S3.Enabled {
		s3Loader, err = voucher.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			s3Loader = nil
		}
	} else {
		logger.Info().Msg("using local file system for voucher files (S3 disabled)")
	}
	voucherLoader := voucher.NewFallbackLoader(s3Loader, voucher.NewFileLoader(logger), cfg.S3.Prefix, logger)

	vouchers, err := voucher.NewRegistry(ctx, voucher.RegistryConfig{FilePaths: cfg.Voucher.FilePaths}, voucherLoader, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize voucher registry: %w", err)
	}
	defer vouchers.Close()

	// Initialize cart session storage
	sessionRepo, closeSessions, err := newSessionRepository(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cart session store: %w", err)
	}
	defer closeSessions()
	sessions := cart.NewManager(sessionRepo, logger)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, promotionRepo, logger)
	promotionService := service.NewPromotionService(promotionRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, logger)
	posService := service.NewPOSService(sessions, productRepo, promotionRepo, vouchers, orderService, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Product:   handler.NewProductHandler(catalogService, logger),
		Promotion: handler.NewPromotionHandler(promotionService, logger),
		POS:       handler.NewPOSHandler(posService, logger),
		Order:     handler.NewOrderHandler(orderService, logger),
	}, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newSessionRepository returns the Redis session store when enabled and an
// in-memory store otherwise. The returned func closes the Redis client.
func newSessionRepository(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (cart.SessionRepository, func(), error) {
	if !cfg.Enabled {
		logger.Info().Msg("using in-memory cart sessions (Redis disabled)")
		return cart.NewMemoryRepository(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}

	logger.Info().Str("address", cfg.Addr).Msg("cart sessions stored in Redis")
	return cart.NewRedisRepository(client, cfg.SessionTTL, logger), func() { client.Close() }, nil
}
