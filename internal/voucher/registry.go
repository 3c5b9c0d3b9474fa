package voucher

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// RegistryConfig lists the voucher files to load.
type RegistryConfig struct {
	// FilePaths are loaded concurrently; on duplicate codes the earlier
	// file wins.
	FilePaths []string
}

// registry implements Registry over a merged, read-only book. mu guards
// the book pointer, which Close swaps out.
type registry struct {
	mu     sync.RWMutex
	book   *mapBook
	logger zerolog.Logger
}

// NewRegistry loads every configured file and merges them into one book.
func NewRegistry(ctx context.Context, cfg RegistryConfig, loader Loader, logger zerolog.Logger) (Registry, error) {
	logger = logger.With().Str("component", "voucher-registry").Logger()

	logger.Info().
		Int("file_count", len(cfg.FilePaths)).
		Msg("initialising voucher registry")

	type loadResult struct {
		book Book
		err  error
	}

	results := make([]loadResult, len(cfg.FilePaths))
	var wg sync.WaitGroup
	for i, path := range cfg.FilePaths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			book, err := loader.Load(ctx, path)
			results[i] = loadResult{book: book, err: err}
		}(i, path)
	}
	wg.Wait()

	merged := newMapBook(0)
	for i, res := range results {
		if res.err != nil {
			logger.Error().
				Err(res.err).
				Str("file", cfg.FilePaths[i]).
				Msg("failed to load voucher file")
			return nil, fmt.Errorf("failed to load voucher file %s: %w", cfg.FilePaths[i], res.err)
		}

		shadowed := 0
		for _, v := range res.book.Vouchers() {
			if !merged.Add(v) {
				shadowed++
			}
		}
		if shadowed > 0 {
			logger.Warn().
				Str("file", cfg.FilePaths[i]).
				Int("shadowed", shadowed).
				Msg("duplicate voucher codes ignored")
		}
	}

	logger.Info().
		Int("total_vouchers", merged.Size()).
		Msg("voucher registry initialised")

	return &registry{book: merged, logger: logger}, nil
}

// Lookup returns the voucher for code.
func (r *registry) Lookup(ctx context.Context, code string) (model.Voucher, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !validCode(code) {
		r.logger.Debug().Str("code", code).Int("length", len(code)).Msg("voucher code length invalid")
		return model.Voucher{}, model.ErrInvalidVoucher
	}

	if err := ctx.Err(); err != nil {
		return model.Voucher{}, err
	}

	r.mu.RLock()
	v, ok := r.book.Get(code)
	r.mu.RUnlock()
	if !ok {
		r.logger.Debug().Str("code", code).Msg("voucher code not found")
		return model.Voucher{}, model.ErrInvalidVoucher
	}
	return v, nil
}

// Close drops the loaded book.
func (r *registry) Close() error {
	r.mu.Lock()
	r.book = newMapBook(0)
	r.mu.Unlock()
	r.logger.Info().Msg("voucher registry closed")
	return nil
}
