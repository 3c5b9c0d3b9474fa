package voucher

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for gzipped voucher files on local disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based voucher loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "voucher-loader").Logger(),
	}
}

// Load reads a gzipped voucher file from disk.
func (l *fileLoader) Load(ctx context.Context, path string) (Book, error) {
	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open voucher file")
		return nil, fmt.Errorf("failed to open voucher file %s: %w", path, err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
	}
	defer gz.Close()

	book, err := readBook(ctx, gz, path, l.logger)
	if err != nil {
		return nil, err
	}
	return book, nil
}
