package voucher

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// mapBook implements Book using a map.
type mapBook struct {
	vouchers map[string]model.Voucher
}

func newMapBook(capacity int) *mapBook {
	return &mapBook{vouchers: make(map[string]model.Voucher, capacity)}
}

func (b *mapBook) Get(code string) (model.Voucher, bool) {
	v, ok := b.vouchers[code]
	return v, ok
}

func (b *mapBook) Size() int {
	return len(b.vouchers)
}

func (b *mapBook) Vouchers() []model.Voucher {
	out := make([]model.Voucher, 0, len(b.vouchers))
	for _, v := range b.vouchers {
		out = append(out, v)
	}
	return out
}

// Add stores v under its upper-case code, keeping an existing entry.
func (b *mapBook) Add(v model.Voucher) bool {
	v.Code = strings.ToUpper(v.Code)
	if _, exists := b.vouchers[v.Code]; exists {
		return false
	}
	b.vouchers[v.Code] = v
	return true
}

// parseLine parses "CODE,PERCENT[,MAX_DISCOUNT[,MIN_ORDER]]".
func parseLine(line string) (model.Voucher, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 2 || len(fields) > 4 {
		return model.Voucher{}, fmt.Errorf("expected 2 to 4 fields, got %d", len(fields))
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	v := model.Voucher{Code: strings.ToUpper(fields[0])}
	if !validCode(v.Code) {
		return model.Voucher{}, fmt.Errorf("invalid code %q", fields[0])
	}

	percent, err := strconv.Atoi(fields[1])
	if err != nil || percent < 0 || percent > 100 {
		return model.Voucher{}, fmt.Errorf("invalid percent %q", fields[1])
	}
	v.Percent = percent

	if len(fields) > 2 && fields[2] != "" {
		if v.MaxDiscount, err = strconv.ParseInt(fields[2], 10, 64); err != nil || v.MaxDiscount < 0 {
			return model.Voucher{}, fmt.Errorf("invalid max discount %q", fields[2])
		}
	}
	if len(fields) > 3 && fields[3] != "" {
		if v.MinOrder, err = strconv.ParseInt(fields[3], 10, 64); err != nil || v.MinOrder < 0 {
			return model.Voucher{}, fmt.Errorf("invalid min order %q", fields[3])
		}
	}
	return v, nil
}

// readBook scans voucher lines from r. Blank lines and '#' comments are
// ignored; malformed lines are logged and skipped.
func readBook(ctx context.Context, r io.Reader, source string, logger zerolog.Logger) (*mapBook, error) {
	book := newMapBook(1024)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	skipped := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%100_000 == 0 {
			select {
			case <-ctx.Done():
				logger.Warn().Str("source", source).Msg("voucher loading cancelled")
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		v, err := parseLine(line)
		if err != nil {
			skipped++
			logger.Warn().
				Err(err).
				Str("source", source).
				Int("line", lineNo).
				Msg("skipping malformed voucher line")
			continue
		}
		book.Add(v)
	}

	if err := scanner.Err(); err != nil {
		logger.Error().Err(err).Str("source", source).Msg("error reading voucher file")
		return nil, fmt.Errorf("error reading voucher file %s: %w", source, err)
	}

	logger.Info().
		Str("source", source).
		Int("vouchers_loaded", book.Size()).
		Int("lines_skipped", skipped).
		Msg("voucher file loaded")

	return book, nil
}

func validCode(code string) bool {
	return len(code) >= 4 && len(code) <= 20
}
