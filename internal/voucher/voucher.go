// Package voucher loads redeemable voucher codes from gzipped CSV files on
// local disk or S3 and answers lookups against them.
package voucher

import (
	"context"

	"storefront/internal/model"
)

// Registry resolves voucher codes.
type Registry interface {
	// Lookup returns the voucher for code. Codes are case-insensitive and
	// must be 4 to 20 characters long.
	Lookup(ctx context.Context, code string) (model.Voucher, error)

	// Close releases resources held by the registry.
	Close() error
}

// Book is a set of vouchers keyed by upper-case code.
type Book interface {
	// Get returns the voucher for an upper-case code.
	Get(code string) (model.Voucher, bool)

	// Size returns the number of vouchers in the book.
	Size() int

	// Vouchers returns every voucher in the book, in no particular order.
	Vouchers() []model.Voucher
}

// Loader loads one voucher file into a Book.
type Loader interface {
	// Load reads a gzipped voucher file and returns its Book.
	Load(ctx context.Context, path string) (Book, error)
}
