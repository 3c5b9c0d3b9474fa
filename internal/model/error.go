package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeInvalidParameter  = "INVALID_PARAMETER"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeVariantNotFound   = "VARIANT_NOT_FOUND"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeCartLimitReached  = "CART_LIMIT_REACHED"
	ErrCodeCartNotFound      = "CART_NOT_FOUND"
	ErrCodeItemNotFound      = "ITEM_NOT_FOUND"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeInvalidVoucher    = "INVALID_VOUCHER"
	ErrCodeVoucherMinOrder   = "VOUCHER_MIN_ORDER"
	ErrCodeInvalidPromotion  = "INVALID_PROMOTION"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeInvalidRange      = "INVALID_RANGE"
	ErrCodeSessionConflict   = "SESSION_CONFLICT"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule rejection. It is never fatal; the caller
// surfaces Message to the user and may retry.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so wrapped or
// re-worded domain errors still match their sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrVariantNotFound   = NewDomainError(ErrCodeVariantNotFound, "Variant not found")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInsufficientStock = NewDomainError(ErrCodeInsufficientStock, "Requested quantity exceeds available stock")
	ErrCartLimitReached  = NewDomainError(ErrCodeCartLimitReached, "Maximum number of carts reached")
	ErrCartNotFound      = NewDomainError(ErrCodeCartNotFound, "Cart not found")
	ErrItemNotFound      = NewDomainError(ErrCodeItemNotFound, "Item not found in cart")
	ErrEmptyCart         = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInvalidVoucher    = NewDomainError(ErrCodeInvalidVoucher, "Voucher code is not valid")
	ErrVoucherMinOrder   = NewDomainError(ErrCodeVoucherMinOrder, "Order total is below the voucher minimum")
	ErrInvalidPromotion  = NewDomainError(ErrCodeInvalidPromotion, "Promotion is not valid")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrSessionConflict   = NewDomainError(ErrCodeSessionConflict, "Cart session was changed by another request")
)
