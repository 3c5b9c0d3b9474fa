package model

import "time"

// PromotionStatus is the administrative state of a promotion.
type PromotionStatus string

const (
	PromotionActive   PromotionStatus = "ACTIVE"
	PromotionInactive PromotionStatus = "INACTIVE"
)

// Promotion is a time-bounded percentage discount, scoped to every product
// or to an explicit product list.
type Promotion struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Status      PromotionStatus `json:"status" db:"status"`
	StartsAt    time.Time       `json:"startsAt" db:"starts_at"`
	EndsAt      time.Time       `json:"endsAt" db:"ends_at"`
	Percent     int             `json:"percent" db:"percent"`
	AllProducts bool            `json:"allProducts" db:"all_products"`
	ProductIDs  []string        `json:"productIds,omitempty" db:"product_ids"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// ActiveAt reports whether the promotion is ACTIVE and t lies in
// [StartsAt, EndsAt).
func (p *Promotion) ActiveAt(t time.Time) bool {
	if p.Status != PromotionActive {
		return false
	}
	return !t.Before(p.StartsAt) && t.Before(p.EndsAt)
}

// Applies reports whether the promotion covers productID.
func (p *Promotion) Applies(productID string) bool {
	if p.AllProducts {
		return true
	}
	for _, id := range p.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// DiscountResult is the outcome of resolving promotions for one price.
type DiscountResult struct {
	OriginalPrice   int64      `json:"originalPrice"`
	DiscountedPrice int64      `json:"discountedPrice"`
	DiscountPercent int        `json:"discountPercent"`
	DiscountAmount  int64      `json:"discountAmount"`
	Promotion       *Promotion `json:"promotion,omitempty"`
}

// PromotionRequest is the payload for creating a promotion.
type PromotionRequest struct {
	Name        string          `json:"name"`
	Status      PromotionStatus `json:"status"`
	StartsAt    time.Time       `json:"startsAt"`
	EndsAt      time.Time       `json:"endsAt"`
	Percent     int             `json:"percent"`
	AllProducts bool            `json:"allProducts"`
	ProductIDs  []string        `json:"productIds"`
}
