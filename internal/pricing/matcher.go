// Package pricing resolves promotion discounts for catalogue prices and
// voucher discounts for cart subtotals. All amounts are integer currency units.
package pricing

import (
	"time"

	"storefront/internal/model"
)

// ResolveDiscount picks the promotion that applies to productID at now and
// computes the discounted price of basePrice.
//
// When several promotions qualify, the highest percentage wins; ties go to
// the earliest StartsAt and then to the smallest ID, so the result does not
// depend on the order of promotions.
func ResolveDiscount(productID string, basePrice int64, promotions []model.Promotion, now time.Time) model.DiscountResult {
	best := -1
	for i := range promotions {
		p := &promotions[i]
		if !p.ActiveAt(now) || !p.Applies(productID) {
			continue
		}
		if best < 0 || outranks(p, &promotions[best]) {
			best = i
		}
	}

	if best < 0 {
		return noDiscount(basePrice)
	}

	promo := promotions[best]
	percent := clampPercent(promo.Percent)
	discounted := ApplyPercent(basePrice, percent)
	return model.DiscountResult{
		OriginalPrice:   basePrice,
		DiscountedPrice: discounted,
		DiscountPercent: percent,
		DiscountAmount:  basePrice - discounted,
		Promotion:       &promo,
	}
}

// ApplyPercent returns price reduced by percent, rounded half up to the
// nearest currency unit. percent is clamped to [0, 100].
func ApplyPercent(price int64, percent int) int64 {
	percent = clampPercent(percent)
	if price <= 0 {
		return price
	}
	keep := int64(100 - percent)
	// split so no intermediate product exceeds price
	return price/100*keep + (price%100*keep+50)/100
}

func outranks(a, b *model.Promotion) bool {
	pa, pb := clampPercent(a.Percent), clampPercent(b.Percent)
	if pa != pb {
		return pa > pb
	}
	if !a.StartsAt.Equal(b.StartsAt) {
		return a.StartsAt.Before(b.StartsAt)
	}
	return a.ID < b.ID
}

func noDiscount(basePrice int64) model.DiscountResult {
	return model.DiscountResult{
		OriginalPrice:   basePrice,
		DiscountedPrice: basePrice,
	}
}

func clampPercent(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
