package pricing

import (
	"time"

	"storefront/internal/model"
)

// ApplyPromotionsToProducts annotates every product with the discount its
// first variant's price receives. The input slice and its products are not
// modified; output order matches input order.
func ApplyPromotionsToProducts(products []model.Product, promotions []model.Promotion, now time.Time) []model.PricedProduct {
	out := make([]model.PricedProduct, len(products))
	for i, p := range products {
		product := p
		if p.Variants != nil {
			product.Variants = make([]model.Variant, len(p.Variants))
			copy(product.Variants, p.Variants)
		}

		res := ResolveDiscount(p.ID, p.BasePrice(), promotions, now)
		out[i] = model.PricedProduct{
			Product:          product,
			HasDiscount:      res.Promotion != nil && res.DiscountPercent > 0,
			OriginalPrice:    res.OriginalPrice,
			DiscountedPrice:  res.DiscountedPrice,
			DiscountPercent:  res.DiscountPercent,
			AppliedPromotion: res.Promotion,
		}
	}
	return out
}
