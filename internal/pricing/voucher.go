package pricing

import "storefront/internal/model"

// VoucherDiscount is the amount v takes off subtotal: the percentage share
// rounded half up, capped at MaxDiscount (when set) and at the subtotal.
func VoucherDiscount(subtotal int64, v model.Voucher) (int64, error) {
	if subtotal < v.MinOrder {
		return 0, model.ErrVoucherMinOrder
	}
	if subtotal <= 0 {
		return 0, nil
	}

	amount := subtotal - ApplyPercent(subtotal, v.Percent)
	if v.MaxDiscount > 0 && amount > v.MaxDiscount {
		amount = v.MaxDiscount
	}
	if amount > subtotal {
		amount = subtotal
	}
	return amount, nil
}
