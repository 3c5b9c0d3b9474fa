package model

// Voucher is a percentage discount redeemable against a cart subtotal.
type Voucher struct {
	Code        string `json:"code"`
	Percent     int    `json:"percent"`
	MaxDiscount int64  `json:"maxDiscount"`
	MinOrder    int64  `json:"minOrder"`
}
