package model

import "time"

// Product is a catalogue entry. Products are read-only to this service
// apart from variant stock, which checkout decrements.
type Product struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	CategoryID string    `json:"categoryId" db:"category_id"`
	Variants   []Variant `json:"variants"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Variant is a colour/size combination of a product with its own price and stock.
type Variant struct {
	ID        string   `json:"id" db:"id"`
	ProductID string   `json:"productId" db:"product_id"`
	Color     string   `json:"color" db:"color"`
	Size      string   `json:"size" db:"size"`
	Price     int64    `json:"price" db:"price"`
	Stock     int      `json:"stock" db:"stock"`
	Images    []string `json:"images" db:"images"`
}

// Variant returns the variant with the given ID.
func (p *Product) Variant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// BasePrice is the price of the first variant, or zero when the product has none.
func (p *Product) BasePrice() int64 {
	if len(p.Variants) == 0 {
		return 0
	}
	return p.Variants[0].Price
}

// PricedProduct is a product annotated with its promotion discount.
type PricedProduct struct {
	Product
	HasDiscount      bool       `json:"hasDiscount"`
	OriginalPrice    int64      `json:"originalPrice"`
	DiscountedPrice  int64      `json:"discountedPrice"`
	DiscountPercent  int        `json:"discountPercent"`
	AppliedPromotion *Promotion `json:"appliedPromotion,omitempty"`
}

// ProductPage is one page of the priced catalogue.
type ProductPage struct {
	Items []PricedProduct `json:"items"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int             `json:"total"`
	Pages []int           `json:"pages"`
}
