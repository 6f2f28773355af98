package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description,omitempty"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discountPrice,omitempty"`
	ImageURL      string              `json:"imageUrl,omitempty"`
	Gallery       []string            `json:"gallery,omitempty"`
	IsAvailable   bool                `json:"isAvailable"`
	IsFeatured    bool                `json:"isFeatured"`
	Stock         int                 `json:"stock"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// EffectivePrice is the price actually charged for one unit: the discount
// price when one is set, the base price otherwise.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice.Valid {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}
