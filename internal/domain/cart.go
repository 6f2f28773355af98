package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID         string    `json:"id"`
	SessionKey string    `json:"-"`
	ProductID  string    `json:"productId"`
	Product    *Product  `json:"product,omitempty"`
	Quantity   int       `json:"quantity"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LineTotal is the effective unit price times the quantity. An item whose
// product has been deleted contributes zero.
func (i CartItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartTotal sums the line totals of all items.
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
