package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID          string      `json:"id"`
	FullName    string      `json:"fullName"`
	Phone       string      `json:"phone"`
	IsProcessed bool        `json:"isProcessed"`
	CreatedAt   time.Time   `json:"createdAt"`
	Items       []OrderItem `json:"items,omitempty"`
}

// OrderItem captures a product reference and the quantity at checkout time.
// No price is stored on the line: totals are recomputed from the current
// product price, and a deleted product leaves the reference null.
type OrderItem struct {
	ID        string   `json:"id"`
	OrderID   string   `json:"orderId"`
	ProductID *string  `json:"productId,omitempty"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `json:"quantity"`
}

// LineTotal is the effective unit price times the quantity. An item whose
// product has been deleted contributes zero.
func (i OrderItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums the line totals of the order's items at current prices.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
