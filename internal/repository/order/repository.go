package order

import (
	"context"

	"folik-store/internal/domain"
)

// CreateFromCartInput carries everything the checkout commit needs. Overrides
// maps cart item IDs to quantities submitted with the checkout form; lines
// without an entry keep their stored quantity.
type CreateFromCartInput struct {
	SessionKey string
	FullName   string
	Phone      string
	Overrides  map[string]int
}

type Repository interface {
	// CreateFromCart converts the session's cart lines into an order inside
	// a single transaction: it inserts the order, copies each cart line into
	// an order item, and clears the cart. The returned order carries its
	// items with joined product rows, so callers can price the confirmation
	// directly. Returns domain.ErrEmptyCart (and leaves no order behind)
	// when the cart has no lines, including when a concurrent checkout
	// consumed them first.
	CreateFromCart(ctx context.Context, in CreateFromCartInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	SetProcessed(ctx context.Context, id string, processed bool) error
}
