package cart

import (
	"context"

	"folik-store/internal/domain"
)

type Repository interface {
	// Add creates a line with quantity 1 for (sessionKey, productID), or
	// atomically increments the existing line's quantity by 1.
	Add(ctx context.Context, sessionKey, productID string) (*domain.CartItem, error)
	ListBySession(ctx context.Context, sessionKey string) ([]domain.CartItem, error)
	// AdjustQuantity adds delta to the line's quantity, clamped so it never
	// drops below 1.
	AdjustQuantity(ctx context.Context, sessionKey, itemID string, delta int) error
	Remove(ctx context.Context, sessionKey, itemID string) error
}
