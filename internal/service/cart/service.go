package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"folik-store/internal/domain"
)

const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"
)

type Service struct {
	repo     cartRepo
	products productRepo
}

type cartRepo interface {
	Add(ctx context.Context, sessionKey, productID string) (*domain.CartItem, error)
	ListBySession(ctx context.Context, sessionKey string) ([]domain.CartItem, error)
	AdjustQuantity(ctx context.Context, sessionKey, itemID string, delta int) error
	Remove(ctx context.Context, sessionKey, itemID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartRepo, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

// View is a rendered cart: the session's lines and their running total.
type View struct {
	Items []domain.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

// Add puts one unit of the product into the session's cart. Repeated adds
// grow the existing line's quantity instead of creating a second line.
func (s *Service) Add(ctx context.Context, sessionKey, productID string) (*domain.CartItem, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.Add(ctx, sessionKey, productID)
}

func (s *Service) Remove(ctx context.Context, sessionKey, itemID string) error {
	return s.repo.Remove(ctx, sessionKey, itemID)
}

// Adjust changes a line's quantity by one. Decreasing stops at quantity 1;
// reaching zero lines requires Remove.
func (s *Service) Adjust(ctx context.Context, sessionKey, itemID, direction string) error {
	switch direction {
	case DirectionIncrease:
		return s.repo.AdjustQuantity(ctx, sessionKey, itemID, 1)
	case DirectionDecrease:
		return s.repo.AdjustQuantity(ctx, sessionKey, itemID, -1)
	default:
		return fmt.Errorf("unsupported direction %q", direction)
	}
}

func (s *Service) ViewCart(ctx context.Context, sessionKey string) (*View, error) {
	items, err := s.repo.ListBySession(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	return &View{Items: items, Total: domain.CartTotal(items)}, nil
}
