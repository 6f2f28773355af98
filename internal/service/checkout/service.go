package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"folik-store/internal/domain"
	orderrepo "folik-store/internal/repository/order"
)

// State names the outcome of a checkout attempt.
type State string

const (
	StateEmptyCart        State = "empty_cart"
	StateAwaitingInput    State = "awaiting_input"
	StateFailedValidation State = "failed_validation"
	StateCommitted        State = "committed"
)

// Form field names accepted by Submit. Quantity overrides use the
// "quantity_<itemID>" convention.
const (
	FieldFullName       = "full_name"
	FieldPhone          = "phone"
	quantityFieldPrefix = "quantity_"
)

type Service struct {
	carts  cartRepo
	orders orderRepo
}

type cartRepo interface {
	ListBySession(ctx context.Context, sessionKey string) ([]domain.CartItem, error)
}

type orderRepo interface {
	CreateFromCart(ctx context.Context, in orderrepo.CreateFromCartInput) (*domain.Order, error)
}

func New(carts cartRepo, orders orderRepo) *Service {
	return &Service{carts: carts, orders: orders}
}

// Result reports one checkout attempt. On anything but a commit the cart is
// untouched and returned as-is; on a commit the cart is gone and Order is set.
type Result struct {
	State State             `json:"state"`
	Items []domain.CartItem `json:"items,omitempty"`
	Total decimal.Decimal   `json:"total"`
	Error string            `json:"error,omitempty"`
	Order *domain.Order     `json:"order,omitempty"`
}

// Begin loads the session's cart for the checkout form. An empty cart is a
// terminal state: no order is created and the caller redirects back to the
// cart view.
func (s *Service) Begin(ctx context.Context, sessionKey string) (*Result, error) {
	items, err := s.carts.ListBySession(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &Result{State: StateEmptyCart, Total: decimal.Zero}, nil
	}
	return &Result{
		State: StateAwaitingInput,
		Items: items,
		Total: domain.CartTotal(items),
	}, nil
}

// Submit validates the submitted contact fields and, if they pass, commits
// the cart into an order in one transaction. Validation failure returns the
// unmodified cart with a message; the cart is only cleared on commit.
func (s *Service) Submit(ctx context.Context, sessionKey string, form map[string]string) (*Result, error) {
	items, err := s.carts.ListBySession(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &Result{State: StateEmptyCart, Total: decimal.Zero}, nil
	}

	fullName := strings.TrimSpace(form[FieldFullName])
	phone := strings.TrimSpace(form[FieldPhone])
	if fullName == "" || phone == "" {
		verr := &domain.ValidationError{Message: "full name and phone are required"}
		return &Result{
			State: StateFailedValidation,
			Items: items,
			Total: domain.CartTotal(items),
			Error: verr.Error(),
		}, nil
	}

	order, err := s.orders.CreateFromCart(ctx, orderrepo.CreateFromCartInput{
		SessionKey: sessionKey,
		FullName:   fullName,
		Phone:      phone,
		Overrides:  parseOverrides(items, form),
	})
	if err != nil {
		// A concurrent checkout may have consumed the cart between the
		// list above and the commit.
		if errors.Is(err, domain.ErrEmptyCart) {
			return &Result{State: StateEmptyCart, Total: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("commit checkout: %w", err)
	}

	return &Result{State: StateCommitted, Total: order.Total(), Order: order}, nil
}

// parseOverrides reads per-line quantity overrides from the form. Absent,
// non-numeric, and non-positive values fall back to the stored quantity by
// being left out of the map.
func parseOverrides(items []domain.CartItem, form map[string]string) map[string]int {
	overrides := make(map[string]int)
	for _, item := range items {
		raw, ok := form[quantityFieldPrefix+item.ID]
		if !ok {
			continue
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || quantity <= 0 {
			continue
		}
		overrides[item.ID] = quantity
	}
	return overrides
}
