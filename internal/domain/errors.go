package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found or is not
	// owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrEmptyCart indicates a checkout was attempted with no cart items.
	ErrEmptyCart = errors.New("cart is empty")
)

// ValidationError reports missing or malformed checkout input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
