package order

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyOrder is returned when no cart entry resolves to a catalog product.
	ErrEmptyOrder    = errors.New("order has no available products")
	ErrOrderNotFound = errors.New("order not found")
)

// ValidationError reports bad caller input. Nothing is persisted when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation helps callers distinguish between bad input and infrastructure failures.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
