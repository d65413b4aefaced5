package admin

import (
	"errors"
	"fmt"
)

var (
	ErrForbidden       = errors.New("administrator access required")
	ErrProductNotFound = errors.New("product not found")
	ErrAdminExists     = errors.New("admin user already exists")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
