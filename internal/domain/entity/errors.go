package entity

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrNoSelection       = errors.New("please select at least one product")
	ErrBulkInactive      = errors.New("bulk edit mode is not active")
	ErrUnsupportedField  = errors.New("unsupported bulk edit field")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrRemote            = errors.New("remote request failed")
)

// ValidationError carries a user-facing message and unwraps to ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid is a shorthand for building a ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
