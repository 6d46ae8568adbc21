package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared by services, repositories and controllers.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrAlreadyExists      = errors.New("already exists")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrCouponInvalid      = errors.New("coupon code is not valid")
	ErrPaymentConflict    = errors.New("checkout session conflict")
	ErrPaymentUnavailable = errors.New("payment provider unavailable")
	ErrEventIgnored       = errors.New("webhook event ignored")
)

// ValidationError lists the request fields that are missing or invalid.
// errors.Is(err, ErrInvalidInput) reports true for it.
type ValidationError struct {
	Fields  []string
	Message string
}

// NewMissingFieldsError builds a ValidationError for required fields that were not supplied.
func NewMissingFieldsError(fields ...string) *ValidationError {
	return &ValidationError{
		Fields:  fields,
		Message: "missing required fields: " + strings.Join(fields, ", "),
	}
}

// NewValidationError builds a ValidationError with a single message.
func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ProviderError is a payment provider failure that is neither a conflict nor a
// connectivity problem. Message is the provider's own description.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
