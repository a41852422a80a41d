package model

import "errors"

// ErrInvalidInput is wrapped by every ValidationError so callers can test
// with errors.Is without caring which field failed.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError reports a rejected value on a task field. Message is safe
// to show to end users.
type ValidationError struct {
	Field   string
	Message string
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
