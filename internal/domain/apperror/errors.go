// Package apperror defines the user-facing failures of a currency conversion.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure
type Kind string

const (
	// InvalidAmount means the amount was missing, non-numeric, or not positive
	InvalidAmount Kind = "INVALID_AMOUNT"
	// SameCurrency means both currency codes normalize to the same value
	SameCurrency Kind = "SAME_CURRENCY"
	// ProviderError means the rate provider answered with an unusable response
	ProviderError Kind = "PROVIDER_ERROR"
	// RateUnavailable means the rate provider could not be reached
	RateUnavailable Kind = "RATE_UNAVAILABLE"
)

// Error is a conversion failure carrying a message safe to show to end users.
// Cause is kept for logs and is never part of Error().
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error returns the user-facing message
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error of the given kind without an underlying cause
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind that keeps cause for logging
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
