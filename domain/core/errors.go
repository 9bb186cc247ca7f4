package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Malformed input errors
	ErrMalformedInput = errors.New("malformed input")
	ErrEmptyDataset   = fmt.Errorf("%w: dataset has no rows or no columns", ErrMalformedInput)
	ErrColumnNotFound = fmt.Errorf("%w: column not found", ErrMalformedInput)
	ErrNilValidation  = fmt.Errorf("%w: validation result is required", ErrMalformedInput)

	// Dataset-level blocking conditions
	ErrHardLimitExceeded = errors.New("dataset exceeds hard limits")
	ErrInsufficientData  = errors.New("insufficient data for analysis")

	// External engine errors (never propagated past the validator)
	ErrTestUnavailable = errors.New("external test engine unavailable")
	ErrEmptyTestResult = fmt.Errorf("%w: engine returned an empty result", ErrTestUnavailable)
)

// Error constructors with context
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, column)
}

func NewTestUnavailableError(method string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrTestUnavailable, method)
	}
	return fmt.Errorf("%w: %s: %v", ErrTestUnavailable, method, cause)
}

// Error checking helpers
func IsMalformedInput(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}

func IsTestUnavailable(err error) bool {
	return errors.Is(err, ErrTestUnavailable)
}
