package model

import "fmt"

// UnknownCategoryError is returned when a category code is not in the registry.
// It indicates a caller configuration bug and is not retryable.
type UnknownCategoryError struct {
	Code string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown GST category: %q", e.Code)
}

// NewUnknownCategoryError creates a new unknown category error
func NewUnknownCategoryError(code string) *UnknownCategoryError {
	return &UnknownCategoryError{Code: code}
}

// InvalidAmountError is returned for negative or non-finite amounts and negative quantities
type InvalidAmountError struct {
	Field  string
	Value  interface{}
	Reason string
	Cause  error
}

func (e *InvalidAmountError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid %s (value=%v): %s (%v)", e.Field, e.Value, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid %s (value=%v): %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidAmountError) Unwrap() error {
	return e.Cause
}

// NewInvalidAmountError creates a new invalid amount error
func NewInvalidAmountError(field string, value interface{}, reason string, cause error) *InvalidAmountError {
	return &InvalidAmountError{
		Field:  field,
		Value:  value,
		Reason: reason,
		Cause:  cause,
	}
}

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}
