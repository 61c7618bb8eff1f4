package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationErrorType names the rule a field failed
type ValidationErrorType string

const (
	ErrorTypeRequired      ValidationErrorType = "required"
	ErrorTypeInvalidFormat ValidationErrorType = "invalid_format"
	ErrorTypeInvalidLength ValidationErrorType = "invalid_length"
	ErrorTypeInvalidValue  ValidationErrorType = "invalid_value"
)

// FieldError is one failed rule on one field
type FieldError struct {
	Field   string
	Type    ValidationErrorType
	Message string
	Value   any
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", fe.Field, fe.Message)
}

// ValidationError collects every field problem found in one pass
type ValidationError struct {
	Errors []FieldError
}

func NewValidationError() *ValidationError {
	return &ValidationError{Errors: []FieldError{}}
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation error"
	case 1:
		return ve.Errors[0].Error()
	}
	return "multiple validation errors: " + ve.join("; ", func(fe *FieldError) string { return fe.Error() })
}

// Err returns ve when it holds at least one field error and nil otherwise,
// so validators can end with a single return.
func (ve *ValidationError) Err() error {
	if !ve.HasErrors() {
		return nil
	}
	return ve
}

// IsValidationError checks if err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

func (ve *ValidationError) AddError(field string, errorType ValidationErrorType, message string, value any) {
	ve.Errors = append(ve.Errors, FieldError{Field: field, Type: errorType, Message: message, Value: value})
}

func (ve *ValidationError) AddRequiredError(field string) {
	ve.AddError(field, ErrorTypeRequired, field+" is required", nil)
}

func (ve *ValidationError) AddInvalidFormatError(field string, value any, expectedFormat string) {
	ve.AddError(field, ErrorTypeInvalidFormat,
		fmt.Sprintf("%s has invalid format, expected: %s", field, expectedFormat), value)
}

// AddInvalidLengthError records a value longer than max characters
func (ve *ValidationError) AddInvalidLengthError(field string, value any, max int) {
	ve.AddError(field, ErrorTypeInvalidLength,
		fmt.Sprintf("%s must be at most %d characters long", field, max), value)
}

func (ve *ValidationError) AddInvalidValueError(field string, value any, reason string) {
	ve.AddError(field, ErrorTypeInvalidValue,
		fmt.Sprintf("%s has invalid value: %s", field, reason), value)
}

// GetFieldErrors returns the errors recorded for field
func (ve *ValidationError) GetFieldErrors(field string) []FieldError {
	var matched []FieldError
	for _, fe := range ve.Errors {
		if fe.Field == field {
			matched = append(matched, fe)
		}
	}
	return matched
}

// GetUserFriendlyMessage returns the messages without field prefixes, one per line
func (ve *ValidationError) GetUserFriendlyMessage() string {
	switch len(ve.Errors) {
	case 0:
		return "Input validation failed"
	case 1:
		return ve.Errors[0].Message
	}
	return "Multiple validation errors occurred:\n" + ve.join("\n", func(fe *FieldError) string { return "- " + fe.Message })
}

func (ve *ValidationError) join(sep string, render func(*FieldError) string) string {
	parts := make([]string, len(ve.Errors))
	for i := range ve.Errors {
		parts[i] = render(&ve.Errors[i])
	}
	return strings.Join(parts, sep)
}
