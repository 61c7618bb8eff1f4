package cli

import (
	stderrors "errors"
	"fmt"

	"task-manager/internal/errors"
	"task-manager/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if errors.IsAppError(err) {
		return fmt.Errorf("failed to %s: %s", operation, eh.message(err))
	}
	if validationErr, ok := asValidationError(err); ok {
		return fmt.Errorf("failed to %s: %s", operation, validationErr.GetUserFriendlyMessage())
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if errors.IsAppError(err) {
		return stderrors.New(eh.message(err))
	}
	if validationErr, ok := asValidationError(err); ok {
		return stderrors.New(validationErr.GetUserFriendlyMessage())
	}
	return err
}

// message renders an AppError, appending field details for validation failures
func (eh *ErrorHandler) message(err error) string {
	userMessage := errors.GetUserMessage(err)
	if eh.IsValidationError(err) {
		if validationErr, ok := asValidationError(err); ok {
			return fmt.Sprintf("%s: %s", userMessage, validationErr.GetUserFriendlyMessage())
		}
	}
	return userMessage
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation) ||
		errors.IsErrorType(err, errors.ErrorTypeInvalidInput)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsFetchError checks if an error came from the payment provider
func (eh *ErrorHandler) IsFetchError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeFetch) ||
		errors.IsErrorType(err, errors.ErrorTypeTimeout)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}

func asValidationError(err error) (*validation.ValidationError, bool) {
	var validationErr *validation.ValidationError
	if stderrors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}
