package errors

import (
	"errors"
	"fmt"
)

// FetchFailedMessage is shown to users whenever bill ingestion fails.
const FetchFailedMessage = "获取账单失败"

// userMessages replaces the internal message for system errors users cannot act on.
var userMessages = map[ErrorType]string{
	ErrorTypeDatabase: "A database error occurred. Please try again.",
	ErrorTypeTimeout:  "The operation timed out. Please try again.",
	ErrorTypeFetch:    FetchFailedMessage,
}

const unexpectedMessage = "An unexpected error occurred. Please try again."

func newError(errorType ErrorType, code, message string, cause error, context map[string]any) *AppError {
	if context == nil {
		context = make(map[string]any)
	}
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    code,
		Cause:   cause,
		Context: context,
	}
}

// NewValidationError wraps the field errors of a failed validation.
func NewValidationError(message string, cause error) *AppError {
	return newError(ErrorTypeValidation, "VALIDATION_FAILED", message, cause, nil)
}

func NewNotFoundError(resource string, identifier string) *AppError {
	return newError(ErrorTypeNotFound, "NOT_FOUND",
		fmt.Sprintf("%s not found: %s", resource, identifier), nil,
		map[string]any{"resource": resource, "identifier": identifier})
}

func NewDatabaseError(operation string, cause error) *AppError {
	return newError(ErrorTypeDatabase, "DATABASE_ERROR",
		"database operation failed: "+operation, cause,
		map[string]any{"operation": operation})
}

// NewInvalidInputError reports a malformed argument such as a non-numeric task id.
func NewInvalidInputError(field string, value any, reason string) *AppError {
	return newError(ErrorTypeInvalidInput, "INVALID_INPUT",
		fmt.Sprintf("invalid input for %s: %s", field, reason), nil,
		map[string]any{"field": field, "value": value, "reason": reason})
}

func NewTimeoutError(operation string, timeout any) *AppError {
	return newError(ErrorTypeTimeout, "TIMEOUT",
		"operation timed out: "+operation, nil,
		map[string]any{"operation": operation, "timeout": timeout})
}

// NewFetchError creates an error for a failed call to the payment provider.
// statusCode is 0 when no HTTP response was received.
func NewFetchError(operation string, statusCode int, cause error) *AppError {
	message := "fetch failed: " + operation
	if statusCode > 0 {
		message = fmt.Sprintf("%s (status %d)", message, statusCode)
	}
	return newError(ErrorTypeFetch, "FETCH_FAILED", message, cause,
		map[string]any{"operation": operation, "status_code": statusCode})
}

// NewConfigError creates an error for missing or unusable configuration.
func NewConfigError(field string, reason string) *AppError {
	return newError(ErrorTypeConfig, "CONFIG_ERROR",
		fmt.Sprintf("configuration error for %s: %s", field, reason), nil,
		map[string]any{"field": field, "reason": reason})
}

// WrapError wraps err under errorType. The code is the type name.
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return newError(errorType, errorType.String(), message, err, nil)
}

func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError returns the outermost AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsErrorType(err error, errorType ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.IsType(errorType)
}

// GetUserMessage returns the message to show to a user. Input and
// configuration problems keep their detail; system failures do not.
func GetUserMessage(err error) string {
	appErr, ok := AsAppError(err)
	if !ok {
		return err.Error()
	}
	if msg, ok := userMessages[appErr.Type]; ok {
		return msg
	}
	if appErr.Type.isUserError() || appErr.Type == ErrorTypeConfig {
		return appErr.Message
	}
	return unexpectedMessage
}

func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError is false for errors caused by user input.
func ShouldLogError(err error) bool {
	appErr, ok := AsAppError(err)
	return !ok || !appErr.Type.isUserError()
}

// LogFields returns structured log fields for any error.
func LogFields(err error) map[string]any {
	if appErr, ok := AsAppError(err); ok {
		return appErr.LogFields()
	}
	return map[string]any{"error_code": GetErrorCode(err)}
}
