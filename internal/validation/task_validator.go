package validation

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
	maxLength int
}

// NewTaskValidator creates a task validator with the default length limit
func NewTaskValidator() *TaskValidator {
	return NewTaskValidatorWithLimit(DefaultTaskTextMaxLength)
}

// NewTaskValidatorWithLimit creates a task validator allowing at most maxLength characters
func NewTaskValidatorWithLimit(maxLength int) *TaskValidator {
	if maxLength <= 0 {
		maxLength = DefaultTaskTextMaxLength
	}
	return &TaskValidator{
		validator: NewValidator(),
		maxLength: maxLength,
	}
}

// IsBlank reports whether text is empty after trimming. Blank submissions are ignored, not rejected.
func (tv *TaskValidator) IsBlank(text string) bool {
	return !tv.validator.IsNonEmptyString(text)
}

// ValidateTaskText validates task text for creation
func (tv *TaskValidator) ValidateTaskText(text string) error {
	validationError := NewValidationError()

	trimmed := tv.validator.TrimAndValidateString(text)
	if trimmed == "" {
		validationError.AddRequiredError("text")
		return validationError
	}
	if !tv.validator.IsWithinLength(trimmed, tv.maxLength) {
		validationError.AddInvalidLengthError("text", trimmed, tv.maxLength)
	}

	return validationError.Err()
}

// GetValidTaskText returns the trimmed text if it is valid
func (tv *TaskValidator) GetValidTaskText(text string) (string, error) {
	if err := tv.ValidateTaskText(text); err != nil {
		return "", err
	}
	return tv.validator.TrimAndValidateString(text), nil
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	validationError := NewValidationError()
	if !tv.validator.IsValidTaskID(id) {
		validationError.AddInvalidValueError("task_id", id, "must be a positive integer")
	}
	return validationError.Err()
}
