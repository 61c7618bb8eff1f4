package validation

import (
	"fmt"

	"task-manager/internal/domain"
)

// BillValidator checks bill records before they become tasks
type BillValidator struct {
	validator *Validator
}

// NewBillValidator creates a new bill validator
func NewBillValidator() *BillValidator {
	return &BillValidator{validator: NewValidator()}
}

// ValidateBillRecords checks that every mandatory field is present.
// Field names are prefixed with the record index.
func (bv *BillValidator) ValidateBillRecords(records []domain.BillRecord) error {
	validationError := NewValidationError()
	for i, record := range records {
		bv.checkRecord(validationError, fmt.Sprintf("records[%d].", i), record)
	}
	return validationError.Err()
}

func (bv *BillValidator) checkRecord(ve *ValidationError, prefix string, record domain.BillRecord) {
	if !bv.validator.IsNonEmptyString(record.TransactionID) {
		ve.AddRequiredError(prefix + "transaction_id")
	}
	if record.TradeTime.IsZero() {
		ve.AddRequiredError(prefix + "trade_time")
	}
	if record.Amount.IsNegative() {
		ve.AddInvalidValueError(prefix+"amount", record.Amount.String(), "must not be negative")
	}
	if !bv.validator.IsNonEmptyString(record.Description) {
		ve.AddRequiredError(prefix + "description")
	}
}

// ValidateBillDate checks a YYYY-MM-DD bill date
func (bv *BillValidator) ValidateBillDate(date string) error {
	validationError := NewValidationError()
	if !bv.validator.IsValidDate(date) {
		validationError.AddInvalidFormatError("bill_date", date, "YYYY-MM-DD")
	}
	return validationError.Err()
}
