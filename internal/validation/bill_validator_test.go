package validation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/domain"
)

func validRecord() domain.BillRecord {
	return domain.BillRecord{
		TransactionID: "T1",
		TradeTime:     time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Amount:        decimal.RequireFromString("9.9"),
		Description:   "coffee",
	}
}

func TestBillValidator_RecordFields(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *domain.BillRecord)
		field  string
	}{
		{name: "valid", modify: func(r *domain.BillRecord) {}},
		{name: "missing transaction id", modify: func(r *domain.BillRecord) { r.TransactionID = " " }, field: "transaction_id"},
		{name: "missing trade time", modify: func(r *domain.BillRecord) { r.TradeTime = time.Time{} }, field: "trade_time"},
		{name: "negative amount", modify: func(r *domain.BillRecord) { r.Amount = decimal.NewFromInt(-1) }, field: "amount"},
		{name: "missing description", modify: func(r *domain.BillRecord) { r.Description = "" }, field: "description"},
	}

	bv := NewBillValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			tt.modify(&record)

			err := bv.ValidateBillRecords([]domain.BillRecord{record})
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			ve := err.(*ValidationError)
			assert.Len(t, ve.GetFieldErrors("records[0]."+tt.field), 1)
		})
	}
}

func TestBillValidator_ValidateBillRecords(t *testing.T) {
	bv := NewBillValidator()

	bad := validRecord()
	bad.Description = ""

	assert.NoError(t, bv.ValidateBillRecords([]domain.BillRecord{validRecord()}))
	assert.NoError(t, bv.ValidateBillRecords(nil))

	err := bv.ValidateBillRecords([]domain.BillRecord{validRecord(), bad})
	require.Error(t, err)
	ve := err.(*ValidationError)
	require.Len(t, ve.Errors, 1)
	assert.Equal(t, "records[1].description", ve.Errors[0].Field)
}

func TestBillValidator_ValidateBillDate(t *testing.T) {
	bv := NewBillValidator()

	assert.NoError(t, bv.ValidateBillDate("2024-01-01"))
	assert.Error(t, bv.ValidateBillDate("01/01/2024"))
}
