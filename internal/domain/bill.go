package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillTaskPrefix starts the text of every task created from a bill record.
const BillTaskPrefix = "支付: "

// BillRecord is a single payment transaction reported by the payment provider.
type BillRecord struct {
	TransactionID string          `json:"transaction_id"`
	TradeTime     time.Time       `json:"trade_time"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
}

// ToTask maps the record to a completed bill task without an ID.
func (r BillRecord) ToTask() Task {
	return NewBillTask(BillTaskPrefix+r.Description, BillDetails{
		Amount:        r.Amount,
		TransactionID: r.TransactionID,
		TradeTime:     r.TradeTime,
	})
}
