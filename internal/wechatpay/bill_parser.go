package wechatpay

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"task-manager/internal/domain"
)

// Column headers of the trade bill file.
const (
	colTradeTime     = "交易时间"
	colTransactionID = "微信订单号"
	colTradeState    = "交易状态"
	colAmount        = "应结订单金额"
	colDescription   = "商品名称"

	summaryMarker   = "总交易单数"
	tradeTimeLayout = "2006-01-02 15:04:05"
	stateSuccess    = "SUCCESS"
)

// Bill times are Beijing time; China has no daylight saving.
var beijing = time.FixedZone("CST", 8*60*60)

// ParseTradeBill reads a trade bill file and returns its successful payments
// in file order. Refund rows are skipped. Parsing stops at the summary section.
func ParseTradeBill(r io.Reader) ([]domain.BillRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []domain.BillRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bill header: %w", err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	records := []domain.BillRecord{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read bill row: %w", err)
		}
		if len(row) > 0 && cleanCell(row[0]) == summaryMarker {
			break
		}
		if isBlankRow(row) {
			continue
		}

		line, _ := reader.FieldPos(0)
		record, ok, err := cols.parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("bill line %d: %w", line, err)
		}
		if ok {
			records = append(records, record)
		}
	}

	return records, nil
}

type columnIndex struct {
	tradeTime, transactionID, state, amount, description int
}

func indexColumns(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[cleanCell(name)] = i
	}

	lookup := func(name string) (int, error) {
		i, ok := positions[name]
		if !ok {
			return 0, fmt.Errorf("bill header is missing column %q", name)
		}
		return i, nil
	}

	var cols columnIndex
	var err error
	if cols.tradeTime, err = lookup(colTradeTime); err != nil {
		return cols, err
	}
	if cols.transactionID, err = lookup(colTransactionID); err != nil {
		return cols, err
	}
	if cols.state, err = lookup(colTradeState); err != nil {
		return cols, err
	}
	if cols.amount, err = lookup(colAmount); err != nil {
		return cols, err
	}
	if cols.description, err = lookup(colDescription); err != nil {
		return cols, err
	}
	return cols, nil
}

// parseRow returns ok=false for rows that are not successful payments.
func (c columnIndex) parseRow(row []string) (domain.BillRecord, bool, error) {
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return cleanCell(row[i])
	}

	if cell(c.state) != stateSuccess {
		return domain.BillRecord{}, false, nil
	}

	tradeTime, err := time.ParseInLocation(tradeTimeLayout, cell(c.tradeTime), beijing)
	if err != nil {
		return domain.BillRecord{}, false, fmt.Errorf("invalid trade time: %w", err)
	}

	amount, err := decimal.NewFromString(cell(c.amount))
	if err != nil {
		return domain.BillRecord{}, false, fmt.Errorf("invalid amount %q: %w", cell(c.amount), err)
	}

	return domain.BillRecord{
		TransactionID: cell(c.transactionID),
		TradeTime:     tradeTime.UTC(),
		Amount:        amount,
		Description:   cell(c.description),
	}, true, nil
}

// cleanCell drops the backquote the provider prefixes to every value
// and the byte order mark on the first header cell.
func cleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.TrimSpace(s)
	return strings.TrimPrefix(s, "`")
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cleanCell(cell) != "" {
			return false
		}
	}
	return true
}
