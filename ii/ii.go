// Package ii parses interactive investor broker exports into normalized
// records. Exports are columnar CSV with "n/a" placeholders, pound signs and
// thousands separators; everything here is best-effort cleanup, but a value
// that survives cleanup and still fails to parse is an error.
package ii

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kirmatho-gpt/invanalyzer"
	"github.com/kirmatho-gpt/invanalyzer/date"
)

// Broker is the normalized broker name for this package.
const Broker = "ii"

const dateFormat = "02/01/2006" // ii exports use DD/MM/YYYY

// Transactions parses an ii transaction export. All records are GBP; the
// description column already carries the normalized classification tags.
func Transactions(r io.Reader, account, sourceFile string) ([]invanalyzer.TransactionRecord, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	var records []invanalyzer.TransactionRecord
	for i, row := range rows {
		tradeDate, err := parseDate(row.get("Date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		settlementDate, err := parseDate(row.get("Settlement Date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		quantity, err := parseDecimal(row.get("Quantity"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		price, err := parseDecimal(row.get("Price"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		debit, err := parseDecimal(row.get("Debit"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		credit, err := parseDecimal(row.get("Credit"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		balance, err := parseDecimal(row.get("Running Balance"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		rec := invanalyzer.TransactionRecord{
			Account:        account,
			Broker:         Broker,
			TradeDate:      tradeDate,
			SettlementDate: settlementDate,
			Symbol:         normalizeText(row.get("Symbol")),
			Sedol:          normalizeText(row.get("Sedol")),
			Quantity:       quantity,
			Price:          price,
			Description:    normalizeText(row.get("Description")),
			Reference:      normalizeText(row.get("Reference")),
			Debit:          debit,
			Credit:         credit,
			RunningBalance: balance,
			Currency:       "GBP",
			SourceFile:     sourceFile,
		}
		rec.ID = invanalyzer.Fingerprint(rec)
		records = append(records, rec)
	}
	return records, nil
}

// Holdings parses an ii holdings snapshot export. The valuation date comes
// from the filename, not the file content.
func Holdings(r io.Reader, account string, on date.Date, sourceFile string) ([]invanalyzer.HoldingRecord, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	var records []invanalyzer.HoldingRecord
	for i, row := range rows {
		quantity, err := parseDecimal(row.get("Qty"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		price, err := parseDecimal(row.get("Price"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		averagePrice, err := parseDecimal(row.get("Average Price"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		marketValue, err := parseDecimal(row.get("Market Value"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		bookCost, err := parseDecimal(row.get("Book Cost"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		gainLoss, err := parseDecimal(row.get("Gain/Loss"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		gainLossPct, err := parseDecimal(row.get("Gain/Loss %"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		rec := invanalyzer.HoldingRecord{
			Account:      account,
			Broker:       Broker,
			On:           on,
			Symbol:       normalizeText(row.get("Symbol")),
			Name:         normalizeText(row.get("Name")),
			Quantity:     quantity,
			Price:        price,
			AveragePrice: averagePrice,
			MarketValue:  marketValue,
			BookCost:     bookCost,
			GainLoss:     gainLoss,
			GainLossPct:  gainLossPct,
			Currency:     "GBP",
			SourceFile:   sourceFile,
		}
		rec.ID = invanalyzer.HoldingFingerprint(rec)
		records = append(records, rec)
	}
	return records, nil
}

// row is one CSV record indexed by its header.
type row struct {
	header map[string]int
	fields []string
}

func (r row) get(column string) string {
	i, ok := r.header[column]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

func readRows(r io.Reader) ([]row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}
	header := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		// Exports start with a BOM now and then.
		header[strings.TrimPrefix(strings.TrimSpace(name), "\uFEFF")] = i
	}
	rows := make([]row, 0, len(all)-1)
	for _, fields := range all[1:] {
		rows = append(rows, row{header: header, fields: fields})
	}
	return rows, nil
}

// isNA reports the export's "empty" markers.
func isNA(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || strings.EqualFold(trimmed, "n/a")
}

func normalizeText(value string) string {
	if isNA(value) {
		return ""
	}
	return strings.TrimSpace(value)
}

func parseDate(value string) (date.Date, error) {
	if isNA(value) {
		return date.Date{}, nil
	}
	t, err := time.Parse(dateFormat, strings.TrimSpace(value))
	if err != nil {
		return date.Date{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return date.FromTime(t), nil
}

func parseDecimal(value string) (decimal.NullDecimal, error) {
	if isNA(value) {
		return decimal.NullDecimal{}, nil
	}
	cleaned := strings.NewReplacer("£", "", ",", "", "%", "").Replace(value)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
