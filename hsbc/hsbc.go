// Package hsbc parses HSBC InvestDirect transaction exports into normalized
// records. The export only carries a settled amount, so the cash-flow
// direction is recovered from the transaction description.
package hsbc

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
const Broker = "hsbc"

// Exports mix plain dates and timestamped ones.
var dateFormats = []string{"2 Jan 2006", "2 Jan 2006 15:04"}

// cashFlow sees the normalized tags, not the raw export descriptions.
var debitDescriptions = map[string]bool{
	invanalyzer.TagBuy: true,
}

var creditDescriptions = map[string]bool{
	invanalyzer.TagSell:     true,
	invanalyzer.TagDividend: true,
	invanalyzer.TagInterest: true,
}

// Transactions parses an HSBC transaction export. Descriptions are mapped
// onto the normalized classification tags; an unexpected description is an
// error rather than an undetermined record.
func Transactions(r io.Reader, account, sourceFile string) ([]invanalyzer.TransactionRecord, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	var records []invanalyzer.TransactionRecord
	for i, row := range rows {
		tradeDate, err := parseDate(row.get("Transaction Date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		description, err := normalizeDescription(row.get("Transaction Description"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		quantity, err := parseDecimal(row.get("No. of Units"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		price, err := parseDecimal(row.get("Deal Price"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		settled, err := parseDecimal(row.get("Settled Amount"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		debit, credit := cashFlow(description, settled)

		currency := normalizeText(row.get("Settlement Currency"))
		if currency == "" {
			currency = normalizeText(row.get("Price Currency"))
		}

		rec := invanalyzer.TransactionRecord{
			Account:   account,
			Broker:    Broker,
			TradeDate: tradeDate,
			// The export has no settlement date column.
			SettlementDate: tradeDate,
			Symbol:         normalizeText(row.get("Product Short Name")),
			Sedol:          normalizeText(row.get("Product Code")),
			Quantity:       quantity,
			Price:          price,
			Description:    description,
			Reference:      normalizeText(row.get("Transaction Reference")),
			Debit:          debit,
			Credit:         credit,
			Currency:       currency,
			SourceFile:     sourceFile,
		}
		rec.ID = invanalyzer.Fingerprint(rec)
		records = append(records, rec)
	}
	return records, nil
}

// normalizeDescription maps the export's transaction descriptions onto the
// normalized classification tags.
func normalizeDescription(value string) (string, error) {
	cleaned := normalizeText(value)
	if cleaned == "" {
		return "", nil
	}
	switch strings.ToLower(cleaned) {
	case "bought":
		return invanalyzer.TagBuy, nil
	case "sold":
		return invanalyzer.TagSell, nil
	case "cash dividend received":
		return invanalyzer.TagDividend, nil
	case "interest received":
		return invanalyzer.TagInterest, nil
	}
	return "", fmt.Errorf("unexpected transaction description %q", value)
}

// cashFlow splits the settled amount into a debit or a credit depending on
// the direction implied by the description. Unknown directions keep both
// sides absent.
func cashFlow(description string, settled decimal.NullDecimal) (debit, credit decimal.NullDecimal) {
	if !settled.Valid || description == "" {
		return decimal.NullDecimal{}, decimal.NullDecimal{}
	}
	normalized := strings.ToLower(strings.TrimSpace(description))
	switch {
	case debitDescriptions[normalized]:
		return settled, decimal.NullDecimal{}
	case creditDescriptions[normalized]:
		return decimal.NullDecimal{}, settled
	}
	return decimal.NullDecimal{}, decimal.NullDecimal{}
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
	cleaned := strings.TrimSpace(value)
	for _, format := range dateFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return date.FromTime(t), nil
		}
	}
	return date.Date{}, fmt.Errorf("invalid date %q", value)
}

func parseDecimal(value string) (decimal.NullDecimal, error) {
	if isNA(value) {
		return decimal.NullDecimal{}, nil
	}
	cleaned := strings.NewReplacer("£", "", ",", "").Replace(value)
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
