// Package store persists normalized records and reports: a per-account CSV
// tree mirroring the ingestion output, and a SQLite archive for long-term
// retention. The engine itself never touches the filesystem.
package store

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/kirmatho-gpt/invanalyzer"
	"github.com/kirmatho-gpt/invanalyzer/date"
)

var transactionColumns = []string{
	"transaction_id", "account_name", "broker", "trade_date", "settlement_date",
	"symbol", "sedol", "quantity", "price", "description", "reference",
	"debit", "credit", "running_balance", "currency", "source_file",
}

var holdingColumns = []string{
	"snapshot_id", "account_name", "broker", "valuation_date", "symbol", "name",
	"quantity", "price", "average_price", "market_value", "book_cost",
	"gain_loss", "gain_loss_pct", "currency", "source_file",
}

var gainColumns = []string{
	"account_name", "valuation_date", "symbol", "name", "quantity", "price",
	"book_cost", "market_value", "unrealized_gain", "unrealized_gain_pct",
	"currency",
}

var incomeColumns = []string{
	"account_name", "month", "symbol", "description", "total_amount",
}

// WriteTransactions writes normalized transactions as CSV.
func WriteTransactions(w io.Writer, records []invanalyzer.TransactionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(transactionColumns); err != nil {
		return err
	}
	for _, t := range records {
		row := []string{
			t.ID, t.Account, t.Broker,
			dateField(t.TradeDate), dateField(t.SettlementDate),
			t.Symbol, t.Sedol,
			decimalField(t.Quantity), decimalField(t.Price),
			t.Description, t.Reference,
			decimalField(t.Debit), decimalField(t.Credit), decimalField(t.RunningBalance),
			t.Currency, t.SourceFile,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTransactions reads a normalized transaction CSV, the inverse of
// WriteTransactions. Columns are matched by header name, not position.
func ReadTransactions(r io.Reader) ([]invanalyzer.TransactionRecord, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	var records []invanalyzer.TransactionRecord
	for i, row := range rows {
		tradeDate, err := parseDate(row.get("trade_date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		settlementDate, err := parseDate(row.get("settlement_date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		quantity, err := parseDecimal(row.get("quantity"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		price, err := parseDecimal(row.get("price"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		debit, err := parseDecimal(row.get("debit"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		credit, err := parseDecimal(row.get("credit"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		balance, err := parseDecimal(row.get("running_balance"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, invanalyzer.TransactionRecord{
			ID:             row.get("transaction_id"),
			Account:        row.get("account_name"),
			Broker:         row.get("broker"),
			TradeDate:      tradeDate,
			SettlementDate: settlementDate,
			Symbol:         row.get("symbol"),
			Sedol:          row.get("sedol"),
			Quantity:       quantity,
			Price:          price,
			Description:    row.get("description"),
			Reference:      row.get("reference"),
			Debit:          debit,
			Credit:         credit,
			RunningBalance: balance,
			Currency:       row.get("currency"),
			SourceFile:     row.get("source_file"),
		})
	}
	return records, nil
}

// WriteHoldings writes normalized holdings lines as CSV.
func WriteHoldings(w io.Writer, records []invanalyzer.HoldingRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(holdingColumns); err != nil {
		return err
	}
	for _, h := range records {
		row := []string{
			h.ID, h.Account, h.Broker, dateField(h.On),
			h.Symbol, h.Name,
			decimalField(h.Quantity), decimalField(h.Price), decimalField(h.AveragePrice),
			decimalField(h.MarketValue), decimalField(h.BookCost),
			decimalField(h.GainLoss), decimalField(h.GainLossPct),
			h.Currency, h.SourceFile,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadHoldings reads a normalized holdings CSV. Rows with no valuation date
// (after the filename fallback) or no symbol are dropped: they cannot
// participate in reconciliation or valuation.
func ReadHoldings(r io.Reader, fallback date.Date) ([]invanalyzer.HoldingRecord, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	var records []invanalyzer.HoldingRecord
	for i, row := range rows {
		on, err := parseDate(row.get("valuation_date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if on.IsZero() {
			on = fallback
		}
		symbol := row.get("symbol")
		if on.IsZero() || symbol == "" {
			continue
		}
		quantity, err := parseDecimal(row.get("quantity"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		price, err := parseDecimal(row.get("price"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		averagePrice, err := parseDecimal(row.get("average_price"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		marketValue, err := parseDecimal(row.get("market_value"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		bookCost, err := parseDecimal(row.get("book_cost"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		gainLoss, err := parseDecimal(row.get("gain_loss"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		gainLossPct, err := parseDecimal(row.get("gain_loss_pct"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, invanalyzer.HoldingRecord{
			ID:           row.get("snapshot_id"),
			Account:      row.get("account_name"),
			Broker:       row.get("broker"),
			On:           on,
			Symbol:       symbol,
			Name:         row.get("name"),
			Quantity:     quantity,
			Price:        price,
			AveragePrice: averagePrice,
			MarketValue:  marketValue,
			BookCost:     bookCost,
			GainLoss:     gainLoss,
			GainLossPct:  gainLossPct,
			Currency:     row.get("currency"),
			SourceFile:   row.get("source_file"),
		})
	}
	return records, nil
}

// WriteGains writes an unrealized-gains report as CSV. Rows are expected in
// their already-rounded report form.
func WriteGains(w io.Writer, rows []invanalyzer.UnrealizedGainRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(gainColumns); err != nil {
		return err
	}
	for _, row := range rows {
		pct := ""
		if row.HasGainPct {
			pct = row.GainPct.Ratio().String()
		}
		record := []string{
			row.Account, dateField(row.On), row.Symbol, row.Name,
			decimalField(row.Quantity), decimalField(row.Price),
			row.BookCost.DecimalString(), row.MarketValue.DecimalString(),
			row.Gain.DecimalString(), pct,
			row.Currency,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteIncome writes a monthly income summary as CSV.
func WriteIncome(w io.Writer, rows []invanalyzer.IncomeSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(incomeColumns); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Account, row.Month, row.Symbol, row.Description,
			row.Total.DecimalString(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
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
		header[name] = i
	}
	rows := make([]row, 0, len(all)-1)
	for _, fields := range all[1:] {
		rows = append(rows, row{header: header, fields: fields})
	}
	return rows, nil
}

func dateField(d date.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func decimalField(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func parseDate(value string) (date.Date, error) {
	if value == "" {
		return date.Date{}, nil
	}
	return date.Parse(value)
}

func parseDecimal(value string) (decimal.NullDecimal, error) {
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
