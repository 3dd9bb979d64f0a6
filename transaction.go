package invanalyzer

import (
	"github.com/shopspring/decimal"

	"github.com/kirmatho-gpt/invanalyzer/date"
)

// Normalized description tags produced by the ingestion layer. Any other
// description is free text and is excluded from position math.
const (
	TagBuy           = "buy"
	TagSell          = "sell"
	TagDividend      = "dividend"
	TagInterest      = "account interest"
	TagFees          = "fees"
	TagCashAdvantage = "cash advantage"
)

// TransactionRecord is one normalized broker transaction. It is immutable
// once produced by the ingestion layer.
//
// Nullable numeric fields use decimal.NullDecimal; nullable dates are zero
// Dates and nullable strings are empty.
type TransactionRecord struct {
	ID             string // sha256 fingerprint of the normalized row
	Account        string
	Broker         string
	TradeDate      date.Date
	SettlementDate date.Date
	Symbol         string
	Sedol          string
	Quantity       decimal.NullDecimal
	Price          decimal.NullDecimal
	Description    string // normalized tag, or free text
	Reference      string
	Debit          decimal.NullDecimal
	Credit         decimal.NullDecimal
	RunningBalance decimal.NullDecimal
	Currency       string
	SourceFile     string
}

// TransactionLike is the minimal view of a transaction the position builder
// needs. TransactionRecord implements it; so can any richer record shape.
type TransactionLike interface {
	// On returns the effective date: the trade date, or the settlement date
	// when the trade date is absent. Zero when neither is known.
	On() date.Date
	// Security returns the symbol, or "" when missing.
	Security() string
	// Units returns the unsigned quantity of the record.
	Units() decimal.NullDecimal
	// Kind returns the normalized description tag.
	Kind() string
}

// On returns the record's effective date: trade date if present, else
// settlement date. Records with a zero effective date are excluded from all
// temporal logic.
func (t TransactionRecord) On() date.Date {
	if !t.TradeDate.IsZero() {
		return t.TradeDate
	}
	return t.SettlementDate
}

// Security returns the record's symbol.
func (t TransactionRecord) Security() string { return t.Symbol }

// Units returns the record's unsigned quantity.
func (t TransactionRecord) Units() decimal.NullDecimal { return t.Quantity }

// Kind returns the record's normalized description tag.
func (t TransactionRecord) Kind() string { return t.Description }

var _ TransactionLike = TransactionRecord{}

// IsIncome reports whether the record's tag is one of the income
// classifications (dividend, interest, fees, cash advantage).
func (t TransactionRecord) IsIncome() bool {
	switch t.Description {
	case TagDividend, TagInterest, TagFees, TagCashAdvantage:
		return true
	}
	return false
}
