package invanalyzer

import (
	"github.com/shopspring/decimal"

	"github.com/kirmatho-gpt/invanalyzer/date"
)

// HoldingRecord is one line of a broker-reported holdings snapshot at a
// single valuation date. Snapshots are ground truth for reconciliation and
// market values; the engine never recomputes them.
type HoldingRecord struct {
	ID           string // sha256 fingerprint of the normalized row
	Account      string
	Broker       string
	On           date.Date // valuation date
	Symbol       string
	Name         string
	Quantity     decimal.NullDecimal
	Price        decimal.NullDecimal
	AveragePrice decimal.NullDecimal
	MarketValue  decimal.NullDecimal
	BookCost     decimal.NullDecimal
	GainLoss     decimal.NullDecimal
	GainLossPct  decimal.NullDecimal
	Currency     string
	SourceFile   string
}

// DeclaredMarketValue resolves the market value of the holding: the
// broker-declared value when present, else quantity times price, else zero.
func (h HoldingRecord) DeclaredMarketValue() Money {
	if h.MarketValue.Valid {
		return M(h.MarketValue.Decimal, h.Currency)
	}
	if h.Quantity.Valid && h.Price.Valid {
		return M(h.Quantity.Decimal.Mul(h.Price.Decimal), h.Currency)
	}
	return M(0, h.Currency)
}

// HoldingsSnapshot groups the holdings a broker declared for one account on
// one valuation date. Account is the snapshot's location context, used when
// the transaction history is empty.
type HoldingsSnapshot struct {
	Account string
	On      date.Date
	Rows    []HoldingRecord
}
