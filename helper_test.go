package invanalyzer

import (
	"github.com/shopspring/decimal"

	"github.com/kirmatho-gpt/invanalyzer/date"
)

// GBP is a helper for tests to create sterling money from a const.
func GBP(v float64) Money { return M(v, "GBP") }

// nd is a helper for tests to build a present nullable decimal.
func nd(v float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
}

// none is the absent nullable decimal.
var none decimal.NullDecimal

// on is a helper for tests to parse an ISO date.
func on(s string) date.Date { return date.MustParse(s) }

// buy builds a minimal buy record for ACC on the given day.
func buy(day, symbol string, qty, price float64) TransactionRecord {
	return TransactionRecord{
		Account:     "ACC",
		Broker:      "ii",
		TradeDate:   on(day),
		Symbol:      symbol,
		Quantity:    nd(qty),
		Price:       nd(price),
		Description: TagBuy,
		Currency:    "GBP",
	}
}

// sell builds a minimal sell record for ACC on the given day.
func sell(day, symbol string, qty, price float64) TransactionRecord {
	return TransactionRecord{
		Account:     "ACC",
		Broker:      "ii",
		TradeDate:   on(day),
		Symbol:      symbol,
		Quantity:    nd(qty),
		Price:       nd(price),
		Description: TagSell,
		Currency:    "GBP",
	}
}

// holdingRow builds a minimal holdings line for ACC.
func holdingRow(day, symbol string, qty float64) HoldingRecord {
	return HoldingRecord{
		Account:  "ACC",
		Broker:   "ii",
		On:       on(day),
		Symbol:   symbol,
		Quantity: nd(qty),
		Currency: "GBP",
	}
}
