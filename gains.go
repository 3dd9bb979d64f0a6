package invanalyzer

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kirmatho-gpt/invanalyzer/date"
)

// AccountFilter restricts summarization to a set of account names. An empty
// filter matches every account.
type AccountFilter map[string]struct{}

// NewAccountFilter builds a filter from names, ignoring blanks.
func NewAccountFilter(names ...string) AccountFilter {
	filter := make(AccountFilter)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		filter[name] = struct{}{}
	}
	return filter
}

// Match reports whether the account passes the filter.
func (f AccountFilter) Match(account string) bool {
	if len(f) == 0 {
		return true
	}
	_, ok := f[account]
	return ok
}

// UnrealizedGainRow values one holdings line against the transaction-derived
// book cost at the same valuation date. Monetary fields are rounded to 2
// decimal places and the percentage to 4; HasGainPct is false when the book
// cost is zero, where the ratio is undefined.
type UnrealizedGainRow struct {
	Account     string
	On          date.Date
	Symbol      string
	Name        string
	Quantity    decimal.NullDecimal
	Price       decimal.NullDecimal
	BookCost    Money
	MarketValue Money
	Gain        Money
	GainPct     Percent
	HasGainPct  bool
	Currency    string
}

// SummarizeUnrealizedGains values every holdings line against the book cost
// replayed from that account's transactions at the line's valuation date.
//
// The market value is the broker-declared one when present, else quantity
// times price, else zero. The book cost is the replayed ledger's; a symbol
// with no transaction history (say, a transfer-in) has a zero book cost.
// All intermediate arithmetic keeps full decimal precision; rounding applies
// only here, at the output boundary. Rows come back sorted by account,
// valuation date, then symbol.
func SummarizeUnrealizedGains(transactions []TransactionRecord, holdings []HoldingRecord, filter AccountFilter) []UnrealizedGainRow {
	txsByAccount := make(map[string][]TransactionRecord)
	for _, rec := range transactions {
		if !filter.Match(rec.Account) {
			continue
		}
		txsByAccount[rec.Account] = append(txsByAccount[rec.Account], rec)
	}

	holdingsByAccount := make(map[string][]HoldingRecord)
	datesByAccount := make(map[string][]date.Date)
	for _, h := range holdings {
		if h.On.IsZero() || !filter.Match(h.Account) {
			continue
		}
		holdingsByAccount[h.Account] = append(holdingsByAccount[h.Account], h)
		datesByAccount[h.Account] = append(datesByAccount[h.Account], h.On)
	}

	var rows []UnrealizedGainRow
	for account, accountHoldings := range holdingsByAccount {
		snapshots, _ := Replay(txsByAccount[account], datesByAccount[account])

		for _, h := range accountHoldings {
			position := snapshots[h.On][h.Symbol]
			marketValue := h.DeclaredMarketValue()
			// The weak merge stamps the holding's currency onto a zero
			// book cost (a symbol with no transaction history).
			bookCost := M(0, h.Currency).Add(position.BookCost)
			gain := marketValue.Sub(bookCost)

			row := UnrealizedGainRow{
				Account:     account,
				On:          h.On,
				Symbol:      h.Symbol,
				Name:        h.Name,
				Quantity:    h.Quantity,
				Price:       h.Price,
				BookCost:    bookCost.Rounded(),
				MarketValue: marketValue.Rounded(),
				Gain:        gain.Rounded(),
				Currency:    h.Currency,
			}
			if !bookCost.IsZero() {
				row.GainPct = P(gain.Amount().Div(bookCost.Amount())).Rounded()
				row.HasGainPct = true
			}
			rows = append(rows, row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Account != b.Account {
			return a.Account < b.Account
		}
		if a.On != b.On {
			return a.On.Before(b.On)
		}
		return a.Symbol < b.Symbol
	})
	return rows
}

// LatestRows keeps only each account's most recent valuation date, the
// default shape of the combined cross-account report.
func LatestRows(rows []UnrealizedGainRow) []UnrealizedGainRow {
	latest := make(map[string]date.Date)
	for _, row := range rows {
		if current, ok := latest[row.Account]; !ok || row.On.After(current) {
			latest[row.Account] = row.On
		}
	}
	kept := make([]UnrealizedGainRow, 0, len(rows))
	for _, row := range rows {
		if row.On == latest[row.Account] {
			kept = append(kept, row)
		}
	}
	return kept
}
