package invanalyzer

import (
	"fmt"
	"sort"
)

// IncomeSummary is one aggregated income line: the signed total (credits
// minus debits) received in one month for one symbol and description within
// one account. Realized gains from disposals appear under the synthetic
// "sell of securities" description.
type IncomeSummary struct {
	Account     string
	Month       string // "2006-01", or "unknown" when no date is known
	Symbol      string // "CASH" for cash-level income
	Description string
	Total       Money
}

// incomeRow is one income event before aggregation.
type incomeRow struct {
	account     string
	month       string
	symbol      string
	description string
	amount      Money // credit minus debit
}

func monthKey(t TransactionRecord) string {
	on := t.On()
	if on.IsZero() {
		return "unknown"
	}
	return fmt.Sprintf("%04d-%02d", on.Year(), int(on.Month()))
}

// incomeRows walks one account's history in effective-date order and yields
// income events: dividend/interest/fee/cash-advantage records as-is, and for
// each sell the realized gain computed by the shared average-cost ledger.
// Buys feed the ledger silently so later disposals carry the right basis.
func incomeRows(transactions []TransactionRecord) []incomeRow {
	positions := NewPositions()
	dated := make([]TransactionRecord, 0, len(transactions))
	for _, rec := range transactions {
		if !rec.On().IsZero() {
			dated = append(dated, rec)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].On().Before(dated[j].On())
	})

	var rows []incomeRow
	for _, rec := range dated {
		if rec.IsIncome() {
			amount := M(0, rec.Currency)
			if rec.Credit.Valid {
				amount = amount.Add(M(rec.Credit.Decimal, rec.Currency))
			}
			if rec.Debit.Valid {
				amount = amount.Sub(M(rec.Debit.Decimal, rec.Currency))
			}
			rows = append(rows, incomeRow{
				account:     rec.Account,
				month:       monthKey(rec),
				symbol:      rec.Symbol,
				description: rec.Description,
				amount:      amount,
			})
			continue
		}
		if rec.Description != TagBuy && rec.Description != TagSell {
			continue
		}
		gain, outcome := positions.Apply(rec)
		if rec.Description == TagBuy || outcome != Disposed {
			continue
		}
		rows = append(rows, incomeRow{
			account:     rec.Account,
			month:       monthKey(rec),
			symbol:      rec.Symbol,
			description: "sell of securities",
			amount:      gain,
		})
	}
	return rows
}

// SummarizeIncome aggregates income events into monthly totals per account,
// symbol and description, sorted by account, month, symbol, description.
// The account filter applies before aggregation; an empty filter keeps all.
func SummarizeIncome(transactions []TransactionRecord, filter AccountFilter) []IncomeSummary {
	byAccount := make(map[string][]TransactionRecord)
	for _, rec := range transactions {
		if !filter.Match(rec.Account) {
			continue
		}
		byAccount[rec.Account] = append(byAccount[rec.Account], rec)
	}

	type key struct {
		account, month, symbol, description string
	}
	totals := make(map[key]Money)
	for _, accountTxs := range byAccount {
		for _, row := range incomeRows(accountTxs) {
			symbol := row.symbol
			if symbol == "" {
				symbol = "CASH"
			}
			description := row.description
			if description == "" {
				description = "unknown"
			}
			account := row.account
			if account == "" {
				account = "unknown"
			}
			k := key{account, row.month, symbol, description}
			totals[k] = totals[k].Add(row.amount)
		}
	}

	summary := make([]IncomeSummary, 0, len(totals))
	for k, total := range totals {
		summary = append(summary, IncomeSummary{
			Account:     k.account,
			Month:       k.month,
			Symbol:      k.symbol,
			Description: k.description,
			Total:       total,
		})
	}
	sort.Slice(summary, func(i, j int) bool {
		a, b := summary[i], summary[j]
		if a.Account != b.Account {
			return a.Account < b.Account
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if a.Symbol != b.Symbol {
			return a.Symbol < b.Symbol
		}
		return a.Description < b.Description
	})
	return summary
}
