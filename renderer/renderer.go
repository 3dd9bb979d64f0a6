// Package renderer turns engine reports into markdown.
package renderer

import (
	"fmt"
	"strings"

	"github.com/kirmatho-gpt/invanalyzer"
)

// MismatchMarkdown renders a position reconciliation report. A clean
// reconciliation still produces a report saying so.
func MismatchMarkdown(account string, mismatches []invanalyzer.PositionMismatch) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Position Reconciliation: %s\n\n", account)
	if len(mismatches) == 0 {
		fmt.Fprintln(&b, "All positions reconcile.")
		return b.String()
	}

	fmt.Fprintf(&b, "%d position(s) do not reconcile.\n\n", len(mismatches))
	fmt.Fprintln(&b, "| Date | Symbol | Holdings | Transactions | Delta |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|")
	for _, m := range mismatches {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			m.On, m.Symbol, m.HoldingsQty, m.TransactionsQty, m.Delta.SignedString())
	}
	return b.String()
}

// GainsMarkdown renders an unrealized gains report, one table per account.
func GainsMarkdown(rows []invanalyzer.UnrealizedGainRow) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Unrealized Gains\n\n")
	if len(rows) == 0 {
		fmt.Fprintln(&b, "No holdings to value.")
		return b.String()
	}

	account := ""
	for _, row := range rows {
		if row.Account != account {
			account = row.Account
			fmt.Fprintf(&b, "## %s\n\n", account)
			fmt.Fprintln(&b, "| Date | Symbol | Name | Book Cost | Market Value | Gain | Gain % |")
			fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|")
		}
		pct := "-"
		if row.HasGainPct {
			pct = row.GainPct.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			row.On, row.Symbol, row.Name,
			row.BookCost, row.MarketValue, row.Gain.SignedString(), pct)
	}
	return b.String()
}

// IncomeMarkdown renders a monthly income summary, one table per account.
func IncomeMarkdown(rows []invanalyzer.IncomeSummary) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Income Summary\n\n")
	if len(rows) == 0 {
		fmt.Fprintln(&b, "No income recorded.")
		return b.String()
	}

	account := ""
	for _, row := range rows {
		if row.Account != account {
			account = row.Account
			fmt.Fprintf(&b, "## %s\n\n", account)
			fmt.Fprintln(&b, "| Month | Symbol | Description | Total |")
			fmt.Fprintln(&b, "|:---|:---|:---|---:|")
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			row.Month, row.Symbol, row.Description, row.Total.SignedString())
	}
	return b.String()
}
