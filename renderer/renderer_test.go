package renderer

import (
	"strings"
	"testing"

	"github.com/kirmatho-gpt/invanalyzer"
	"github.com/kirmatho-gpt/invanalyzer/date"
)

func TestMismatchMarkdown(t *testing.T) {
	clean := MismatchMarkdown("isa_jane", nil)
	if !strings.Contains(clean, "All positions reconcile.") {
		t.Errorf("clean report = %q", clean)
	}

	mismatches := []invanalyzer.PositionMismatch{{
		Account:         "isa_jane",
		On:              date.New(2024, 3, 1),
		Symbol:          "VOD",
		HoldingsQty:     invanalyzer.Q(101),
		TransactionsQty: invanalyzer.Q(100),
		Delta:           invanalyzer.Q(1),
	}}
	report := MismatchMarkdown("isa_jane", mismatches)
	for _, want := range []string{"# Position Reconciliation: isa_jane", "| 2024-03-01 | VOD | 101 | 100 | +1 |"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestGainsMarkdown(t *testing.T) {
	rows := []invanalyzer.UnrealizedGainRow{
		{
			Account: "isa_jane", On: date.New(2024, 3, 1), Symbol: "VOD", Name: "Vodafone Group",
			BookCost:    invanalyzer.M(125, "GBP"),
			MarketValue: invanalyzer.M(140, "GBP"),
			Gain:        invanalyzer.M(15, "GBP"),
			GainPct:     invanalyzer.P(0.12),
			HasGainPct:  true,
		},
		{
			Account: "sipp", On: date.New(2024, 3, 1), Symbol: "XFER",
			BookCost:    invanalyzer.M(0, "GBP"),
			MarketValue: invanalyzer.M(50, "GBP"),
			Gain:        invanalyzer.M(50, "GBP"),
		},
	}
	report := GainsMarkdown(rows)
	for _, want := range []string{"## isa_jane", "## sipp", "12.00%", "| 2024-03-01 | XFER |"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	// Undefined percentage renders as a dash.
	if !strings.Contains(report, "| +£50.00 | - |") {
		t.Errorf("zero-basis row should have no percentage:\n%s", report)
	}
}

func TestIncomeMarkdown(t *testing.T) {
	rows := []invanalyzer.IncomeSummary{{
		Account: "isa_jane", Month: "2024-01", Symbol: "CASH",
		Description: "account interest",
		Total:       invanalyzer.M(3.5, "GBP"),
	}}
	report := IncomeMarkdown(rows)
	for _, want := range []string{"# Income Summary", "| 2024-01 | CASH | account interest | +£3.50 |"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}
