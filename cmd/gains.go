package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/kirmatho-gpt/invanalyzer"
	"github.com/kirmatho-gpt/invanalyzer/renderer"
	"github.com/kirmatho-gpt/invanalyzer/store"
)

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	root     string
	output   string
	combined string
	all      bool
	accounts string
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "unrealized gain analysis per holdings snapshot" }
func (*gainsCmd) Usage() string {
	return `iv gains -root <normalized-dir> [-output <reports-dir>] [-combined <file>] [-all] [-accounts <a,b>] [-config <file>]

  Values every holdings line against the average-cost book value replayed
  from the account's transactions, and reports the unrealized gain.
  With -output, writes one CSV per account and valuation date. With
  -combined, also writes a single cross-account CSV holding each account's
  most recent valuation (every valuation with -all).
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.root, "root", "", "Normalized tree to report on")
	f.StringVar(&c.output, "output", "", "Directory to write per-account gains CSVs to")
	f.StringVar(&c.combined, "combined", "", "Path of the combined cross-account CSV")
	f.BoolVar(&c.all, "all", false, "Keep every valuation date in the combined CSV, not just the latest")
	f.StringVar(&c.accounts, "accounts", "", "Comma-separated account names (default: all)")
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.root == "" {
		fmt.Fprintln(os.Stderr, "-root is required")
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		return errorf("Error loading config: %v", err)
	}

	transactions, err := store.LoadTransactionTree(c.root)
	if err != nil {
		return errorf("Error loading transactions: %v", err)
	}
	holdings, err := store.LoadHoldingsTree(c.root)
	if err != nil {
		return errorf("Error loading holdings: %v", err)
	}

	rows := invanalyzer.SummarizeUnrealizedGains(transactions, holdings, accountFilter(c.accounts, cfg))

	if c.output != "" {
		if err := store.WriteGainReports(c.output, rows); err != nil {
			return errorf("Error writing gains reports: %v", err)
		}
	}
	if c.combined != "" {
		if err := store.WriteCombinedGainReport(c.combined, rows, !c.all); err != nil {
			return errorf("Error writing combined report: %v", err)
		}
	}

	printMarkdown(renderer.GainsMarkdown(rows))
	return subcommands.ExitSuccess
}
