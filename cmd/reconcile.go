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

// reconcileCmd holds the flags for the 'reconcile' subcommand.
type reconcileCmd struct {
	root     string
	accounts string
}

func (*reconcileCmd) Name() string { return "reconcile" }
func (*reconcileCmd) Synopsis() string {
	return "check transaction-derived positions against holdings snapshots"
}
func (*reconcileCmd) Usage() string {
	return `iv reconcile -root <normalized-dir> [-accounts <a,b>] [-config <file>]

  Replays each account's transactions up to every holdings valuation date and
  reports any symbol whose derived position disagrees with the snapshot.
  Exits with a failure status when any position does not reconcile.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.root, "root", "", "Normalized tree to reconcile")
	f.StringVar(&c.accounts, "accounts", "", "Comma-separated account names (default: all)")
}

func (c *reconcileCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.root == "" {
		fmt.Fprintln(os.Stderr, "-root is required")
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		return errorf("Error loading config: %v", err)
	}
	filter := accountFilter(c.accounts, cfg)

	transactions, err := store.LoadTransactionTree(c.root)
	if err != nil {
		return errorf("Error loading transactions: %v", err)
	}
	holdings, err := store.LoadHoldingsTree(c.root)
	if err != nil {
		return errorf("Error loading holdings: %v", err)
	}

	byAccount := make(map[string][]invanalyzer.TransactionRecord)
	for _, rec := range transactions {
		byAccount[rec.Account] = append(byAccount[rec.Account], rec)
	}

	clean := true
	for _, snapshot := range store.Snapshots(holdings) {
		if !filter.Match(snapshot.Account) {
			continue
		}
		mismatches := invanalyzer.Reconcile(byAccount[snapshot.Account], snapshot)
		if len(mismatches) > 0 {
			clean = false
		}
		printMarkdown(renderer.MismatchMarkdown(snapshot.Account, mismatches))
	}

	if !clean {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
