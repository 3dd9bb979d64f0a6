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

// incomeCmd holds the flags for the 'income' subcommand.
type incomeCmd struct {
	root     string
	output   string
	accounts string
}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "monthly income summary (dividends, interest, realized gains)" }
func (*incomeCmd) Usage() string {
	return `iv income -root <normalized-dir> [-output <file>] [-accounts <a,b>] [-config <file>]

  Aggregates dividends, interest, fees and realized disposal gains into
  monthly totals per account, symbol and description.
`
}

func (c *incomeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.root, "root", "", "Normalized tree to report on")
	f.StringVar(&c.output, "output", "", "Path of the income summary CSV")
	f.StringVar(&c.accounts, "accounts", "", "Comma-separated account names (default: all)")
}

func (c *incomeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	summary := invanalyzer.SummarizeIncome(transactions, accountFilter(c.accounts, cfg))

	if c.output != "" {
		if err := store.WriteIncomeReport(c.output, summary); err != nil {
			return errorf("Error writing income report: %v", err)
		}
	}

	printMarkdown(renderer.IncomeMarkdown(summary))
	return subcommands.ExitSuccess
}
