package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/kirmatho-gpt/invanalyzer"
	"github.com/kirmatho-gpt/invanalyzer/date"
	"github.com/kirmatho-gpt/invanalyzer/hsbc"
	"github.com/kirmatho-gpt/invanalyzer/ii"
	"github.com/kirmatho-gpt/invanalyzer/store"
)

// normalizeCmd holds the flags for the 'normalize' subcommand.
type normalizeCmd struct {
	input  string
	output string
}

func (*normalizeCmd) Name() string     { return "normalize" }
func (*normalizeCmd) Synopsis() string { return "normalize raw broker exports into per-account CSV" }
func (*normalizeCmd) Usage() string {
	return `iv normalize -input <raw-dir> -output <normalized-dir> [-config <file>]

  Parses raw broker transaction and holdings exports, dedupes records by
  content fingerprint, and writes the normalized per-account CSV tree.
`
}

func (c *normalizeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "input", "", "Directory containing raw broker export files")
	f.StringVar(&c.output, "output", "", "Directory to write the normalized tree to")
}

func (c *normalizeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.input == "" || c.output == "" {
		fmt.Fprintln(os.Stderr, "-input and -output are required")
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		return errorf("Error loading config: %v", err)
	}

	transactions, err := c.normalizeTransactions(cfg.Broker)
	if err != nil {
		return errorf("Error normalizing transactions: %v", err)
	}
	holdings, err := c.normalizeHoldings(cfg.Broker)
	if err != nil {
		return errorf("Error normalizing holdings: %v", err)
	}

	if err := store.WriteTransactionTree(c.output, transactions); err != nil {
		return errorf("Error writing transaction tree: %v", err)
	}
	if err := store.WriteHoldingsTree(c.output, holdings); err != nil {
		return errorf("Error writing holdings tree: %v", err)
	}

	fmt.Printf("Normalized %d transaction(s) and %d holdings line(s) into %s\n",
		len(transactions), len(holdings), c.output)
	return subcommands.ExitSuccess
}

func (c *normalizeCmd) normalizeTransactions(brokerFor func(string) string) ([]invanalyzer.TransactionRecord, error) {
	files, err := store.FindTransactionFiles(c.input)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var records []invanalyzer.TransactionRecord
	for _, path := range files {
		account, err := store.TransactionAccount(path)
		if err != nil {
			return nil, err
		}
		parsed, err := parseTransactionFile(path, account, brokerFor(account))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, rec := range parsed {
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
			records = append(records, rec)
		}
	}
	return records, nil
}

func (c *normalizeCmd) normalizeHoldings(brokerFor func(string) string) ([]invanalyzer.HoldingRecord, error) {
	files, err := store.FindHoldingFiles(c.input)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var records []invanalyzer.HoldingRecord
	for _, path := range files {
		account, on, err := store.HoldingsMeta(path)
		if err != nil {
			return nil, err
		}
		parsed, err := parseHoldingsFile(path, account, on, brokerFor(account))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, rec := range parsed {
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
			records = append(records, rec)
		}
	}
	return records, nil
}

func parseTransactionFile(path, account, broker string) ([]invanalyzer.TransactionRecord, error) {
	return withFile(path, func(r io.Reader) ([]invanalyzer.TransactionRecord, error) {
		switch broker {
		case ii.Broker:
			return ii.Transactions(r, account, filepath.Base(path))
		case hsbc.Broker:
			return hsbc.Transactions(r, account, filepath.Base(path))
		}
		return nil, fmt.Errorf("unsupported broker %q", broker)
	})
}

func parseHoldingsFile(path, account string, on date.Date, broker string) ([]invanalyzer.HoldingRecord, error) {
	return withFile(path, func(r io.Reader) ([]invanalyzer.HoldingRecord, error) {
		switch broker {
		case ii.Broker:
			return ii.Holdings(r, account, on, filepath.Base(path))
		}
		// Holdings snapshots only come from ii exports today.
		return nil, fmt.Errorf("unsupported holdings broker %q", broker)
	})
}

func withFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}
