package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/kirmatho-gpt/invanalyzer/store"
)

// archiveCmd holds the flags for the 'archive' subcommand.
type archiveCmd struct {
	root string
	db   string
}

func (*archiveCmd) Name() string     { return "archive" }
func (*archiveCmd) Synopsis() string { return "load the normalized tree into the SQLite archive" }
func (*archiveCmd) Usage() string {
	return `iv archive -root <normalized-dir> [-db <file>] [-config <file>]

  Inserts every normalized record into the SQLite archive. Records are keyed
  by their content fingerprint, so archiving is idempotent: re-running after
  new imports only adds the new rows.
`
}

func (c *archiveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.root, "root", "", "Normalized tree to archive")
	f.StringVar(&c.db, "db", "", "Archive database path (default from config, else invanalyzer.db)")
}

func (c *archiveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.root == "" {
		fmt.Fprintln(os.Stderr, "-root is required")
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		return errorf("Error loading config: %v", err)
	}
	path := c.db
	if path == "" {
		path = cfg.Archive
	}
	if path == "" {
		path = "invanalyzer.db"
	}

	transactions, err := store.LoadTransactionTree(c.root)
	if err != nil {
		return errorf("Error loading transactions: %v", err)
	}
	holdings, err := store.LoadHoldingsTree(c.root)
	if err != nil {
		return errorf("Error loading holdings: %v", err)
	}

	archive, err := store.OpenArchive(path)
	if err != nil {
		return errorf("Error opening archive %q: %v", path, err)
	}
	defer archive.Close()

	newTxs, err := archive.SaveTransactions(transactions)
	if err != nil {
		return errorf("Error archiving transactions: %v", err)
	}
	newHoldings, err := archive.SaveHoldings(holdings)
	if err != nil {
		return errorf("Error archiving holdings: %v", err)
	}

	fmt.Printf("Archived %d new transaction(s) and %d new holdings line(s) into %s\n",
		newTxs, newHoldings, path)
	return subcommands.ExitSuccess
}
