package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kirmatho-gpt/invanalyzer"
	"github.com/kirmatho-gpt/invanalyzer/date"
)

// WriteTransactionTree writes normalized transactions under root as
// <root>/<account>/transactions_normalized.csv, one file per account,
// sorted by effective date.
func WriteTransactionTree(root string, records []invanalyzer.TransactionRecord) error {
	byAccount := make(map[string][]invanalyzer.TransactionRecord)
	for _, rec := range records {
		byAccount[rec.Account] = append(byAccount[rec.Account], rec)
	}
	for account, accountRecords := range byAccount {
		sort.SliceStable(accountRecords, func(i, j int) bool {
			return accountRecords[i].On().Before(accountRecords[j].On())
		})
		path := filepath.Join(root, account, TransactionsFile)
		if err := writeFile(path, func(f *os.File) error {
			return WriteTransactions(f, accountRecords)
		}); err != nil {
			return err
		}
	}
	return nil
}

// WriteHoldingsTree writes normalized holdings under root as
// <root>/<account>/holdings_<date>_normalized.csv, one file per account and
// valuation date, sorted by symbol then name.
func WriteHoldingsTree(root string, records []invanalyzer.HoldingRecord) error {
	for _, snapshot := range Snapshots(records) {
		rows := snapshot.Rows
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Symbol != rows[j].Symbol {
				return rows[i].Symbol < rows[j].Symbol
			}
			return rows[i].Name < rows[j].Name
		})
		path := filepath.Join(root, snapshot.Account, HoldingsFileName(snapshot.On))
		if err := writeFile(path, func(f *os.File) error {
			return WriteHoldings(f, rows)
		}); err != nil {
			return err
		}
	}
	return nil
}

// LoadTransactionTree reads every per-account transactions_normalized.csv
// under root, in path order.
func LoadTransactionTree(root string) ([]invanalyzer.TransactionRecord, error) {
	var records []invanalyzer.TransactionRecord
	err := walkTree(root, func(path string) error {
		if filepath.Base(path) != TransactionsFile {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		loaded, err := ReadTransactions(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, loaded...)
		return nil
	})
	return records, err
}

// LoadHoldingsTree reads every normalized holdings file under root, in path
// order. The valuation date in the filename backstops rows without one.
func LoadHoldingsTree(root string) ([]invanalyzer.HoldingRecord, error) {
	var records []invanalyzer.HoldingRecord
	err := walkTree(root, func(path string) error {
		base := filepath.Base(path)
		if !strings.HasPrefix(base, "holdings_") || !strings.HasSuffix(base, "_normalized.csv") {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		loaded, err := ReadHoldings(f, valuationDateFromStem(base))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, loaded...)
		return nil
	})
	return records, err
}

// WriteGainReports writes one unrealized-gains CSV per account and valuation
// date, as <root>/<account>/unrealized_gains_<date>.csv.
func WriteGainReports(root string, rows []invanalyzer.UnrealizedGainRow) error {
	type key struct {
		account string
		on      date.Date
	}
	grouped := make(map[key][]invanalyzer.UnrealizedGainRow)
	for _, row := range rows {
		k := key{row.Account, row.On}
		grouped[k] = append(grouped[k], row)
	}
	for k, groupRows := range grouped {
		path := filepath.Join(root, k.account, GainsFileName(k.on))
		if err := writeFile(path, func(f *os.File) error {
			return WriteGains(f, groupRows)
		}); err != nil {
			return err
		}
	}
	return nil
}

// WriteCombinedGainReport writes a single cross-account gains CSV. With
// latestOnly set, only each account's most recent valuation date is kept.
func WriteCombinedGainReport(path string, rows []invanalyzer.UnrealizedGainRow, latestOnly bool) error {
	if latestOnly {
		rows = invanalyzer.LatestRows(rows)
	}
	if len(rows) == 0 {
		return nil
	}
	return writeFile(path, func(f *os.File) error {
		return WriteGains(f, rows)
	})
}

// WriteIncomeReport writes the monthly income summary CSV.
func WriteIncomeReport(path string, rows []invanalyzer.IncomeSummary) error {
	if len(rows) == 0 {
		return nil
	}
	return writeFile(path, func(f *os.File) error {
		return WriteIncome(f, rows)
	})
}

func writeFile(path string, write func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func walkTree(root string, visit func(path string) error) error {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(paths)
	for _, path := range paths {
		if err := visit(path); err != nil {
			return err
		}
	}
	return nil
}
