package store

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/kirmatho-gpt/invanalyzer"
	"github.com/kirmatho-gpt/invanalyzer/date"
)

// TransactionsFile is the per-account normalized transaction filename.
const TransactionsFile = "transactions_normalized.csv"

// Raw broker exports carry the valuation date in the filename, in one of a
// few regional shapes.
var datePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`\d{4}-\d{2}-\d{2}`), "2006-01-02"},
	{regexp.MustCompile(`\d{8}`), "20060102"},
	{regexp.MustCompile(`\d{2}-\d{2}-\d{4}`), "02-01-2006"},
}

// TransactionAccount extracts the account name from a raw transaction
// filename of the form transactions_<account>_<suffix>.csv. Account names
// may themselves contain underscores.
func TransactionAccount(filename string) (string, error) {
	stem := stem(filename)
	parts := strings.Split(stem, "_")
	if len(parts) < 3 || parts[0] != "transactions" {
		return "", fmt.Errorf("unexpected transaction filename %q", filename)
	}
	return strings.Join(parts[1:len(parts)-1], "_"), nil
}

// HoldingsMeta extracts the account name and valuation date from a raw
// holdings filename of the form holdings_<account>_<date>.csv, where the
// date token may appear anywhere in the stem.
func HoldingsMeta(filename string) (string, date.Date, error) {
	s := stem(filename)
	if !strings.HasPrefix(s, "holdings_") {
		return "", date.Date{}, fmt.Errorf("unexpected holdings filename %q", filename)
	}
	on, token, err := dateFromStem(s)
	if err != nil {
		return "", date.Date{}, fmt.Errorf("%q: %w", filename, err)
	}
	account := strings.Trim(strings.Replace(strings.TrimPrefix(s, "holdings_"), token, "", 1), "_")
	if account == "" {
		return "", date.Date{}, fmt.Errorf("no account name in holdings filename %q", filename)
	}
	return account, on, nil
}

func dateFromStem(s string) (date.Date, string, error) {
	for _, pattern := range datePatterns {
		token := pattern.re.FindString(s)
		if token == "" {
			continue
		}
		t, err := time.Parse(pattern.layout, token)
		if err != nil {
			continue
		}
		return date.FromTime(t), token, nil
	}
	return date.Date{}, "", fmt.Errorf("no valuation date in filename stem %q", s)
}

// valuationDateFromStem recovers a fallback valuation date from a normalized
// holdings filename, holdings_<date>_normalized.csv.
func valuationDateFromStem(filename string) date.Date {
	for _, token := range strings.Split(stem(filename), "_") {
		if on, err := date.Parse(token); err == nil {
			return on
		}
	}
	return date.Date{}
}

func stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FindTransactionFiles lists raw transaction exports under root, sorted.
func FindTransactionFiles(root string) ([]string, error) {
	return findFiles(root, "transactions_*_*")
}

// FindHoldingFiles lists raw holdings exports under root, sorted.
func FindHoldingFiles(root string) ([]string, error) {
	return findFiles(root, "holdings_*_*")
}

func findFiles(root, prefix string) ([]string, error) {
	var files []string
	for _, ext := range []string{".csv", ".txt"} {
		matches, err := filepath.Glob(filepath.Join(root, prefix+ext))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// HoldingsFileName is the normalized holdings filename for a valuation date.
func HoldingsFileName(on date.Date) string {
	return fmt.Sprintf("holdings_%s_normalized.csv", on)
}

// GainsFileName is the per-account unrealized gains report filename for a
// valuation date.
func GainsFileName(on date.Date) string {
	return fmt.Sprintf("unrealized_gains_%s.csv", on)
}

// Snapshots groups holdings records into per-account, per-date snapshots,
// sorted by account then valuation date.
func Snapshots(records []invanalyzer.HoldingRecord) []invanalyzer.HoldingsSnapshot {
	type key struct {
		account string
		on      date.Date
	}
	grouped := make(map[key][]invanalyzer.HoldingRecord)
	for _, h := range records {
		if h.On.IsZero() {
			continue
		}
		k := key{h.Account, h.On}
		grouped[k] = append(grouped[k], h)
	}
	snapshots := make([]invanalyzer.HoldingsSnapshot, 0, len(grouped))
	for k, rows := range grouped {
		snapshots = append(snapshots, invanalyzer.HoldingsSnapshot{
			Account: k.account,
			On:      k.on,
			Rows:    rows,
		})
	}
	sort.Slice(snapshots, func(i, j int) bool {
		a, b := snapshots[i], snapshots[j]
		if a.Account != b.Account {
			return a.Account < b.Account
		}
		return a.On.Before(b.On)
	})
	return snapshots
}
