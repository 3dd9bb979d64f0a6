package invanalyzer

import (
	"sort"

	"github.com/kirmatho-gpt/invanalyzer/date"
)

// Replay reconstructs one account's per-symbol position state at each
// requested valuation date by folding the transaction history, from empty,
// in effective-date order.
//
// It is a single linear merge pass: transactions and valuation dates are
// each sorted once, one running ledger and one cursor walk both sequences,
// and every transaction is applied exactly once across the whole date set.
// The snapshot returned for a date D is always the state obtained by
// replaying every transaction effective on or before D, independent of which
// other dates are requested alongside it.
//
// The second return value counts the records that did not contribute: those
// with no determinable effective date, and those the ledger skipped as
// undeterminable. It is reporting-layer observability, not an error.
//
// The internal cursor-and-ledger pair is a single-writer state machine; use
// one Replay call per (account, date set), never concurrently over shared
// inputs being mutated.
func Replay(transactions []TransactionRecord, dates []date.Date) (map[date.Date]Positions, int) {
	var skipped int

	dated := make([]TransactionRecord, 0, len(transactions))
	for _, rec := range transactions {
		if rec.On().IsZero() {
			skipped++
			continue
		}
		dated = append(dated, rec)
	}
	// Ties in effective date keep source order: within-day ordering is not
	// guaranteed by broker exports, so a stable sort is all we promise.
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].On().Before(dated[j].On())
	})

	sortedDates := uniqueSorted(dates)

	positions := NewPositions()
	snapshots := make(map[date.Date]Positions, len(sortedDates))
	index := 0
	for _, on := range sortedDates {
		for index < len(dated) && !dated[index].On().After(on) {
			if _, outcome := positions.Apply(dated[index]); outcome == Skipped {
				skipped++
			}
			index++
		}
		snapshots[on] = positions.Clone()
	}
	return snapshots, skipped
}

// uniqueSorted returns the distinct dates in ascending order.
func uniqueSorted(dates []date.Date) []date.Date {
	seen := make(map[date.Date]struct{}, len(dates))
	out := make([]date.Date, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
