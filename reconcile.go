package invanalyzer

import (
	"sort"

	"github.com/kirmatho-gpt/invanalyzer/date"
)

// PositionMismatch reports one symbol whose transaction-derived quantity
// disagrees with the quantity a holdings snapshot declares. Delta is
// holdings minus transactions; a zero delta is never reported.
type PositionMismatch struct {
	Account         string
	On              date.Date
	Symbol          string
	HoldingsQty     Quantity
	TransactionsQty Quantity
	Delta           Quantity
}

// BuildPositions computes quantity-only positions from a transaction
// history up to and including the valuation date. Cost is ignored; records
// with no effective date, no symbol, or an undeterminable direction are
// excluded.
func BuildPositions[T TransactionLike](transactions []T, on date.Date) map[string]Quantity {
	positions := make(map[string]Quantity)
	for _, rec := range transactions {
		effective := rec.On()
		if effective.IsZero() || effective.After(on) {
			continue
		}
		if rec.Security() == "" {
			continue
		}
		signed, ok := SignedQuantity(rec)
		if !ok {
			continue
		}
		positions[rec.Security()] = positions[rec.Security()].Add(signed)
	}
	return positions
}

// Reconcile compares transaction-derived positions against one declared
// holdings snapshot, over the union of symbols appearing on either side; a
// symbol present on only one side is compared against zero on the other.
// The account context comes from the first transaction when there is one,
// else from the snapshot's own location. Mismatches are sorted by symbol.
func Reconcile(transactions []TransactionRecord, snapshot HoldingsSnapshot) []PositionMismatch {
	positions := BuildPositions(transactions, snapshot.On)

	declared := make(map[string]Quantity)
	for _, row := range snapshot.Rows {
		if row.Symbol == "" || !row.Quantity.Valid {
			continue
		}
		declared[row.Symbol] = Q(row.Quantity.Decimal)
	}

	account := snapshot.Account
	if len(transactions) > 0 {
		account = transactions[0].Account
	}

	symbols := make(map[string]struct{}, len(positions)+len(declared))
	for symbol := range positions {
		symbols[symbol] = struct{}{}
	}
	for symbol := range declared {
		symbols[symbol] = struct{}{}
	}

	var mismatches []PositionMismatch
	for symbol := range symbols {
		holdingsQty := declared[symbol]
		transactionsQty := positions[symbol]
		delta := holdingsQty.Sub(transactionsQty)
		if delta.IsZero() {
			continue
		}
		mismatches = append(mismatches, PositionMismatch{
			Account:         account,
			On:              snapshot.On,
			Symbol:          symbol,
			HoldingsQty:     holdingsQty,
			TransactionsQty: transactionsQty,
			Delta:           delta,
		})
	}
	sort.Slice(mismatches, func(i, j int) bool {
		return mismatches[i].Symbol < mismatches[j].Symbol
	})
	return mismatches
}
