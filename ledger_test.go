package invanalyzer

import (
	"testing"
)

func TestApply_AcquisitionAccumulates(t *testing.T) {
	positions := NewPositions()

	if _, outcome := positions.Apply(buy("2024-01-02", "VOD", 10, 5)); outcome != Acquired {
		t.Fatalf("outcome = %v, want %v", outcome, Acquired)
	}
	if _, outcome := positions.Apply(buy("2024-01-03", "VOD", 5, 8)); outcome != Acquired {
		t.Fatalf("outcome = %v, want %v", outcome, Acquired)
	}

	pos := positions["VOD"]
	if !pos.Quantity.Equal(Q(15)) {
		t.Errorf("quantity = %v, want 15", pos.Quantity)
	}
	if !pos.BookCost.Equal(GBP(90)) {
		t.Errorf("book cost = %v, want £90", pos.BookCost)
	}
	avg, ok := pos.AverageCost()
	if !ok || !avg.Equal(GBP(6)) {
		t.Errorf("average cost = %v (ok=%v), want £6", avg, ok)
	}
}

func TestApply_DisposalRealizesGain(t *testing.T) {
	positions := NewPositions()
	positions.Apply(buy("2024-01-02", "VOD", 10, 5))
	positions.Apply(buy("2024-01-03", "VOD", 5, 8))

	gain, outcome := positions.Apply(sell("2024-01-10", "VOD", 5, 9))
	if outcome != Disposed {
		t.Fatalf("outcome = %v, want %v", outcome, Disposed)
	}
	// proceeds 45 minus basis 5*6.
	if !gain.Equal(GBP(15)) {
		t.Errorf("realized gain = %v, want £15", gain)
	}
	pos := positions["VOD"]
	if !pos.Quantity.Equal(Q(10)) {
		t.Errorf("quantity = %v, want 10", pos.Quantity)
	}
	if !pos.BookCost.Equal(GBP(60)) {
		t.Errorf("book cost = %v, want £60", pos.BookCost)
	}
}

func TestApply_OversellGoesNegative(t *testing.T) {
	positions := NewPositions()
	positions.Apply(buy("2024-01-02", "VOD", 10, 6))

	gain, outcome := positions.Apply(sell("2024-01-05", "VOD", 20, 7))
	if outcome != Disposed {
		t.Fatalf("outcome = %v, want %v", outcome, Disposed)
	}
	// proceeds 140 minus basis 20*6.
	if !gain.Equal(GBP(20)) {
		t.Errorf("realized gain = %v, want £20", gain)
	}
	pos := positions["VOD"]
	if !pos.Quantity.Equal(Q(-10)) {
		t.Errorf("quantity = %v, want -10", pos.Quantity)
	}
	if !pos.BookCost.Equal(GBP(-60)) {
		t.Errorf("book cost = %v, want -£60", pos.BookCost)
	}
}

func TestApply_DisposalFromEmptyPositionUsesZeroBasis(t *testing.T) {
	positions := NewPositions()

	gain, outcome := positions.Apply(sell("2024-01-05", "VOD", 5, 9))
	if outcome != Disposed {
		t.Fatalf("outcome = %v, want %v", outcome, Disposed)
	}
	// Full proceeds surface as gain when there is no basis to consume.
	if !gain.Equal(GBP(45)) {
		t.Errorf("realized gain = %v, want £45", gain)
	}
	if !positions["VOD"].Quantity.Equal(Q(-5)) {
		t.Errorf("quantity = %v, want -5", positions["VOD"].Quantity)
	}
}

func TestApply_SkipsUndeterminable(t *testing.T) {
	cases := []struct {
		name string
		rec  TransactionRecord
	}{
		{"missing quantity", TransactionRecord{
			Account: "ACC", TradeDate: on("2024-01-02"), Symbol: "VOD",
			Description: TagBuy, Currency: "GBP",
		}},
		{"income tag", TransactionRecord{
			Account: "ACC", TradeDate: on("2024-01-02"), Symbol: "VOD",
			Quantity: nd(10), Description: TagDividend, Currency: "GBP",
		}},
		{"free text tag", TransactionRecord{
			Account: "ACC", TradeDate: on("2024-01-02"), Symbol: "VOD",
			Quantity: nd(10), Description: "transfer in", Currency: "GBP",
		}},
		{"missing symbol", TransactionRecord{
			Account: "ACC", TradeDate: on("2024-01-02"),
			Quantity: nd(10), Description: TagBuy, Currency: "GBP",
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			positions := NewPositions()
			if _, outcome := positions.Apply(c.rec); outcome != Skipped {
				t.Errorf("outcome = %v, want %v", outcome, Skipped)
			}
			if len(positions) != 0 {
				t.Errorf("positions mutated: %v", positions)
			}
		})
	}
}

func TestApply_DisposalWithoutProceedsIsSkipped(t *testing.T) {
	positions := NewPositions()
	positions.Apply(buy("2024-01-02", "VOD", 10, 6))

	rec := sell("2024-01-05", "VOD", 5, 0)
	rec.Price = none // no price, no credit: proceeds undeterminable
	if _, outcome := positions.Apply(rec); outcome != Skipped {
		t.Fatalf("outcome = %v, want %v", outcome, Skipped)
	}
	if !positions["VOD"].Quantity.Equal(Q(10)) {
		t.Errorf("quantity = %v, want untouched 10", positions["VOD"].Quantity)
	}
}

func TestApply_AcquisitionWithoutValueStillGrowsQuantity(t *testing.T) {
	positions := NewPositions()
	rec := buy("2024-01-02", "VOD", 10, 0)
	rec.Price = none // no price and no debit: zero cost contribution

	if _, outcome := positions.Apply(rec); outcome != Acquired {
		t.Fatalf("outcome = %v, want %v", outcome, Acquired)
	}
	pos := positions["VOD"]
	if !pos.Quantity.Equal(Q(10)) {
		t.Errorf("quantity = %v, want 10", pos.Quantity)
	}
	if !pos.BookCost.IsZero() {
		t.Errorf("book cost = %v, want zero", pos.BookCost)
	}
}

func TestTransactionValue_Precedence(t *testing.T) {
	// Price and quantity win over debit/credit.
	rec := buy("2024-01-02", "VOD", 10, 5)
	rec.Debit = nd(999)
	signed, _ := SignedQuantity(rec)
	if v, ok := TransactionValue(rec, signed); !ok || !v.Equal(GBP(50)) {
		t.Errorf("value = %v (ok=%v), want £50", v, ok)
	}

	// Disposal falls back to credit.
	rec = sell("2024-01-02", "VOD", 10, 0)
	rec.Price = none
	rec.Credit = nd(70)
	signed, _ = SignedQuantity(rec)
	if v, ok := TransactionValue(rec, signed); !ok || !v.Equal(GBP(70)) {
		t.Errorf("value = %v (ok=%v), want £70", v, ok)
	}

	// Acquisition falls back to debit, ignores credit.
	rec = buy("2024-01-02", "VOD", 10, 0)
	rec.Price = none
	rec.Credit = nd(30)
	rec.Debit = nd(65)
	signed, _ = SignedQuantity(rec)
	if v, ok := TransactionValue(rec, signed); !ok || !v.Equal(GBP(65)) {
		t.Errorf("value = %v (ok=%v), want £65", v, ok)
	}

	// Nothing determinable.
	rec = buy("2024-01-02", "VOD", 10, 0)
	rec.Price = none
	signed, _ = SignedQuantity(rec)
	if _, ok := TransactionValue(rec, signed); ok {
		t.Error("value should be undetermined")
	}
}

func TestSignedQuantity(t *testing.T) {
	if q, ok := SignedQuantity(buy("2024-01-02", "VOD", 10, 5)); !ok || !q.Equal(Q(10)) {
		t.Errorf("buy signed quantity = %v (ok=%v), want +10", q, ok)
	}
	if q, ok := SignedQuantity(sell("2024-01-02", "VOD", 10, 5)); !ok || !q.Equal(Q(-10)) {
		t.Errorf("sell signed quantity = %v (ok=%v), want -10", q, ok)
	}
	div := TransactionRecord{TradeDate: on("2024-01-02"), Symbol: "VOD", Quantity: nd(10), Description: TagDividend}
	if _, ok := SignedQuantity(div); ok {
		t.Error("dividend should be undetermined")
	}
}
