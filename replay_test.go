package invanalyzer

import (
	"testing"

	"github.com/kirmatho-gpt/invanalyzer/date"
)

func TestReplay_SnapshotIndependence(t *testing.T) {
	history := []TransactionRecord{
		buy("2024-01-02", "VOD", 10, 5),
		buy("2024-02-01", "VOD", 5, 8),
		sell("2024-03-01", "VOD", 5, 9),
	}
	d1, d2 := on("2024-01-31"), on("2024-03-31")

	together, _ := Replay(history, []date.Date{d1, d2})
	alone, _ := Replay(history, []date.Date{d1})

	// Requesting D1 alongside D2 must produce the same D1 state as D1 alone.
	want := alone[d1]["VOD"]
	got := together[d1]["VOD"]
	if !got.Quantity.Equal(want.Quantity) || !got.BookCost.Equal(want.BookCost) {
		t.Errorf("snapshot at D1 = %+v, want %+v", got, want)
	}
	if !got.Quantity.Equal(Q(10)) || !got.BookCost.Equal(GBP(50)) {
		t.Errorf("snapshot at D1 = %+v, want qty 10 cost £50", got)
	}

	final := together[d2]["VOD"]
	if !final.Quantity.Equal(Q(10)) || !final.BookCost.Equal(GBP(60)) {
		t.Errorf("snapshot at D2 = %+v, want qty 10 cost £60", final)
	}
}

func TestReplay_SnapshotsAreDeepCopies(t *testing.T) {
	history := []TransactionRecord{
		buy("2024-01-02", "VOD", 10, 5),
		buy("2024-02-01", "VOD", 5, 8),
	}
	snapshots, _ := Replay(history, []date.Date{on("2024-01-15"), on("2024-02-15")})

	first := snapshots[on("2024-01-15")]["VOD"]
	if !first.Quantity.Equal(Q(10)) {
		t.Errorf("first snapshot quantity = %v, want 10: later transactions leaked in", first.Quantity)
	}
	second := snapshots[on("2024-02-15")]["VOD"]
	if !second.Quantity.Equal(Q(15)) {
		t.Errorf("second snapshot quantity = %v, want 15", second.Quantity)
	}
}

func TestReplay_EffectiveDateBoundaryIsInclusive(t *testing.T) {
	history := []TransactionRecord{buy("2024-01-15", "VOD", 10, 5)}
	snapshots, _ := Replay(history, []date.Date{on("2024-01-15")})
	if !snapshots[on("2024-01-15")]["VOD"].Quantity.Equal(Q(10)) {
		t.Error("a transaction effective on the valuation date must be included")
	}
}

func TestReplay_SettlementDateFallback(t *testing.T) {
	rec := buy("2024-01-20", "VOD", 10, 5)
	rec.TradeDate = date.Date{}
	rec.SettlementDate = on("2024-01-20")

	snapshots, _ := Replay([]TransactionRecord{rec}, []date.Date{on("2024-01-31")})
	if !snapshots[on("2024-01-31")]["VOD"].Quantity.Equal(Q(10)) {
		t.Error("settlement date should stand in for a missing trade date")
	}
}

func TestReplay_CountsSkippedRecords(t *testing.T) {
	dateless := buy("2024-01-02", "VOD", 10, 5)
	dateless.TradeDate = date.Date{}
	dateless.SettlementDate = date.Date{}

	dividend := TransactionRecord{
		Account: "ACC", TradeDate: on("2024-01-05"), Symbol: "VOD",
		Quantity: nd(3), Description: TagDividend, Currency: "GBP",
	}

	history := []TransactionRecord{dateless, dividend, buy("2024-01-10", "VOD", 10, 5)}
	snapshots, skipped := Replay(history, []date.Date{on("2024-01-31")})

	if skipped != 2 {
		t.Errorf("skipped = %d, want 2 (one dateless, one income record)", skipped)
	}
	if !snapshots[on("2024-01-31")]["VOD"].Quantity.Equal(Q(10)) {
		t.Errorf("quantity = %v, want 10", snapshots[on("2024-01-31")]["VOD"].Quantity)
	}
}

func TestReplay_UnsortedInputAndDates(t *testing.T) {
	history := []TransactionRecord{
		sell("2024-03-01", "VOD", 5, 9),
		buy("2024-01-02", "VOD", 10, 5),
		buy("2024-02-01", "VOD", 5, 8),
	}
	// Dates out of order, with a duplicate.
	snapshots, _ := Replay(history, []date.Date{on("2024-03-31"), on("2024-01-31"), on("2024-03-31")})

	if len(snapshots) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snapshots))
	}
	if !snapshots[on("2024-01-31")]["VOD"].Quantity.Equal(Q(10)) {
		t.Errorf("early snapshot quantity = %v, want 10", snapshots[on("2024-01-31")]["VOD"].Quantity)
	}
	if !snapshots[on("2024-03-31")]["VOD"].Quantity.Equal(Q(10)) {
		t.Errorf("late snapshot quantity = %v, want 10", snapshots[on("2024-03-31")]["VOD"].Quantity)
	}
}
