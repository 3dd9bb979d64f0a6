package invanalyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kirmatho-gpt/invanalyzer/date"
)

// Fingerprint returns the stable identity of a normalized transaction: the
// sha256 of its content fields. Ingestion assigns it as the record ID and
// the normalize pipeline dedupes on it, so re-importing an overlapping
// export is idempotent.
func Fingerprint(t TransactionRecord) string {
	raw := strings.Join([]string{
		t.Account,
		t.Broker,
		dateField(t.TradeDate),
		dateField(t.SettlementDate),
		t.Symbol,
		t.Sedol,
		decimalField(t.Quantity),
		decimalField(t.Price),
		t.Description,
		t.Reference,
		decimalField(t.Debit),
		decimalField(t.Credit),
		decimalField(t.RunningBalance),
		t.Currency,
	}, "|")
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// HoldingFingerprint returns the stable identity of a normalized holdings
// line, used the same way as Fingerprint.
func HoldingFingerprint(h HoldingRecord) string {
	raw := strings.Join([]string{
		h.Account,
		h.Broker,
		dateField(h.On),
		h.Symbol,
		h.Name,
		decimalField(h.Quantity),
		decimalField(h.Price),
		decimalField(h.AveragePrice),
		decimalField(h.MarketValue),
		decimalField(h.BookCost),
		decimalField(h.GainLoss),
		decimalField(h.GainLossPct),
		h.Currency,
	}, "|")
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func dateField(d date.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func decimalField(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
