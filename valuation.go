package invanalyzer

import "github.com/shopspring/decimal"

// SignedQuantity classifies a transaction's economic direction: +quantity
// for a buy, -quantity for a sell. Any other description (income, fees,
// unclassified free text) or a missing quantity is undetermined and reports
// ok=false; such records are excluded from position math.
func SignedQuantity(rec TransactionLike) (Quantity, bool) {
	return signedQuantityFromFields(rec.Units(), rec.Kind())
}

func signedQuantityFromFields(quantity decimal.NullDecimal, tag string) (Quantity, bool) {
	if !quantity.Valid {
		return Quantity{}, false
	}
	switch tag {
	case TagBuy:
		return Q(quantity.Decimal), true
	case TagSell:
		return Q(quantity.Decimal.Neg()), true
	}
	return Quantity{}, false
}

// TransactionValue determines the cash value of a transaction for cost-basis
// purposes, in this order of precedence:
//
//  1. unit price and quantity both present: price times quantity,
//  2. disposal with a credit amount: the credit,
//  3. acquisition with a debit amount: the debit.
//
// Otherwise the value is undetermined and ok is false. Callers that must
// proceed (acquisitions with a missing price and debit) treat it as zero,
// which grows the position with no cost contribution.
func TransactionValue(rec TransactionRecord, signed Quantity) (Money, bool) {
	if rec.Price.Valid && rec.Quantity.Valid {
		return M(rec.Price.Decimal.Mul(rec.Quantity.Decimal), rec.Currency), true
	}
	if signed.IsNegative() && rec.Credit.Valid {
		return M(rec.Credit.Decimal, rec.Currency), true
	}
	if signed.IsPositive() && rec.Debit.Valid {
		return M(rec.Debit.Decimal, rec.Currency), true
	}
	return Money{}, false
}
