package invanalyzer

import "github.com/shopspring/decimal"

// Percent is a ratio (0.25 means 25%). It is decimal-backed so report
// percentages survive the 4-decimal output rounding exactly.
type Percent struct {
	value decimal.Decimal
}

func P[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Percent {
	return Percent{value: newDecimal(value)}
}

func (p Percent) Equal(q Percent) bool { return p.value.Equal(q.value) }
func (p Percent) IsZero() bool         { return p.value.IsZero() }

// Ratio returns the raw ratio, the form persisted in CSV reports.
func (p Percent) Ratio() decimal.Decimal { return p.value }

// Rounded returns the ratio rounded to 4 decimal places, the report output
// precision.
func (p Percent) Rounded() Percent {
	return Percent{value: p.value.Round(4)}
}

// String renders the ratio as a human percentage, e.g. "25.00%".
func (p Percent) String() string {
	return p.value.Shift(2).StringFixed(2) + "%"
}
