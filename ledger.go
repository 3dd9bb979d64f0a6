package invanalyzer

// PositionCost is the average-cost state of one security in one account:
// the signed quantity held and the cumulative book cost attributed to it.
// It is updated only by Positions.Apply, by replacement.
type PositionCost struct {
	Quantity Quantity
	BookCost Money
}

// AverageCost returns book cost divided by quantity. It is computed lazily,
// never stored, and is undefined (ok=false) when the quantity is zero.
func (p PositionCost) AverageCost() (Money, bool) {
	if p.Quantity.IsZero() {
		return Money{}, false
	}
	return p.BookCost.Div(p.Quantity), true
}

// Outcome reports how the ledger handled one transaction.
type Outcome int

const (
	// Skipped means the record did not contribute to positions: its
	// direction or symbol was undeterminable, or it was a disposal with no
	// determinable proceeds.
	Skipped Outcome = iota
	// Acquired means quantity and book cost increased.
	Acquired
	// Disposed means quantity and book cost decreased and a realized gain
	// was produced.
	Disposed
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Acquired:
		return "acquired"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Positions is the average-cost ledger of one account, keyed by symbol.
// It has single-owner semantics: one Positions per account-scoped replay
// run, never shared across accounts or concurrent callers.
type Positions map[string]PositionCost

// NewPositions returns an empty ledger.
func NewPositions() Positions { return make(Positions) }

// Clone returns a deep copy, used for valuation-date snapshots.
func (p Positions) Clone() Positions {
	c := make(Positions, len(p))
	for symbol, pos := range p {
		c[symbol] = pos
	}
	return c
}

// Apply folds one transaction into the ledger.
//
// An acquisition adds the signed quantity and the transaction value (zero
// when undeterminable) to the position. A disposal consumes quantity at the
// average cost and returns the realized gain, proceeds minus consumed cost
// basis; a disposal whose proceeds cannot be determined is skipped, since no
// gain can be computed for it. A disposal from a zero-quantity position uses
// a zero average cost rather than dividing by zero, so the full proceeds
// surface as gain. Oversells are not rejected: quantity goes negative.
func (p Positions) Apply(rec TransactionRecord) (realized Money, outcome Outcome) {
	signed, ok := SignedQuantity(rec)
	if !ok || rec.Symbol == "" {
		return Money{}, Skipped
	}
	position := p[rec.Symbol]

	if signed.IsPositive() {
		value, ok := TransactionValue(rec, signed)
		if !ok {
			value = M(0, rec.Currency)
		}
		p[rec.Symbol] = PositionCost{
			Quantity: position.Quantity.Add(signed),
			BookCost: position.BookCost.Add(value),
		}
		return Money{}, Acquired
	}

	proceeds, ok := TransactionValue(rec, signed)
	if !ok {
		return Money{}, Skipped
	}
	sellQty := signed.Neg()
	averageCost, ok := position.AverageCost()
	if !ok {
		averageCost = M(0, rec.Currency)
	}
	costBasis := averageCost.Mul(sellQty)
	p[rec.Symbol] = PositionCost{
		Quantity: position.Quantity.Sub(sellQty),
		BookCost: position.BookCost.Sub(costBasis),
	}
	return proceeds.Sub(costBasis), Disposed
}
