// =============================================================================
// Sales Analytics - Transaction Amounts
// =============================================================================
//
// Every aggregate is built on the same derived value:
//
//   amount = Quantity * UnitPrice
//
// Both operands are parsed with the numeric normalizer on every call. A
// record whose Quantity or UnitPrice does not parse is skipped by the
// aggregate being computed and by nothing else. Scan exposes that decision
// per record so callers can count what was left out.
//
// =============================================================================

package analytics

import (
	"github.com/ginjaninja78/sales-analytics/internal/numeric"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// Status tells whether a record contributes to aggregates.
type Status int

const (
	// OK means both numbers parsed.
	OK Status = iota
	// Skipped means Quantity or UnitPrice did not parse.
	Skipped
)

// String implements fmt.Stringer.
func (s Status) String() string {
	if s == OK {
		return "ok"
	}
	return "skipped"
}

// Priced is a transaction with its parsed numbers.
type Priced struct {
	Tx     types.Transaction
	Status Status

	Quantity  float64
	UnitPrice float64
	Amount    float64

	// Err is the parse failure for Skipped records.
	Err error
}

// Price parses the numbers of one transaction.
func Price(tx types.Transaction) Priced {
	q, err := numeric.Parse(tx.Quantity)
	if err != nil {
		return Priced{Tx: tx, Status: Skipped, Err: err}
	}
	p, err := numeric.Parse(tx.UnitPrice)
	if err != nil {
		return Priced{Tx: tx, Status: Skipped, Err: err}
	}
	return Priced{Tx: tx, Status: OK, Quantity: q, UnitPrice: p, Amount: q * p}
}

// Scan prices every transaction, in input order.
func Scan(txs []types.Transaction) []Priced {
	out := make([]Priced, len(txs))
	for i, tx := range txs {
		out[i] = Price(tx)
	}
	return out
}

// SkipCount returns how many transactions any aggregate will leave out.
func SkipCount(txs []types.Transaction) int {
	n := 0
	for _, p := range Scan(txs) {
		if p.Status == Skipped {
			n++
		}
	}
	return n
}

// priced yields only the records that contribute to aggregates.
func priced(txs []types.Transaction) []Priced {
	out := make([]Priced, 0, len(txs))
	for _, tx := range txs {
		if p := Price(tx); p.Status == OK {
			out = append(out, p)
		}
	}
	return out
}
