package rewind

import (
	"fmt"
	"slices"
	"time"
)

// OperationKind identifies the semantic effect of a ledger operation on
// outstanding principal.
type OperationKind string

// The closed set of operation kinds. Adding a kind is a deliberate change:
// it must come with its entry in the inversion table in reverse.go, because
// a wrong inverse silently corrupts tax-relevant figures.
const (
	KindInvestment        OperationKind = "investment"
	KindPrincipalReceived OperationKind = "principal-received"
	KindRepurchase        OperationKind = "repurchase"
	KindInterest          OperationKind = "interest"
	KindClaim             OperationKind = "claim"
	KindOther             OperationKind = "other"
)

// AffectsPrincipal reports whether operations of this kind change an
// instrument's outstanding principal.
func (k OperationKind) AffectsPrincipal() bool {
	switch k {
	case KindInvestment, KindPrincipalReceived, KindRepurchase:
		return true
	}
	return false
}

// Operation is one normalized, principal-affecting ledger entry.
type Operation struct {
	Instrument string        // ISIN or platform note id
	Kind       OperationKind // one of the principal-affecting kinds
	Amount     Money         // principal magnitude moved forward in time, never negative
	Residual   Money         // repurchase only: principal left on the note after the buy-back
	Prior      *Money        // repurchase only: principal before the buy-back, when the ledger carries it
	Time       time.Time     // when the operation was applied by the platform
	seq        int           // original ledger order, breaks timestamp ties
}

// Seq returns the operation's position in the original ledger. It is the
// tie-breaker between operations sharing a timestamp.
func (o Operation) Seq() int { return o.seq }

// Validate checks the operation's own consistency, independent of any
// portfolio state.
func (o Operation) Validate() error {
	if o.Instrument == "" {
		return fmt.Errorf("operation at %s has no instrument", o.Time.Format(time.RFC3339))
	}
	if !o.Kind.AffectsPrincipal() {
		return fmt.Errorf("operation kind %q does not affect principal", o.Kind)
	}
	if o.Amount.IsNegative() {
		return fmt.Errorf("operation on %s has negative amount %s", o.Instrument, o.Amount)
	}
	if o.Time.IsZero() {
		return fmt.Errorf("operation on %s has no timestamp", o.Instrument)
	}
	if o.Kind == KindRepurchase {
		if o.Residual.IsNegative() {
			return fmt.Errorf("repurchase of %s has negative residual %s", o.Instrument, o.Residual)
		}
		if o.Prior != nil && o.Prior.IsNegative() {
			return fmt.Errorf("repurchase of %s has negative prior principal %s", o.Instrument, *o.Prior)
		}
	}
	return nil
}

// Equal reports whether two operations are the same ledger entry, ignoring
// the stable order assigned at decode time. Zero amounts compare equal
// whatever their currency: the codec stamps the ledger currency onto fields
// that were built with the weak "" one, and zero is zero either way.
func (o Operation) Equal(p Operation) bool {
	if o.Instrument != p.Instrument || o.Kind != p.Kind || !o.Time.Equal(p.Time) {
		return false
	}
	if !moneyEqual(o.Amount, p.Amount) || !moneyEqual(o.Residual, p.Residual) {
		return false
	}
	if (o.Prior == nil) != (p.Prior == nil) {
		return false
	}
	return o.Prior == nil || moneyEqual(*o.Prior, *p.Prior)
}

func moneyEqual(a, b Money) bool {
	if a.IsZero() && b.IsZero() {
		return true
	}
	return a.Equal(b)
}

// sortForward orders operations by ascending timestamp, original ledger
// order breaking ties. This is the order the platform applied them.
func sortForward(ops []Operation) {
	slices.SortStableFunc(ops, func(a, b Operation) int {
		if c := a.Time.Compare(b.Time); c != 0 {
			return c
		}
		return a.seq - b.seq
	})
}

// sortReverse orders operations by descending timestamp; among operations
// sharing a timestamp the last one applied forward comes first.
func sortReverse(ops []Operation) {
	slices.SortStableFunc(ops, func(a, b Operation) int {
		if c := b.Time.Compare(a.Time); c != 0 {
			return c
		}
		return b.seq - a.seq
	})
}
