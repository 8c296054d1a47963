package rewind

import (
	"fmt"
	"slices"
	"time"
)

// OutOfRangeError reports an operation whose timestamp falls outside the
// (cutoff, snapshot] window the reconstruction was asked to cover. It is
// caller misuse: the operation window and the snapshot do not pair up.
type OutOfRangeError struct {
	Instrument string
	Time       time.Time
	Cutoff     time.Time
	Taken      time.Time
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("operation on %s at %s is outside the window (%s, %s]",
		e.Instrument,
		e.Time.Format(time.RFC3339),
		e.Cutoff.Format(time.RFC3339),
		e.Taken.Format(time.RFC3339))
}

// IrreversibleError reports a repurchase that cannot be inverted because the
// ledger does not carry the principal the note had before the buy-back. The
// forward operation discarded that value; it is genuinely unrecoverable from
// data after the repurchase.
type IrreversibleError struct {
	Instrument string
	Time       time.Time
}

func (e *IrreversibleError) Error() string {
	return fmt.Sprintf("repurchase of %s at %s carries no prior principal and cannot be reversed",
		e.Instrument, e.Time.Format(time.RFC3339))
}

// NegativePrincipalError reports a principal balance that went below zero
// while unwinding operations. The operation log is inconsistent with the
// snapshot it was paired with: operations are missing, the snapshot date is
// wrong, or a row was misclassified.
type NegativePrincipalError struct {
	Instrument string
	Principal  Money     // the computed, invalid balance
	Time       time.Time // the operation whose inverse produced it
}

func (e *NegativePrincipalError) Error() string {
	return fmt.Sprintf("instrument %s reaches negative principal %s while reversing the operation at %s",
		e.Instrument, e.Principal, e.Time.Format(time.RFC3339))
}

// Reconstruct computes the portfolio as it existed at the cutoff instant,
// given a later known snapshot and the operations that happened strictly
// after the cutoff, up to and including the snapshot instant.
//
// Operations are unwound latest first, each one replaced by its inverse:
// investments are subtracted back out, received principal is added back, and
// a repurchase reinstates the principal the note had before the buy-back.
// Operations on instruments absent from the seed introduce them at an
// implicit zero. The input slice may be in any order; the descending
// timestamp order is enforced here, with ties unwound in reverse of their
// original ledger order.
//
// Reconstruction is all or nothing. Any irreversible repurchase, any balance
// dipping below zero, or any operation outside the window aborts the run:
// a partially correct portfolio is worse than none for a tax declaration.
func Reconstruct(seed PortfolioState, ops []Operation, cutoff time.Time) (PortfolioState, error) {
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			return PortfolioState{}, err
		}
		if !op.Time.After(cutoff) || op.Time.After(seed.Taken()) {
			return PortfolioState{}, &OutOfRangeError{
				Instrument: op.Instrument,
				Time:       op.Time,
				Cutoff:     cutoff,
				Taken:      seed.Taken(),
			}
		}
	}

	sorted := slices.Clone(ops)
	sortReverse(sorted)

	work := seed.clone()
	work.taken = cutoff
	for _, op := range sorted {
		p := work.Principal(op.Instrument)
		switch op.Kind {
		case KindInvestment:
			p = p.Sub(op.Amount)
		case KindPrincipalReceived:
			p = p.Add(op.Amount)
		case KindRepurchase:
			if op.Prior == nil {
				return PortfolioState{}, &IrreversibleError{Instrument: op.Instrument, Time: op.Time}
			}
			p = *op.Prior
		}
		if p.IsNegative() {
			return PortfolioState{}, &NegativePrincipalError{Instrument: op.Instrument, Principal: p, Time: op.Time}
		}
		work.positions[op.Instrument] = p
	}
	return work, nil
}

// Apply is the forward counterpart of Reconstruct: it replays operations on
// a portfolio state in ascending timestamp order, as the platform originally
// applied them. Replaying the operations onto a reconstructed state must
// reproduce the snapshot the reconstruction started from.
func Apply(state PortfolioState, ops []Operation) (PortfolioState, error) {
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			return PortfolioState{}, err
		}
	}

	sorted := slices.Clone(ops)
	sortForward(sorted)

	work := state.clone()
	for _, op := range sorted {
		p := work.Principal(op.Instrument)
		switch op.Kind {
		case KindInvestment:
			p = p.Add(op.Amount)
		case KindPrincipalReceived:
			p = p.Sub(op.Amount)
		case KindRepurchase:
			p = op.Residual
		}
		if p.IsNegative() {
			return PortfolioState{}, &NegativePrincipalError{Instrument: op.Instrument, Principal: p, Time: op.Time}
		}
		work.positions[op.Instrument] = p
		if op.Time.After(work.taken) {
			work.taken = op.Time
		}
	}
	return work, nil
}
