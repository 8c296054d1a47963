package rewind

import (
	"fmt"
	"sort"
	"time"
)

// PortfolioState is the full set of outstanding principal balances at one
// instant in time.
//
// A state is built once (from a snapshot file or by the reverser) and then
// read; the reverser works on its own private copy, so states handed out are
// never mutated behind the caller's back.
type PortfolioState struct {
	taken     time.Time
	positions map[string]Money
}

// NewPortfolioState returns an empty portfolio state captured at the given
// instant.
func NewPortfolioState(taken time.Time) PortfolioState {
	return PortfolioState{taken: taken, positions: make(map[string]Money)}
}

// Taken returns the instant this state describes.
func (s PortfolioState) Taken() time.Time { return s.taken }

// Set records an instrument's outstanding principal. A negative principal is
// invalid in any snapshot and is rejected here rather than later.
func (s *PortfolioState) Set(instrument string, principal Money) error {
	if instrument == "" {
		return fmt.Errorf("cannot set principal for an empty instrument id")
	}
	if principal.IsNegative() {
		return fmt.Errorf("instrument %s: negative principal %s", instrument, principal)
	}
	if s.positions == nil {
		s.positions = make(map[string]Money)
	}
	s.positions[instrument] = principal
	return nil
}

// Principal returns the outstanding principal of an instrument. Instruments
// not present hold an implicit zero.
func (s PortfolioState) Principal(instrument string) Money {
	return s.positions[instrument]
}

// Has reports whether the instrument is explicitly listed in this state.
func (s PortfolioState) Has(instrument string) bool {
	_, ok := s.positions[instrument]
	return ok
}

// Len returns the number of instruments listed in this state.
func (s PortfolioState) Len() int { return len(s.positions) }

// Instruments returns the listed instrument ids sorted lexicographically,
// which for ISINs groups them by country code.
func (s PortfolioState) Instruments() []string {
	ids := make([]string, 0, len(s.positions))
	for id := range s.positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Total returns the sum of all outstanding principal in the state.
func (s PortfolioState) Total() Money {
	var total Money
	for _, id := range s.Instruments() {
		total = total.Add(s.positions[id])
	}
	return total
}

// Equal reports whether two states list the same outstanding principal.
// Instruments at exactly zero are equivalent to absent ones: a note fully
// unwound by the reverser equals a note never listed. Capture times are not
// compared.
func (s PortfolioState) Equal(o PortfolioState) bool {
	for id, p := range s.positions {
		q := o.Principal(id)
		if p.IsZero() && q.IsZero() {
			continue
		}
		if !p.Equal(q) {
			return false
		}
	}
	for id, p := range o.positions {
		if !s.Has(id) && !p.IsZero() {
			return false
		}
	}
	return true
}

// clone returns a deep copy the reverser can mutate freely.
func (s PortfolioState) clone() PortfolioState {
	c := PortfolioState{taken: s.taken, positions: make(map[string]Money, len(s.positions))}
	for id, p := range s.positions {
		c.positions[id] = p
	}
	return c
}
