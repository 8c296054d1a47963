package rewind

import "time"

// EUR is a helper for tests to create euro money from const.
func EUR(v float64) Money { return M(v, "EUR") }

// epoch is an arbitrary test origin; at(n) is n minutes after it, so test
// scenarios can talk about instants as small numbers.
var epoch = time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)

func at(n int) time.Time { return epoch.Add(time.Duration(n) * time.Minute) }

// state builds a portfolio state from instrument/principal pairs, captured
// at the given instant.
func state(taken time.Time, pairs ...any) PortfolioState {
	s := NewPortfolioState(taken)
	for i := 0; i < len(pairs); i += 2 {
		if err := s.Set(pairs[i].(string), EUR(pairs[i+1].(float64))); err != nil {
			panic(err)
		}
	}
	return s
}
