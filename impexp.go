package rewind

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// SnapshotPaths selects the instrument and principal fields inside a
// platform's JSON "current investments" export. Platforms nest and rename
// these freely, so the paths are user-overridable rather than hardcoded per
// platform.
type SnapshotPaths struct {
	Items      string // path to the list of investment entries
	Instrument string // path of the instrument id within one entry
	Principal  string // path of the outstanding principal within one entry
}

// DefaultSnapshotPaths matches the common shape of a current-investments
// export: a top level list of entries with isin and outstanding principal
// fields.
func DefaultSnapshotPaths() SnapshotPaths {
	return SnapshotPaths{
		Items:      "$.data.investments[*]",
		Instrument: "$.isin",
		Principal:  "$.outstanding_principal",
	}
}

// ImportSnapshotJSON extracts a portfolio state from a platform JSON export,
// stamped with the given capture instant. The export itself rarely says when
// it was downloaded, so the instant is the caller's to supply.
func ImportSnapshotJSON(r io.Reader, taken time.Time, paths SnapshotPaths) (PortfolioState, error) {
	if taken.IsZero() {
		return PortfolioState{}, fmt.Errorf("a snapshot import needs its capture time")
	}

	dec := json.NewDecoder(r)
	dec.UseNumber() // principal must survive as an exact decimal, not a float
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return PortfolioState{}, fmt.Errorf("could not decode snapshot JSON: %w", err)
	}

	jitems, err := jsonpath.Get(paths.Items, doc)
	if err != nil {
		return PortfolioState{}, fmt.Errorf("error evaluating items path %q: %w", paths.Items, err)
	}
	items, ok := jitems.([]any)
	if !ok {
		// a single entry document is still a valid, if small, portfolio
		items = []any{jitems}
	}

	state := NewPortfolioState(taken)
	for i, item := range items {
		jid, err := jsonpath.Get(paths.Instrument, item)
		if err != nil {
			return PortfolioState{}, fmt.Errorf("entry %d: error evaluating instrument path %q: %w", i, paths.Instrument, err)
		}
		id, ok := firstScalar(jid).(string)
		if !ok || id == "" {
			return PortfolioState{}, fmt.Errorf("entry %d: instrument path %q yields %v, not an id", i, paths.Instrument, jid)
		}

		jval, err := jsonpath.Get(paths.Principal, item)
		if err != nil {
			return PortfolioState{}, fmt.Errorf("entry %d (%s): error evaluating principal path %q: %w", i, id, paths.Principal, err)
		}
		principal, err := scalarDecimal(firstScalar(jval))
		if err != nil {
			return PortfolioState{}, fmt.Errorf("entry %d (%s): %w", i, id, err)
		}
		if err := state.Set(id, M(principal, DefaultCurrency)); err != nil {
			return PortfolioState{}, err
		}
	}
	return state, nil
}

// firstScalar unwraps single-element lists: jsonpath is never clear about
// whether it returns a list of one answer or the answer itself.
func firstScalar(v any) any {
	if list, ok := v.([]any); ok && len(list) > 0 {
		return list[0]
	}
	return v
}

func scalarDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		return decimal.NewFromString(n)
	case float64:
		return decimal.NewFromFloat(n), nil
	}
	return decimal.Decimal{}, fmt.Errorf("value %v is not a number", v)
}
