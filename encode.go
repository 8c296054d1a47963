package rewind

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Operations and snapshots are persisted as JSONL: one JSON object per line,
// human-readable and append- and diff-friendly. These are the tool's own
// normalized formats; broker exports never reach this codec.

// opLine is the JSON shape of one operation line.
type opLine struct {
	Kind       OperationKind    `json:"kind"`
	Time       time.Time        `json:"time"`
	Instrument string           `json:"instrument"`
	Amount     decimal.Decimal  `json:"amount"`
	Currency   string           `json:"currency"`
	Residual   *decimal.Decimal `json:"residual,omitempty"`
	Prior      *decimal.Decimal `json:"prior,omitempty"`
}

// EncodeOperation writes a single operation as one JSONL line.
func EncodeOperation(w io.Writer, op Operation) error {
	var jw jsonObjectWriter
	jw.Append("kind", op.Kind)
	jw.Append("time", op.Time.Format(time.RFC3339))
	jw.Append("instrument", op.Instrument)
	jw.Append("amount", op.Amount.amount())
	jw.Optional("currency", op.Amount.Currency())
	if op.Kind == KindRepurchase {
		jw.Append("residual", op.Residual.amount())
		if op.Prior != nil {
			jw.Append("prior", op.Prior.amount())
		}
	}
	data, err := jw.MarshalJSON()
	if err != nil {
		return fmt.Errorf("could not encode operation on %s: %w", op.Instrument, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

// EncodeOperations writes operations as JSONL in forward chronological
// order, the canonical layout of an operations ledger file.
func EncodeOperations(w io.Writer, ops []Operation) error {
	sorted := make([]Operation, len(ops))
	copy(sorted, ops)
	sortForward(sorted)
	for _, op := range sorted {
		if err := EncodeOperation(w, op); err != nil {
			return err
		}
	}
	return nil
}

// DecodeOperations reads a JSONL operations ledger. Line order is preserved
// as the stable tie-break order between operations sharing a timestamp.
func DecodeOperations(r io.Reader) ([]Operation, error) {
	var ops []Operation
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var l opLine
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, fmt.Errorf("line %d: could not decode operation: %w", line, err)
		}
		op := Operation{
			Instrument: l.Instrument,
			Kind:       l.Kind,
			Amount:     M(l.Amount, l.Currency),
			Time:       l.Time,
			seq:        len(ops),
		}
		if l.Residual != nil {
			op.Residual = M(*l.Residual, l.Currency)
		}
		if l.Prior != nil {
			prior := M(*l.Prior, l.Currency)
			op.Prior = &prior
		}
		if err := op.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ops, nil
}

// snapshot files start with a header line carrying the capture instant,
// followed by one line per instrument.

type snapshotHeader struct {
	Taken time.Time `json:"taken"`
}

type snapshotLine struct {
	Instrument string          `json:"instrument"`
	Principal  decimal.Decimal `json:"principal"`
	Currency   string          `json:"currency,omitempty"`
}

// EncodeSnapshot writes a portfolio state as a JSONL snapshot file,
// instruments sorted for a stable layout.
func EncodeSnapshot(w io.Writer, s PortfolioState) error {
	var hw jsonObjectWriter
	hw.Append("taken", s.Taken().Format(time.RFC3339))
	header, err := hw.MarshalJSON()
	if err != nil {
		return err
	}
	if _, err := w.Write(append(header, '\n')); err != nil {
		return err
	}
	for _, id := range s.Instruments() {
		p := s.Principal(id)
		var jw jsonObjectWriter
		jw.Append("instrument", id)
		jw.Append("principal", p.amount())
		jw.Optional("currency", p.Currency())
		data, err := jw.MarshalJSON()
		if err != nil {
			return fmt.Errorf("could not encode snapshot entry %s: %w", id, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// DecodeSnapshot reads a JSONL snapshot file back into a portfolio state.
func DecodeSnapshot(r io.Reader) (PortfolioState, error) {
	scanner := bufio.NewScanner(r)

	var header snapshotHeader
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, &header); err != nil {
			return PortfolioState{}, fmt.Errorf("could not decode snapshot header: %w", err)
		}
		break
	}
	if header.Taken.IsZero() {
		return PortfolioState{}, fmt.Errorf("snapshot has no capture time: a snapshot is only usable if its instant is known")
	}

	state := NewPortfolioState(header.Taken)
	line := 1
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var l snapshotLine
		if err := json.Unmarshal(raw, &l); err != nil {
			return PortfolioState{}, fmt.Errorf("line %d: could not decode snapshot entry: %w", line, err)
		}
		if err := state.Set(l.Instrument, M(l.Principal, l.Currency)); err != nil {
			return PortfolioState{}, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return PortfolioState{}, err
	}
	return state, nil
}
