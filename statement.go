package rewind

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assumed for statement rows that do not carry their own
// currency column. Peer-to-peer note platforms in scope settle in euro.
const DefaultCurrency = "EUR"

// statement time columns appear in a handful of layouts depending on how the
// export was produced.
var statementTimeFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ReadStatement reads raw statement rows from a normalized CSV stream.
//
// The expected header is "time,label,details,amount", optionally followed by
// "instrument", "prior" and "currency" columns. This is the tool's own
// normalized layout (see the formats help topic); converting a broker's
// export into it is the user's concern, usually a one-line awk or a
// spreadsheet save-as away.
func ReadStatement(r io.Reader) ([]RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // optional trailing columns may be omitted per row

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read statement header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"time", "label", "details", "amount"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("statement header is missing the %q column", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var recs []RawRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		when, err := parseStatementTime(field(row, "time"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		currency := field(row, "currency")
		if currency == "" {
			currency = DefaultCurrency
		}
		amount, err := decimal.NewFromString(field(row, "amount"))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q: %w", line, field(row, "amount"), err)
		}

		rec := RawRecord{
			Time:       when,
			Label:      field(row, "label"),
			Details:    field(row, "details"),
			Amount:     M(amount, currency),
			Instrument: field(row, "instrument"),
		}
		if s := field(row, "prior"); s != "" {
			d, err := decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid prior principal %q: %w", line, s, err)
			}
			prior := M(d, currency)
			rec.Prior = &prior
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func parseStatementTime(s string) (time.Time, error) {
	for _, format := range statementTimeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, want one of %q", s, statementTimeFormats)
}
