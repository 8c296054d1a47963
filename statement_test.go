package rewind

import (
	"strings"
	"testing"
	"time"
)

func TestReadStatement(t *testing.T) {
	input := `time,label,details,amount,prior
2024-01-02 10:15:00,Investment,Loan LV0000801322 part,-25.00,
2024-01-03 16:40:00,Principal received,Loan LV0000801322 repayment,5.00,
2024-01-03 17:00:00,Loan repurchase,Loan LV0000802451 buy-back,150.75,150.75
`
	recs, err := ReadStatement(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadStatement() returned unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("ReadStatement() read %d rows, want 3", len(recs))
	}

	first := recs[0]
	if first.Label != "Investment" {
		t.Errorf("label = %q, want %q", first.Label, "Investment")
	}
	if !first.Amount.Equal(EUR(-25)) {
		t.Errorf("amount = %v, want %v", first.Amount, EUR(-25))
	}
	want := time.Date(2024, time.January, 2, 10, 15, 0, 0, time.UTC)
	if !first.Time.Equal(want) {
		t.Errorf("time = %v, want %v", first.Time, want)
	}
	if first.Prior != nil {
		t.Errorf("prior = %v, want nil", first.Prior)
	}

	last := recs[2]
	if last.Prior == nil || !last.Prior.Equal(EUR(150.75)) {
		t.Errorf("prior = %v, want %v", last.Prior, EUR(150.75))
	}
}

func TestReadStatement_FeedsClassifier(t *testing.T) {
	input := `time,label,details,amount
2024-01-02T10:15:00Z,Investment,Loan LV0000801322 part,-25.00
2024-01-02T11:00:00Z,Interest received,Loan LV0000801322,0.42
`
	recs, err := ReadStatement(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadStatement() returned unexpected error: %v", err)
	}
	ops, skipped := ClassifyAll(recs)
	if len(ops) != 1 || skipped.Total != 1 {
		t.Errorf("classification kept %d, skipped %d; want 1 and 1", len(ops), skipped.Total)
	}
	if ops[0].Instrument != "LV0000801322" {
		t.Errorf("instrument = %q, want LV0000801322", ops[0].Instrument)
	}
}

func TestReadStatement_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{
			name:  "missing required column",
			input: "time,label,amount\n2024-01-02 10:15:00,Investment,-25.00\n",
		},
		{
			name:  "invalid time",
			input: "time,label,details,amount\nyesterday,Investment,LV0000801322,-25.00\n",
		},
		{
			name:  "invalid amount",
			input: "time,label,details,amount\n2024-01-02 10:15:00,Investment,LV0000801322,twenty\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadStatement(strings.NewReader(tc.input)); err == nil {
				t.Error("ReadStatement() accepted an invalid statement")
			}
		})
	}
}
