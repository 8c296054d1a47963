package rewind

import (
	"testing"
)

func TestClassify(t *testing.T) {
	when := at(10)

	testCases := []struct {
		name     string
		rec      RawRecord
		wantKind OperationKind
		wantID   string
		wantAmt  Money
	}{
		{
			name:     "investment",
			rec:      RawRecord{Time: when, Label: "Investment", Details: "Loan LV0000801322 part", Amount: EUR(-25)},
			wantKind: KindInvestment,
			wantID:   "LV0000801322",
			wantAmt:  EUR(25),
		},
		{
			name:     "principal received",
			rec:      RawRecord{Time: when, Label: "Principal received", Details: "Loan LV0000801322 repayment", Amount: EUR(5)},
			wantKind: KindPrincipalReceived,
			wantID:   "LV0000801322",
			wantAmt:  EUR(5),
		},
		{
			name:     "spanish principal received",
			rec:      RawRecord{Time: when, Label: "Capital recibido", Details: "Préstamo LV0000801322", Amount: EUR(5)},
			wantKind: KindPrincipalReceived,
			wantID:   "LV0000801322",
			wantAmt:  EUR(5),
		},
		{
			name:     "repurchase cash leg is a principal receipt",
			rec:      RawRecord{Time: when, Label: "Principal received from loan repurchase", Details: "LV0000802451", Amount: EUR(150.75)},
			wantKind: KindPrincipalReceived,
			wantID:   "LV0000802451",
			wantAmt:  EUR(150.75),
		},
		{
			name:     "spanish small loan parts repurchase receipt",
			rec:      RawRecord{Time: when, Label: "Principal recibido por la recompra de partes pequeñas de préstamos", Details: "LV0000802451", Amount: EUR(0.07)},
			wantKind: KindPrincipalReceived,
			wantID:   "LV0000802451",
			wantAmt:  EUR(0.07),
		},
		{
			name:     "secondary market buy is an investment",
			rec:      RawRecord{Time: when, Label: "Secondary market transaction", Details: "LV0000801322", Amount: EUR(-40)},
			wantKind: KindInvestment,
			wantID:   "LV0000801322",
			wantAmt:  EUR(40),
		},
		{
			name:     "secondary market sale returns principal",
			rec:      RawRecord{Time: when, Label: "Operación del Mercado Secundario", Details: "LV0000801322", Amount: EUR(40)},
			wantKind: KindPrincipalReceived,
			wantID:   "LV0000801322",
			wantAmt:  EUR(40),
		},
		{
			name:     "explicit instrument column wins over details",
			rec:      RawRecord{Time: when, Label: "Investment", Details: "Loan LV0000801322", Amount: EUR(-10), Instrument: "LV0000802451"},
			wantKind: KindInvestment,
			wantID:   "LV0000802451",
			wantAmt:  EUR(10),
		},
		{
			name:     "label whitespace is ignored",
			rec:      RawRecord{Time: when, Label: "  Investment ", Details: "LV0000801322", Amount: EUR(-10)},
			wantKind: KindInvestment,
			wantID:   "LV0000801322",
			wantAmt:  EUR(10),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			op, excl := Classify(tc.rec)
			if excl != nil {
				t.Fatalf("Classify() excluded the row: %v", excl)
			}
			if op.Kind != tc.wantKind {
				t.Errorf("Classify() kind = %q, want %q", op.Kind, tc.wantKind)
			}
			if op.Instrument != tc.wantID {
				t.Errorf("Classify() instrument = %q, want %q", op.Instrument, tc.wantID)
			}
			if !op.Amount.Equal(tc.wantAmt) {
				t.Errorf("Classify() amount = %v, want %v", op.Amount, tc.wantAmt)
			}
			if !op.Time.Equal(tc.rec.Time) {
				t.Errorf("Classify() time = %v, want %v", op.Time, tc.rec.Time)
			}
		})
	}
}

func TestClassify_Repurchase(t *testing.T) {
	prior := EUR(150.75)
	op, excl := Classify(RawRecord{
		Time:    at(10),
		Label:   "Loan repurchase",
		Details: "Buy-back of LV0000802451",
		Amount:  EUR(150.75),
		Prior:   &prior,
	})
	if excl != nil {
		t.Fatalf("Classify() excluded the row: %v", excl)
	}
	if op.Kind != KindRepurchase {
		t.Fatalf("Classify() kind = %q, want %q", op.Kind, KindRepurchase)
	}
	if op.Prior == nil || !op.Prior.Equal(prior) {
		t.Errorf("Classify() prior = %v, want %v", op.Prior, prior)
	}
	if !op.Residual.IsZero() {
		t.Errorf("Classify() residual = %v, want zero for a whole buy-back", op.Residual)
	}

	// without a prior column the operation is still classified; only the
	// reverser decides it cannot be undone.
	op, excl = Classify(RawRecord{Time: at(10), Label: "Repurchase", Details: "LV0000802451", Amount: EUR(150.75)})
	if excl != nil {
		t.Fatalf("Classify() excluded the row: %v", excl)
	}
	if op.Prior != nil {
		t.Errorf("Classify() prior = %v, want nil", op.Prior)
	}
}

func TestClassify_Exclusions(t *testing.T) {
	testCases := []struct {
		name       string
		rec        RawRecord
		wantReason ExclusionReason
	}{
		{
			name:       "interest has no principal effect",
			rec:        RawRecord{Time: at(10), Label: "Interest received", Details: "LV0000801322", Amount: EUR(0.42)},
			wantReason: ExcludedNoPrincipal,
		},
		{
			name:       "claims have no principal effect",
			rec:        RawRecord{Time: at(10), Label: "Claim", Details: "LV0000801322", Amount: EUR(1.10)},
			wantReason: ExcludedNoPrincipal,
		},
		{
			name:       "unrecognized label",
			rec:        RawRecord{Time: at(10), Label: "Cashback bonus", Details: "LV0000801322", Amount: EUR(5)},
			wantReason: ExcludedUnknownLabel,
		},
		{
			name:       "legacy loan without any instrument id",
			rec:        RawRecord{Time: at(10), Label: "Investment", Details: "Loan 1234-56 part", Amount: EUR(-25)},
			wantReason: ExcludedNoInstrument,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, excl := Classify(tc.rec)
			if excl == nil {
				t.Fatal("Classify() accepted a row that must be excluded")
			}
			if excl.Reason != tc.wantReason {
				t.Errorf("Classify() reason = %q, want %q", excl.Reason, tc.wantReason)
			}
		})
	}
}

func TestClassifyAll(t *testing.T) {
	recs := []RawRecord{
		{Time: at(10), Label: "Investment", Details: "LV0000801322", Amount: EUR(-25)},
		{Time: at(11), Label: "Interest received", Details: "LV0000801322", Amount: EUR(0.10)},
		{Time: at(12), Label: "Cashback bonus", Details: "LV0000801322", Amount: EUR(1)},
		{Time: at(12), Label: "Cashback bonus", Details: "LV0000802451", Amount: EUR(1)},
		{Time: at(13), Label: "Principal received", Details: "LV0000801322", Amount: EUR(5)},
	}

	ops, skipped := ClassifyAll(recs)
	if len(ops) != 2 {
		t.Fatalf("ClassifyAll() kept %d operations, want 2", len(ops))
	}
	// accepted operations keep their relative ledger order as seq.
	if ops[0].Seq() != 0 || ops[1].Seq() != 1 {
		t.Errorf("ClassifyAll() seq = %d,%d, want 0,1", ops[0].Seq(), ops[1].Seq())
	}
	if skipped.Total != 3 {
		t.Errorf("ClassifyAll() skipped %d rows, want 3", skipped.Total)
	}
	if skipped.ByReason[ExcludedUnknownLabel] != 2 {
		t.Errorf("ClassifyAll() unknown labels = %d, want 2", skipped.ByReason[ExcludedUnknownLabel])
	}
	if skipped.Labels["Cashback bonus"] != 2 {
		t.Errorf("ClassifyAll() label count = %d, want 2", skipped.Labels["Cashback bonus"])
	}
	if skipped.Empty() {
		t.Error("SkipReport.Empty() = true with 3 skips")
	}
}
