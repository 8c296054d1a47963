package rewind

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// RawRecord is one account-statement row, already date- and amount-parsed by
// the statement reader. The classifier turns it into an Operation or drops it.
type RawRecord struct {
	Time       time.Time
	Label      string // the platform's payment-type label, verbatim
	Details    string // free text, usually carries the note's ISIN
	Amount     Money  // signed turnover as reported: negative when money left the account
	Instrument string // explicit note id, when the export has a dedicated column
	Prior      *Money // principal before a buy-back, when the export carries it
}

// kindByLabel is the fixed lookup from platform payment-type labels to
// operation kinds. It covers the English and Spanish vocabularies seen in
// Mintos account statements. Unlisted labels classify as KindOther.
var kindByLabel = map[string]OperationKind{
	"Investment": KindInvestment,
	"Inversión":  KindInvestment,

	"Principal received": KindPrincipalReceived,
	"Capital recibido":   KindPrincipalReceived,

	"Repurchase":            KindRepurchase,
	"Loan repurchase":       KindRepurchase,
	"Recompra del préstamo": KindRepurchase,

	// Principal paid out when the originator buys the loan back. The cash
	// leg is a plain principal receipt; the buy-back itself shows up as a
	// separate Repurchase row when the note is extinguished.
	"Principal received from loan repurchase":                          KindPrincipalReceived,
	"Principal received from repurchase of small loan parts":           KindPrincipalReceived,
	"Ingresos del principal recibidos por la recompra del préstamo":    KindPrincipalReceived,
	"Principal recibido por la recompra de partes pequeñas de préstamos": KindPrincipalReceived,

	"Interest received":    KindInterest,
	"Intereses recibidos":  KindInterest,
	"Late fees received":   KindInterest,
	"Delayed interest income on rebuy": KindInterest,

	"Claim":       KindClaim,
	"Reclamación": KindClaim,
}

// secondary market trades appear under one label for both directions; the
// turnover sign tells buys from sells.
var secondaryMarketLabels = map[string]bool{
	"Secondary market transaction":    true,
	"Operación del Mercado Secundario": true,
}

// isinPattern matches a standard ISIN: two letter country code, nine
// alphanumerics, one check digit.
var isinPattern = regexp.MustCompile(`\b[A-Z]{2}[A-Z0-9]{9}[0-9]\b`)

// ExclusionReason says why the classifier dropped a row.
type ExclusionReason string

const (
	ExcludedUnknownLabel ExclusionReason = "unrecognized label"
	ExcludedNoPrincipal  ExclusionReason = "no principal effect"
	ExcludedNoInstrument ExclusionReason = "no instrument id"
)

// Exclusion explains a dropped row. It is data, not an error: a run with
// exclusions still succeeds, but the caller must surface the counts so the
// user can judge completeness.
type Exclusion struct {
	Reason ExclusionReason
	Label  string
}

func (e Exclusion) String() string {
	return fmt.Sprintf("%s (%q)", e.Reason, e.Label)
}

// Classify determines the semantic kind of a raw statement row and extracts
// the normalized operation from it. It is a pure function of its input.
//
// Rows that do not affect principal (interest, claims) and rows whose label
// is not in the fixed lookup are excluded, as are rows carrying no instrument
// id anywhere (legacy loans without ISIN).
func Classify(rec RawRecord) (Operation, *Exclusion) {
	label := strings.TrimSpace(rec.Label)

	kind, known := kindByLabel[label]
	switch {
	case secondaryMarketLabels[label]:
		// buying on the secondary market is an investment, selling returns principal.
		if rec.Amount.IsNegative() {
			kind = KindInvestment
		} else {
			kind = KindPrincipalReceived
		}
	case !known:
		return Operation{}, &Exclusion{Reason: ExcludedUnknownLabel, Label: rec.Label}
	case !kind.AffectsPrincipal():
		return Operation{}, &Exclusion{Reason: ExcludedNoPrincipal, Label: rec.Label}
	}

	instrument := rec.Instrument
	if instrument == "" {
		instrument = isinPattern.FindString(rec.Details)
	}
	if instrument == "" {
		return Operation{}, &Exclusion{Reason: ExcludedNoInstrument, Label: rec.Label}
	}

	op := Operation{
		Instrument: instrument,
		Kind:       kind,
		Amount:     rec.Amount.Abs(),
		Time:       rec.Time,
	}
	if kind == KindRepurchase {
		op.Prior = rec.Prior
		if rec.Prior != nil {
			op.Residual = rec.Prior.Sub(op.Amount)
		}
	}
	return op, nil
}

// SkipReport aggregates the rows a classification pass dropped.
type SkipReport struct {
	Total    int
	ByReason map[ExclusionReason]int
	Labels   map[string]int // unrecognized labels and how often they occurred
}

// Empty reports whether no rows were skipped.
func (r SkipReport) Empty() bool { return r.Total == 0 }

func (r SkipReport) String() string {
	if r.Empty() {
		return "no rows skipped"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d rows skipped", r.Total)
	labels := make([]string, 0, len(r.Labels))
	for l := range r.Labels {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		fmt.Fprintf(&b, "\n  %dx unrecognized label %q", r.Labels[l], l)
	}
	return b.String()
}

func (r *SkipReport) record(e Exclusion) {
	r.Total++
	if r.ByReason == nil {
		r.ByReason = make(map[ExclusionReason]int)
	}
	r.ByReason[e.Reason]++
	if e.Reason == ExcludedUnknownLabel {
		if r.Labels == nil {
			r.Labels = make(map[string]int)
		}
		r.Labels[e.Label]++
	}
}

// ClassifyAll classifies a whole statement, keeping the accepted operations
// in original ledger order (which becomes their timestamp tie-break order)
// and aggregating the dropped rows into a SkipReport.
func ClassifyAll(recs []RawRecord) ([]Operation, SkipReport) {
	var ops []Operation
	var skipped SkipReport
	for _, rec := range recs {
		op, excl := Classify(rec)
		if excl != nil {
			skipped.record(*excl)
			continue
		}
		op.seq = len(ops)
		ops = append(ops, op)
	}
	return ops, skipped
}
