// Package renderer renders reconstruction results to markdown reports.
package renderer

import (
	"bytes"
	"fmt"
	"sort"

	md "github.com/nao1215/markdown"

	"github.com/ltoms/rewind"
)

// Reconstruction bundles everything a finished run reports on: the
// reconstructed state, the window it covers and the rows the classifier
// dropped on the way. Failed runs never reach the renderer.
type Reconstruction struct {
	State   rewind.PortfolioState
	Seed    rewind.PortfolioState
	Skipped rewind.SkipReport
}

// ReconstructionMarkdown renders a finished reconstruction to markdown.
func ReconstructionMarkdown(r *Reconstruction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio on %s", r.State.Taken().Format("2006-01-02")))
	doc.PlainText(fmt.Sprintf("Reconstructed from the snapshot of %s by reversing the operations in between.",
		r.Seed.Taken().Format("2006-01-02")))

	doc.Table(stateTable(r.State))
	doc.PlainText(fmt.Sprintf("Total outstanding principal: %s over %d notes.",
		r.State.Total(), held(r.State)))

	doc.H2("Completeness")
	if r.Skipped.Empty() {
		doc.PlainText("Every statement row was recognized; none were skipped.")
	} else {
		doc.PlainText(r.Skipped.String())
		doc.PlainText("Review the skipped labels above before filing: an unrecognized principal-affecting label would make these balances wrong.")
	}

	return doc.String()
}

// SnapshotMarkdown renders a portfolio state on its own, for showing
// snapshot files as they are.
func SnapshotMarkdown(s rewind.PortfolioState) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio snapshot of %s", s.Taken().Format("2006-01-02")))
	doc.Table(stateTable(s))
	doc.PlainText(fmt.Sprintf("Total outstanding principal: %s over %d notes.", s.Total(), held(s)))

	return doc.String()
}

// stateTable lists one row per instrument, zero-balance notes last so the
// balances that matter read first.
func stateTable(s rewind.PortfolioState) md.TableSet {
	ids := s.Instruments()
	sort.SliceStable(ids, func(i, j int) bool {
		zi, zj := s.Principal(ids[i]).IsZero(), s.Principal(ids[j]).IsZero()
		return !zi && zj
	})

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, []string{id, s.Principal(id).String()})
	}
	return md.TableSet{
		Header: []string{"Instrument", "Outstanding Principal"},
		Rows:   rows,
	}
}

func held(s rewind.PortfolioState) int {
	n := 0
	for _, id := range s.Instruments() {
		if !s.Principal(id).IsZero() {
			n++
		}
	}
	return n
}
