// Package cmd implements the rwd CLI commands.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/ltoms/rewind"
)

// as a CLI application it has a very short lived lifecycle, so flags and
// command wiring live in package scope.

// Commands lists every rwd subcommand; a main package registers them all.
var Commands = []subcommands.Command{
	&reconstructCmd{},
	&classifyCmd{},
	&showCmd{},
	&fmtCmd{},
	&importCmd{},
	&topicCmd{},
}

// cutoffFormat is how cutoff dates are given on the command line. The
// cutoff instant is the very end of that day: "2023-12-31" asks for the
// portfolio as of midnight into the new year.
const cutoffFormat = "2006-01-02"

func parseCutoff(s string) (time.Time, error) {
	day, err := time.Parse(cutoffFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cutoff date %q, want %s: %w", s, cutoffFormat, err)
	}
	return day.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

// decodeSnapshotFile reads a snapshot JSONL file into a portfolio state.
func decodeSnapshotFile(path string) (rewind.PortfolioState, error) {
	f, err := os.Open(path)
	if err != nil {
		return rewind.PortfolioState{}, fmt.Errorf("could not open snapshot %q: %w", path, err)
	}
	defer f.Close()
	state, err := rewind.DecodeSnapshot(f)
	if err != nil {
		return rewind.PortfolioState{}, fmt.Errorf("snapshot %q: %w", path, err)
	}
	return state, nil
}

// decodeOperationsFile reads an operations ledger JSONL file.
func decodeOperationsFile(path string) ([]rewind.Operation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open operations ledger %q: %w", path, err)
	}
	defer f.Close()
	ops, err := rewind.DecodeOperations(f)
	if err != nil {
		return nil, fmt.Errorf("operations ledger %q: %w", path, err)
	}
	return ops, nil
}

// readStatementFile reads a normalized statement CSV file.
func readStatementFile(path string) ([]rewind.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open statement %q: %w", path, err)
	}
	defer f.Close()
	recs, err := rewind.ReadStatement(f)
	if err != nil {
		return nil, fmt.Errorf("statement %q: %w", path, err)
	}
	return recs, nil
}

// writeSnapshotFile writes a portfolio state as a snapshot JSONL file.
func writeSnapshotFile(path string, state rewind.PortfolioState) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", path, err)
	}
	defer f.Close()
	if err := rewind.EncodeSnapshot(f, state); err != nil {
		return fmt.Errorf("could not write snapshot %q: %w", path, err)
	}
	return nil
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when the terminal renderer cannot be built.
func printMarkdown(s string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(s)
		return
	}
	out, err := r.Render(s)
	if err != nil {
		fmt.Print(s)
		return
	}
	fmt.Print(out)
}
