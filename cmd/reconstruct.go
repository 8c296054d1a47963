package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"

	"github.com/ltoms/rewind"
	"github.com/ltoms/rewind/renderer"
)

type reconstructCmd struct {
	snapshot  string
	statement string
	ops       string
	cutoff    string
	output    string
}

func (*reconstructCmd) Name() string { return "reconstruct" }
func (*reconstructCmd) Synopsis() string {
	return "reconstruct the portfolio as it existed at a past date"
}
func (*reconstructCmd) Usage() string {
	return `rwd reconstruct -snapshot <file> (-statement <file> | -ops <file>) -cutoff <date> [-o <file>]

  Computes the portfolio at the end of the cutoff day by taking the later
  snapshot and reversing, newest first, every operation recorded between the
  cutoff and the snapshot. Prints the reconstructed balances and the count
  of statement rows that were skipped; writes a snapshot file with -o.

  The run aborts, producing nothing, when an operation cannot be reversed
  exactly or a balance would go negative. See 'rwd topic reversal'.

Usage example:
$ rwd reconstruct -snapshot current.jsonl -statement statement.csv -cutoff 2023-12-31 -o year-end.jsonl
`
}

func (p *reconstructCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.snapshot, "snapshot", "", "Snapshot JSONL file with the known, later portfolio state.")
	f.StringVar(&p.statement, "statement", "", "Normalized statement CSV covering (cutoff, snapshot].")
	f.StringVar(&p.ops, "ops", "", "Classified operations ledger JSONL, instead of -statement.")
	f.StringVar(&p.cutoff, "cutoff", "", "Date to reconstruct, e.g. 2023-12-31 for a year-end portfolio.")
	f.StringVar(&p.output, "o", "", "Write the reconstructed snapshot to this file.")
}

func (p *reconstructCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.snapshot == "" || p.cutoff == "" || (p.statement == "") == (p.ops == "") {
		fmt.Fprintln(os.Stderr, "reconstruct needs -snapshot, -cutoff, and exactly one of -statement or -ops")
		return subcommands.ExitUsageError
	}

	cutoff, err := parseCutoff(p.cutoff)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	seed, err := decodeSnapshotFile(p.snapshot)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var ops []rewind.Operation
	var skipped rewind.SkipReport
	if p.statement != "" {
		recs, err := readStatementFile(p.statement)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		ops, skipped = rewind.ClassifyAll(recs)
		if !skipped.Empty() {
			log.Printf("warning: %s", skipped)
		}
	} else {
		if ops, err = decodeOperationsFile(p.ops); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}

	state, err := rewind.Reconstruct(seed, ops, cutoff)
	if err != nil {
		// Failed reconstructions produce no report at all: the error names
		// the instrument, which is all there is to act on.
		var irr *rewind.IrreversibleError
		var neg *rewind.NegativePrincipalError
		switch {
		case errors.As(err, &irr):
			fmt.Fprintf(os.Stderr, "reconstruction failed: %v\nThe statement needs a prior-principal value for this buy-back; see 'rwd topic reversal'.\n", err)
		case errors.As(err, &neg):
			fmt.Fprintf(os.Stderr, "reconstruction failed: %v\nThe snapshot and statement disagree; re-download a matching pair, see 'rwd topic procedure'.\n", err)
		default:
			fmt.Fprintf(os.Stderr, "reconstruction failed: %v\n", err)
		}
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ReconstructionMarkdown(&renderer.Reconstruction{
		State:   state,
		Seed:    seed,
		Skipped: skipped,
	}))

	if p.output != "" {
		if err := writeSnapshotFile(p.output, state); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Wrote reconstructed snapshot to %s\n", p.output)
	}
	return subcommands.ExitSuccess
}
