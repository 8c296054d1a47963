package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"

	"github.com/ltoms/rewind"
)

type classifyCmd struct {
	statement string
	output    string
}

func (*classifyCmd) Name() string { return "classify" }
func (*classifyCmd) Synopsis() string {
	return "normalize a statement into a classified operations ledger"
}
func (*classifyCmd) Usage() string {
	return `rwd classify -statement <file> [-o <file>]

  Reads a normalized statement CSV, classifies each row into its operation
  kind, and writes the principal-affecting operations as a JSONL ledger
  (stdout by default). Skipped rows are counted and reported on stderr.

Usage example:
$ rwd classify -statement statement.csv -o operations.jsonl
`
}

func (p *classifyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.statement, "statement", "", "Normalized statement CSV to classify.")
	f.StringVar(&p.output, "o", "", "Write the operations ledger to this file instead of stdout.")
}

func (p *classifyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.statement == "" {
		fmt.Fprintln(os.Stderr, "classify needs -statement")
		return subcommands.ExitUsageError
	}

	recs, err := readStatementFile(p.statement)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	ops, skipped := rewind.ClassifyAll(recs)
	if !skipped.Empty() {
		log.Printf("warning: %s", skipped)
	}

	out := os.Stdout
	if p.output != "" {
		fd, err := os.Create(p.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not create %q: %v\n", p.output, err)
			return subcommands.ExitFailure
		}
		defer fd.Close()
		out = fd
	}
	for _, op := range ops {
		if err := rewind.EncodeOperation(out, op); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	if p.output != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d operations to %s (%d rows skipped)\n", len(ops), p.output, skipped.Total)
	}
	return subcommands.ExitSuccess
}
