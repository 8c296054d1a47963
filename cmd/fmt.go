package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ltoms/rewind"
)

type fmtCmd struct {
	ops string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validate and rewrite an operations ledger in canonical form"
}
func (*fmtCmd) Usage() string {
	return `rwd fmt -ops <file>

  Reads an operations ledger, validates every operation, and rewrites the
  file in canonical form: ascending timestamps, stable field order, one
  operation per line. The file is only rewritten when everything validates.

Usage example:
$ rwd fmt -ops operations.jsonl
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ops, "ops", "", "Operations ledger JSONL file to format in place.")
}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.ops == "" {
		fmt.Fprintln(os.Stderr, "fmt needs -ops")
		return subcommands.ExitUsageError
	}

	ops, err := decodeOperationsFile(p.ops)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var buf bytes.Buffer
	if err := rewind.EncodeOperations(&buf, ops); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(p.ops, buf.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "could not rewrite %q: %v\n", p.ops, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Formatted %d operations in %s\n", len(ops), p.ops)
	return subcommands.ExitSuccess
}
