package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ltoms/rewind/renderer"
)

type showCmd struct {
	snapshot string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display a snapshot file as a readable report" }
func (*showCmd) Usage() string {
	return `rwd show -snapshot <file>

  Renders a snapshot JSONL file as a table of outstanding principal per
  note, with the total.
`
}

func (p *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.snapshot, "snapshot", "", "Snapshot JSONL file to display.")
}

func (p *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.snapshot == "" {
		fmt.Fprintln(os.Stderr, "show needs -snapshot")
		return subcommands.ExitUsageError
	}
	state, err := decodeSnapshotFile(p.snapshot)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SnapshotMarkdown(state))
	return subcommands.ExitSuccess
}
