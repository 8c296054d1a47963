package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/ltoms/rewind/cmd"
)

func main() {
	// Shell completion: invoked by the completion hooks, this exits early;
	// in a normal run it is a no-op.
	completion().Complete("rwd")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	snapshotFiles := predict.Files("*.jsonl")
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"reconstruct": {Flags: map[string]complete.Predictor{
				"snapshot":  snapshotFiles,
				"statement": predict.Files("*.csv"),
				"ops":       predict.Files("*.jsonl"),
				"cutoff":    predict.Nothing,
				"o":         predict.Files("*.jsonl"),
			}},
			"classify": {Flags: map[string]complete.Predictor{
				"statement": predict.Files("*.csv"),
				"o":         predict.Files("*.jsonl"),
			}},
			"show": {Flags: map[string]complete.Predictor{
				"snapshot": snapshotFiles,
			}},
			"fmt": {Flags: map[string]complete.Predictor{
				"ops": predict.Files("*.jsonl"),
			}},
			"import": {Flags: map[string]complete.Predictor{
				"json":       predict.Files("*.json"),
				"taken":      predict.Nothing,
				"o":          predict.Files("*.jsonl"),
				"items":      predict.Nothing,
				"instrument": predict.Nothing,
				"principal":  predict.Nothing,
			}},
			"topic": {Args: predict.Set{"readme", "formats", "procedure", "reversal"}},
		},
	}
}
