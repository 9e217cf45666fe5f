package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/tools/benchmark/parse"

	"github.com/ajroetker/kernelqa/report"
)

var compareCmd = &cobra.Command{
	Use:   "compare OLD NEW",
	Short: "Compare two benchmark outputs",
	Long: `Reads two files of Go benchmark lines, as written by
"kernelqa profile -f bench" or "go test -bench", and prints the per-benchmark
speedup of NEW over OLD for the benchmarks present in both.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		before, err := readBench(args[0])
		if err != nil {
			return err
		}
		after, err := readBench(args[1])
		if err != nil {
			return err
		}
		deltas := report.Compare(before, after)
		if len(deltas) == 0 {
			return fmt.Errorf("no benchmarks in common between %s and %s", args[0], args[1])
		}
		w := cmd.OutOrStdout()
		for _, d := range deltas {
			fmt.Fprintln(w, d)
		}
		return nil
	},
}

func readBench(path string) (parse.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	set, err := report.ParseBench(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}
