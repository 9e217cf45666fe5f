package report

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ajroetker/kernelqa/qa"
)

// WriteTable writes one block per kernel: a row per implementation with its
// aligned and unaligned times and pass flags, followed by the selections.
func WriteTable(w io.Writer, r *Report) error {
	title := cases.Title(language.English)
	mode := "test"
	if r.Benchmark {
		mode = "benchmark"
	}
	fmt.Fprintf(w, "%s run %s on %s\n", title.String(mode), r.RunID, r.Host)

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, res := range r.Results {
		fmt.Fprintf(tw, "\n%s", res.Kernel)
		if res.Config != res.Kernel {
			fmt.Fprintf(tw, " (via %s)", res.Config)
		}
		fmt.Fprintf(tw, "  vlen=%d iterations=%d\n", res.VectorLength, res.Iterations)

		fmt.Fprintln(tw, header(title, "implementation", qa.Aligned.String(), qa.Unaligned.String(), "status"))
		for _, name := range res.Order {
			al, okA := res.Aligned[name]
			un, okU := res.Unaligned[name]
			if !okA && !okU {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, cell(al, okA), cell(un, okU), status(res, name))
		}
		fmt.Fprintf(tw, "%s:\t%s\t%s\t\n", title.String("best"), res.BestAligned, res.BestUnaligned)
	}
	return tw.Flush()
}

func header(title cases.Caser, cols ...string) string {
	for i, c := range cols {
		cols[i] = title.String(c)
	}
	return strings.Join(cols, "\t")
}

func cell(tr qa.TimingResult, ok bool) string {
	switch {
	case !ok:
		return "-"
	case !tr.Timed:
		return "not timed"
	}
	return fmt.Sprintf("%.4f %s", tr.Time, tr.Units)
}

func status(res qa.TestResults, name string) string {
	if slices.Contains(res.Failures, name) {
		return "FAIL"
	}
	return "ok"
}
