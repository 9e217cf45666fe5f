package report

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/tools/benchmark/parse"

	"github.com/ajroetker/kernelqa/qa"
)

// BenchPrefix starts every benchmark line.
const BenchPrefix = "BenchmarkKernel"

// BenchName returns the benchmark name for one implementation run, e.g.
// "BenchmarkKernel/32fc_x2_multiply_32fc/u_unroll4/aligned".
func BenchName(kernel, impl string, class qa.Alignment) string {
	return BenchPrefix + "/" + kernel + "/" + impl + "/" + class.String()
}

// WriteBench writes timed results in the Go benchmark text format, one line
// per implementation and alignment class with the iteration count and the
// time per invocation. Untimed and failing results are skipped.
func WriteBench(w io.Writer, results []qa.TestResults) error {
	bw := bufio.NewWriter(w)
	for _, res := range results {
		for _, class := range []qa.Alignment{qa.Aligned, qa.Unaligned} {
			m := res.Class(class)
			for _, name := range res.Order {
				tr, ok := m[name]
				if !ok || !tr.Timed || !tr.Pass || res.Iterations == 0 {
					continue
				}
				nsPerOp := float64(tr.Elapsed.Nanoseconds()) / float64(res.Iterations)
				fmt.Fprintf(bw, "%s\t%d\t%.1f ns/op\n", BenchName(res.Kernel, name, class), res.Iterations, nsPerOp)
			}
		}
	}
	return bw.Flush()
}

// ParseBench reads benchmark lines, as written by WriteBench or go test
// -bench, keyed by benchmark name.
func ParseBench(r io.Reader) (parse.Set, error) {
	set, err := parse.ParseSet(r)
	if err != nil {
		return nil, fmt.Errorf("parsing benchmarks: %w", err)
	}
	return set, nil
}

// Delta compares one benchmark across two runs.
type Delta struct {
	Name string
	Old  time.Duration
	New  time.Duration
}

// Speedup returns Old/New; values above 1 mean the new run is faster.
func (d Delta) Speedup() float64 {
	if d.New == 0 {
		return 0
	}
	return float64(d.Old) / float64(d.New)
}

func (d Delta) String() string {
	return fmt.Sprintf("%s: %v -> %v (%.2fx)", d.Name, d.Old, d.New, d.Speedup())
}

// Compare pairs the benchmarks present in both sets, averaging repeated
// runs of the same name, and returns them sorted by name.
func Compare(before, after parse.Set) []Delta {
	names := lo.Filter(lo.Keys(before), func(name string, _ int) bool {
		_, ok := after[name]
		return ok
	})
	slices.Sort(names)

	deltas := make([]Delta, 0, len(names))
	for _, name := range names {
		deltas = append(deltas, Delta{Name: name, Old: meanNs(before[name]), New: meanNs(after[name])})
	}
	return deltas
}

func meanNs(bs []*parse.Benchmark) time.Duration {
	timed := lo.Filter(bs, func(b *parse.Benchmark, _ int) bool { return b.Measured&parse.NsPerOp != 0 })
	if len(timed) == 0 {
		return 0
	}
	sum := lo.SumBy(timed, func(b *parse.Benchmark) float64 { return b.NsPerOp })
	return time.Duration(sum / float64(len(timed)))
}

// SplitBenchName undoes BenchName. It reports false for names written by
// other tools.
func SplitBenchName(name string) (kernel, impl string, class qa.Alignment, ok bool) {
	// go test appends -GOMAXPROCS; WriteBench does not.
	if i := strings.LastIndexByte(name, '-'); i > 0 && !strings.Contains(name[i:], "/") {
		name = name[:i]
	}
	parts := strings.Split(name, "/")
	if len(parts) != 4 || parts[0] != BenchPrefix {
		return "", "", 0, false
	}
	switch parts[3] {
	case qa.Aligned.String():
		class = qa.Aligned
	case qa.Unaligned.String():
		class = qa.Unaligned
	default:
		return "", "", 0, false
	}
	return parts[1], parts[2], class, true
}
