// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package qa

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/samber/lo"
)

// Units is the unit TimingResult.Time is expressed in.
const Units = "ms"

// TimingResult is the outcome of one implementation on one alignment class.
type TimingResult struct {
	Name    string        `json:"name" yaml:"name"`
	Elapsed time.Duration `json:"elapsed_ns" yaml:"elapsed_ns"`
	Time    float64       `json:"time" yaml:"time"`
	Units   string        `json:"units" yaml:"units"`
	Pass    bool          `json:"pass" yaml:"pass"`
	// Timed is false when timing was skipped, e.g. for an implementation
	// that failed comparison outside benchmark mode.
	Timed bool `json:"timed" yaml:"timed"`
}

// NewTimingResult fills Time and Units from elapsed.
func NewTimingResult(name string, elapsed time.Duration, pass, timed bool) TimingResult {
	return TimingResult{
		Name:    name,
		Elapsed: elapsed,
		Time:    float64(elapsed) / float64(time.Millisecond),
		Units:   Units,
		Pass:    pass,
		Timed:   timed,
	}
}

// SelectionStatus distinguishes "not computed yet" from "nothing passed".
type SelectionStatus int

const (
	// SelectionPending means the aggregator has not finalized.
	SelectionPending SelectionStatus = iota
	// SelectionChosen means Name holds the winner.
	SelectionChosen
	// SelectionNone means no implementation passed for the class.
	SelectionNone
)

func (s SelectionStatus) String() string {
	switch s {
	case SelectionChosen:
		return "chosen"
	case SelectionNone:
		return "none"
	default:
		return "pending"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s SelectionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SelectionStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pending", "":
		*s = SelectionPending
	case "chosen":
		*s = SelectionChosen
	case "none":
		*s = SelectionNone
	default:
		return fmt.Errorf("kernelqa: unknown selection status %q", text)
	}
	return nil
}

// Selection is the best implementation for one alignment class.
type Selection struct {
	Name   string          `json:"name,omitempty" yaml:"name,omitempty"`
	Status SelectionStatus `json:"status" yaml:"status"`
}

// Get returns the chosen name and whether one was chosen.
func (s Selection) Get() (string, bool) {
	return s.Name, s.Status == SelectionChosen
}

func (s Selection) String() string {
	if s.Status == SelectionChosen {
		return s.Name
	}
	return "<" + s.Status.String() + ">"
}

// TestResults is the report of one kernel run.
type TestResults struct {
	// Kernel is the name the test case was run under.
	Kernel string `json:"kernel" yaml:"kernel"`
	// Config names the kernel whose dispatcher the results configure: the
	// kernel itself, or the master for a puppet.
	Config        string                  `json:"config" yaml:"config"`
	VectorLength  int                     `json:"vlen" yaml:"vlen"`
	Iterations    int                     `json:"iterations" yaml:"iterations"`
	Aligned       map[string]TimingResult `json:"aligned" yaml:"aligned"`
	Unaligned     map[string]TimingResult `json:"unaligned" yaml:"unaligned"`
	BestAligned   Selection               `json:"best_aligned" yaml:"best_aligned"`
	BestUnaligned Selection               `json:"best_unaligned" yaml:"best_unaligned"`
	// Order is the descriptor order of the implementations recorded.
	Order []string `json:"order" yaml:"order"`
	// Failures lists implementations that failed comparison on any class,
	// including ones excluded from timing by the name filter.
	Failures []string `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Class returns the timing map for an alignment class.
func (r *TestResults) Class(a Alignment) map[string]TimingResult {
	if a == Aligned {
		return r.Aligned
	}
	return r.Unaligned
}

// Best returns the selection for an alignment class.
func (r *TestResults) Best(a Alignment) Selection {
	if a == Aligned {
		return r.BestAligned
	}
	return r.BestUnaligned
}

// Passed reports whether no implementation failed.
func (r *TestResults) Passed() bool {
	return len(r.Failures) == 0
}

// Aggregator accumulates timings and pass flags for one kernel run and
// selects the best implementation per alignment class.
type Aggregator struct {
	res       TestResults
	finalized bool
}

// NewAggregator starts a TestResults for kernel. order is the descriptor
// order used for tie breaking.
func NewAggregator(kernel, config string, vlen, iterations int, order []string) *Aggregator {
	return &Aggregator{res: TestResults{
		Kernel:       kernel,
		Config:       config,
		VectorLength: vlen,
		Iterations:   iterations,
		Aligned:      make(map[string]TimingResult),
		Unaligned:    make(map[string]TimingResult),
		Order:        slices.Clone(order),
	}}
}

// Record stores tr for class, replacing any earlier entry of the same name.
func (a *Aggregator) Record(class Alignment, tr TimingResult) {
	if a.finalized {
		panic("kernelqa: Record after Finalize")
	}
	a.res.Class(class)[tr.Name] = tr
}

// Fail notes that impl failed comparison.
func (a *Aggregator) Fail(impl string) {
	if !slices.Contains(a.res.Failures, impl) {
		a.res.Failures = append(a.res.Failures, impl)
	}
}

// Finalize selects the best passing implementation per class and returns
// the results. Ties go to the implementation declared first.
func (a *Aggregator) Finalize() TestResults {
	if !a.finalized {
		a.res.BestAligned = selectBest(a.res.Aligned, a.res.Order)
		a.res.BestUnaligned = selectBest(a.res.Unaligned, a.res.Order)
		a.finalized = true
	}
	out := a.res
	out.Aligned = maps.Clone(a.res.Aligned)
	out.Unaligned = maps.Clone(a.res.Unaligned)
	out.Order = slices.Clone(a.res.Order)
	out.Failures = slices.Clone(a.res.Failures)
	return out
}

func selectBest(class map[string]TimingResult, order []string) Selection {
	best := Selection{Status: SelectionNone}
	var bestTime time.Duration
	for _, name := range order {
		tr, ok := class[name]
		if !ok || !tr.Pass || !tr.Timed {
			continue
		}
		if best.Status != SelectionChosen || tr.Elapsed < bestTime {
			best = Selection{Name: name, Status: SelectionChosen}
			bestTime = tr.Elapsed
		}
	}
	return best
}

// Collector gathers TestResults across kernel runs for later reporting.
// The zero value is ready to use.
type Collector struct {
	results []TestResults
}

// Add appends r.
func (c *Collector) Add(r TestResults) {
	c.results = append(c.results, r)
}

// Results returns the collected results in run order.
func (c *Collector) Results() []TestResults {
	return slices.Clone(c.results)
}

// Len returns the number of collected results.
func (c *Collector) Len() int {
	return len(c.results)
}

// Lookup returns the most recent results recorded for kernel.
func (c *Collector) Lookup(kernel string) (TestResults, bool) {
	r, _, ok := lo.FindLastIndexOf(c.results, func(r TestResults) bool {
		return r.Kernel == kernel
	})
	return r, ok
}
