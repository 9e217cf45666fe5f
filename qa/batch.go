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
	"go.uber.org/zap"

	"github.com/samber/lo"
)

// KernelOutcome is the verdict for one test case of a batch.
type KernelOutcome struct {
	Name string
	Pass bool
	// Failed lists the implementations that failed comparison.
	Failed []string
	// Err is set when the case could not run; Pass is false then.
	Err error
}

// BatchResult is the outcome of RunBatch.
type BatchResult struct {
	Outcomes []KernelOutcome
	// Results holds the TestResults of every case that ran, in order.
	Results []TestResults
}

// FailedCount returns the number of kernels that did not pass.
func (b *BatchResult) FailedCount() int {
	return lo.CountBy(b.Outcomes, func(o KernelOutcome) bool { return !o.Pass })
}

// Failures returns the outcomes of kernels that did not pass.
func (b *BatchResult) Failures() []KernelOutcome {
	return lo.Filter(b.Outcomes, func(o KernelOutcome, _ int) bool { return !o.Pass })
}

// Passed reports whether every kernel passed.
func (b *BatchResult) Passed() bool {
	return b.FailedCount() == 0
}

// Outcome returns the outcome recorded for kernel name.
func (b *BatchResult) Outcome(name string) (KernelOutcome, bool) {
	return lo.Find(b.Outcomes, func(o KernelOutcome) bool { return o.Name == name })
}

// RunBatch runs every case in order. A case that fails or cannot run never
// stops the batch. Results are also appended to sink when it is non-nil.
func (h *Harness) RunBatch(cases []TestCase, sink *Collector) *BatchResult {
	br := &BatchResult{Outcomes: make([]KernelOutcome, 0, len(cases))}
	local := &Collector{}
	for _, tc := range cases {
		pass, err := h.Run(tc, local)
		out := KernelOutcome{Name: tc.Name, Pass: pass && err == nil, Err: err}
		if err != nil {
			h.logger.Error("kernel aborted", zap.String("kernel", tc.Name), zap.Error(err))
		} else if res, ok := local.Lookup(tc.Name); ok {
			out.Failed = res.Failures
		}
		br.Outcomes = append(br.Outcomes, out)
	}
	br.Results = local.Results()
	if sink != nil {
		for _, r := range br.Results {
			sink.Add(r)
		}
	}
	h.logger.Info("batch finished",
		zap.Int("kernels", len(cases)),
		zap.Int("failed", br.FailedCount()))
	return br
}
