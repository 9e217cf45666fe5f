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

// Package suite collects the sample kernels and the test cases run by the
// kernelqa command.
package suite

import (
	"fmt"
	"math"
	"regexp"

	"github.com/samber/lo"

	"github.com/ajroetker/kernelqa/kernels/add"
	"github.com/ajroetker/kernelqa/kernels/cmul"
	"github.com/ajroetker/kernelqa/kernels/convert"
	"github.com/ajroetker/kernelqa/kernels/deinterleave"
	"github.com/ajroetker/kernelqa/kernels/dot"
	"github.com/ajroetker/kernelqa/kernels/magnitude"
	"github.com/ajroetker/kernelqa/qa"
)

// Kernels returns every sample kernel in profiling order.
func Kernels() []qa.Kernel {
	return []qa.Kernel{
		cmul.Kernel,
		magnitude.Kernel,
		convert.ToInt16,
		convert.ToFloat32,
		dot.Kernel,
		add.Int32,
		add.Float32,
		deinterleave.Kernel,
	}
}

// Registry returns a registry holding Kernels.
func Registry() *qa.Registry {
	return qa.NewRegistry(Kernels()...)
}

// entry is one row of the default case table.
type entry struct {
	name   string
	kernel qa.Kernel
	master string
	adjust func(*qa.Params)
}

var table = []entry{
	{name: cmul.Name, kernel: cmul.Kernel},
	{name: cmul.ConjugateName, master: cmul.Name},
	{name: magnitude.Name, kernel: magnitude.Kernel},
	{name: convert.ToInt16Name, kernel: convert.ToInt16, adjust: func(p *qa.Params) {
		p.Scalar = 32767
	}},
	{name: convert.ToFloat32Name, kernel: convert.ToFloat32, adjust: func(p *qa.Params) {
		p.Scalar = 32768
	}},
	{name: dot.Name, kernel: dot.Kernel, adjust: func(p *qa.Params) {
		p.Tolerance = max(p.Tolerance, DotTolerance(p.VectorLength))
	}},
	{name: add.Int32Name, kernel: add.Int32},
	{name: add.Float32Name, kernel: add.Float32},
	{name: deinterleave.Name, kernel: deinterleave.Kernel},
}

// DotTolerance is the absolute tolerance used for dot products of vlen
// elements drawn from [-1, 1). Reassociated sums drift from the sequential
// sum roughly with the square root of the length.
func DotTolerance(vlen int) float64 {
	return 1e-3 * math.Sqrt(float64(vlen))
}

// Cases returns the default test cases, each starting from base.
func Cases(base qa.Params) []qa.TestCase {
	cases := make([]qa.TestCase, 0, len(table))
	for _, e := range table {
		p := base
		if e.adjust != nil {
			e.adjust(&p)
		}
		if e.master != "" {
			cases = append(cases, qa.PuppetCase(e.name, e.master, p))
			continue
		}
		cases = append(cases, qa.KernelCase(e.kernel, p))
	}
	return cases
}

// Names returns the names of the default test cases.
func Names() []string {
	return lo.Map(table, func(e entry, _ int) string { return e.name })
}

// Select keeps the cases whose names match pattern. An empty pattern keeps
// everything.
func Select(cases []qa.TestCase, pattern string) ([]qa.TestCase, error) {
	if pattern == "" {
		return cases, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: kernel pattern %q: %v", qa.ErrInvalidParams, pattern, err)
	}
	return lo.Filter(cases, func(tc qa.TestCase, _ int) bool { return re.MatchString(tc.Name) }), nil
}
