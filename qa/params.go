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
	"math"
)

// Params configures one test case. It is a value type; a test case keeps
// its own copy.
type Params struct {
	// Tolerance is the absolute tolerance per real component for float
	// outputs. Integer outputs are always compared exactly.
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`
	// Scalar is passed to kernels that take a scalar operand.
	Scalar complex64 `json:"-" yaml:"-"`
	// VectorLength is the number of elements per invocation.
	VectorLength int `json:"vlen" yaml:"vlen"`
	// Iterations is the number of timed invocations per implementation and
	// alignment class.
	Iterations int `json:"iterations" yaml:"iterations"`
	// BenchmarkMode times implementations even after they fail comparison
	// and applies Filter to the correctness pass as well.
	BenchmarkMode bool `json:"benchmark" yaml:"benchmark"`
	// Filter is a regular expression restricting which implementations are
	// benchmarked and eligible for best selection. Empty matches all.
	Filter string `json:"filter,omitempty" yaml:"filter,omitempty"`
	// ExtraDivisor scales random float inputs down; zero or one is none.
	ExtraDivisor float64 `json:"extra_divisor,omitempty" yaml:"extra_divisor,omitempty"`
	// Seed seeds the input generator; zero means DefaultSeed.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// DefaultParams returns the parameters used for profiling runs.
func DefaultParams() Params {
	return Params{
		Tolerance:    1e-6,
		Scalar:       327,
		VectorLength: 131071,
		Iterations:   1987,
	}
}

// Validate rejects parameters no run can use.
func (p Params) Validate() error {
	switch {
	case p.VectorLength < 1:
		return fmt.Errorf("%w: vector length %d", ErrInvalidParams, p.VectorLength)
	case p.Iterations < 0:
		return fmt.Errorf("%w: iterations %d", ErrInvalidParams, p.Iterations)
	case math.IsNaN(p.Tolerance) || p.Tolerance < 0:
		return fmt.Errorf("%w: tolerance %g", ErrInvalidParams, p.Tolerance)
	case math.IsNaN(p.ExtraDivisor) || math.IsInf(p.ExtraDivisor, 0) || p.ExtraDivisor < 0:
		return fmt.Errorf("%w: extra divisor %g", ErrInvalidParams, p.ExtraDivisor)
	}
	return nil
}

// TestCase is one kernel to verify and benchmark.
type TestCase struct {
	// Name identifies the kernel in results and determines its argument
	// types (see ParseSignature).
	Name       string
	Descriptor Descriptor
	Entry      Dispatcher
	Params     Params
	// PuppetMaster, when set, names a registered kernel whose descriptor
	// and dispatcher run this case. Results stay under Name.
	PuppetMaster string
}

// KernelCase builds a TestCase from a Kernel.
func KernelCase(k Kernel, p Params) TestCase {
	return TestCase{Name: k.Name(), Descriptor: k.Descriptor(), Entry: k, Params: p}
}

// PuppetCase builds a TestCase for puppet name routed through master.
func PuppetCase(name, master string, p Params) TestCase {
	return TestCase{Name: name, Params: p, PuppetMaster: master}
}

// IsPuppet reports whether the case runs through another kernel.
func (tc TestCase) IsPuppet() bool {
	return tc.PuppetMaster != ""
}
