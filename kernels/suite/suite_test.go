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

package suite

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/ajroetker/kernelqa/capability"
	"github.com/ajroetker/kernelqa/kernels/cmul"
	"github.com/ajroetker/kernelqa/kernels/dot"
	"github.com/ajroetker/kernelqa/qa"
)

func smallParams() qa.Params {
	p := qa.DefaultParams()
	p.VectorLength = 4099
	p.Iterations = 2
	return p
}

func TestCasesCoverRegistry(t *testing.T) {
	reg := Registry()
	for _, tc := range Cases(smallParams()) {
		if tc.IsPuppet() {
			if _, err := reg.Lookup(tc.PuppetMaster); err != nil {
				t.Errorf("%s: master: %v", tc.Name, err)
			}
			continue
		}
		k, err := reg.Lookup(tc.Name)
		if err != nil {
			t.Fatal(err)
		}
		if k.Name() != tc.Name {
			t.Errorf("registry returned %s for %s", k.Name(), tc.Name)
		}
		if _, err := qa.ParseSignature(tc.Name); err != nil {
			t.Errorf("%s: %v", tc.Name, err)
		}
	}
	if got, want := len(Names()), len(Kernels())+1; got != want {
		t.Errorf("len(Names()) = %d, want %d", got, want)
	}
}

func TestCasesAdjustParams(t *testing.T) {
	cases := Cases(smallParams())
	byName := make(map[string]qa.TestCase, len(cases))
	for _, tc := range cases {
		byName[tc.Name] = tc
	}
	if got, want := byName[dot.Name].Params.Tolerance, DotTolerance(4099); math.Abs(got-want) > 1e-12 {
		t.Errorf("dot tolerance = %v, want %v", got, want)
	}
	if got := byName[cmul.Name].Params.Tolerance; got != 1e-6 {
		t.Errorf("cmul tolerance = %v, want 1e-6", got)
	}
	if got := byName[cmul.ConjugateName].PuppetMaster; got != cmul.Name {
		t.Errorf("conjugate master = %q, want %q", got, cmul.Name)
	}
}

func TestSelect(t *testing.T) {
	cases := Cases(smallParams())
	all, err := Select(cases, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(cases) {
		t.Errorf("empty pattern kept %d of %d cases", len(all), len(cases))
	}

	some, err := Select(cases, "^32fc_")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{cmul.Name, cmul.ConjugateName, "32fc_magnitude_32f"}
	if got := caseNames(some); !slices.Equal(got, want) {
		t.Errorf("Select(^32fc_) = %v, want %v", got, want)
	}

	if _, err := Select(cases, "["); !errors.Is(err, qa.ErrInvalidParams) {
		t.Errorf("Select([) error = %v, want ErrInvalidParams", err)
	}
}

func caseNames(cases []qa.TestCase) []string {
	out := make([]string, len(cases))
	for i, tc := range cases {
		out[i] = tc.Name
	}
	return out
}

func TestSuitePasses(t *testing.T) {
	h := qa.New(capability.Host(), qa.WithRegistry(Registry()))
	var sink qa.Collector
	br := h.RunBatch(Cases(smallParams()), &sink)
	for _, o := range br.Failures() {
		t.Errorf("%s failed: %v %v", o.Name, o.Failed, o.Err)
	}
	if got, want := sink.Len(), len(Names()); got != want {
		t.Errorf("collected %d results, want %d", got, want)
	}

	for _, res := range sink.Results() {
		if _, ok := res.BestAligned.Get(); !ok {
			t.Errorf("%s has no aligned winner", res.Kernel)
		}
	}
}

func TestSuitePassesWithoutSIMD(t *testing.T) {
	h := qa.New(capability.Host().Scalar(), qa.WithRegistry(Registry()))
	br := h.RunBatch(Cases(smallParams()), nil)
	for _, o := range br.Failures() {
		t.Errorf("%s failed without SIMD: %v %v", o.Name, o.Failed, o.Err)
	}
}
