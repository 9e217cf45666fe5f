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
	"bytes"
	"fmt"
	"math"
)

// Comparator judges a candidate buffer against the reference buffer.
type Comparator interface {
	// Compare checks the first n elements. It returns a *MismatchError for
	// the first differing element, or nil.
	Compare(want, got *Buffer, n int) error
}

// ComparatorFor picks the comparison rule for td:
//   - integers are compared exactly;
//   - floats pass when |want-got| <= tol for every real component, so
//     complex values are checked on their real and imaginary parts
//     independently.
func ComparatorFor(td TypeDescriptor, tol float64) Comparator {
	if td.Float {
		return toleranceComparator{tol: tol}
	}
	return exactComparator{}
}

type exactComparator struct{}

func (exactComparator) Compare(want, got *Buffer, n int) error {
	if err := checkComparable(want, got, n); err != nil {
		return err
	}
	es := want.Type.ElementSize()
	w, g := want.data[:n*es], got.data[:n*es]
	if bytes.Equal(w, g) {
		return nil
	}
	comps := want.Type.Components()
	for i := range n * comps {
		if wv, gv := want.component(i), got.component(i); wv != gv {
			return &MismatchError{Index: i / comps, Component: i % comps, Want: wv, Got: gv}
		}
	}
	// Unreachable unless the components compare equal as float64 while
	// their bytes differ (64-bit integers beyond 2^53).
	for i := range w {
		if w[i] != g[i] {
			idx := i / es
			return &MismatchError{Index: idx, Component: (i % es) / want.Type.Size}
		}
	}
	return nil
}

type toleranceComparator struct {
	tol float64
}

func (c toleranceComparator) Compare(want, got *Buffer, n int) error {
	if err := checkComparable(want, got, n); err != nil {
		return err
	}
	comps := want.Type.Components()
	for i := range n * comps {
		wv, gv := want.component(i), got.component(i)
		if withinTolerance(wv, gv, c.tol) {
			continue
		}
		return &MismatchError{Index: i / comps, Component: i % comps, Want: wv, Got: gv, Tolerance: c.tol}
	}
	return nil
}

// withinTolerance treats matching NaNs and matching infinities as equal.
func withinTolerance(want, got, tol float64) bool {
	if want == got {
		return true
	}
	if math.IsNaN(want) || math.IsNaN(got) {
		return math.IsNaN(want) && math.IsNaN(got)
	}
	return math.Abs(want-got) <= tol
}

func checkComparable(want, got *Buffer, n int) error {
	if want.Type.Tag != got.Type.Tag {
		return fmt.Errorf("%w: comparing %s with %s", ErrInvalidParams, want.Type.Tag, got.Type.Tag)
	}
	if want.Len < n || got.Len < n {
		return fmt.Errorf("%w: comparing %d elements of buffers with %d and %d", ErrInvalidParams, n, want.Len, got.Len)
	}
	return nil
}

// compareSets compares every output and input buffer of got against want.
// Inputs are included so in-place kernels are checked too.
func compareSets(want, got *BufferSet, n int, tol float64) error {
	for i := range want.Out {
		if err := ComparatorFor(want.Out[i].Type, tol).Compare(want.Out[i], got.Out[i], n); err != nil {
			return fmt.Errorf("output %d: %w", i, err)
		}
	}
	for i := range want.In {
		if err := ComparatorFor(want.In[i].Type, tol).Compare(want.In[i], got.In[i], n); err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
	}
	return nil
}
