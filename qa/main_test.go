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
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/ajroetker/kernelqa/capability"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClock advances only when a synthetic kernel charges it, so elapsed
// times are iterations times the per-call cost of an implementation.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) charge(d time.Duration) { c.now = c.now.Add(d) }

// hostCaps is a snapshot with every x86 feature a synthetic kernel asks for
// except AVX-512.
var hostCaps = capability.NewSnapshot("amd64", capability.SSE2|capability.AVX|capability.AVX2|capability.FMA)

const (
	cmulName = "32fc_x2_multiply_32fc"
	conjName = "32fc_x2_multiply_conjugate_32fc"
	addName  = "16i_x2_add_16i"
)

// cmulKernel is a complex multiply with a correct unrolled variant, a
// variant that corrupts element 3, an aligned-only variant and one that needs
// AVX-512. It also serves conjName when used as a puppet master.
type cmulKernel struct {
	clock *fakeClock
	cost  map[string]time.Duration
	seen  []string
}

func newCmulKernel(clock *fakeClock) *cmulKernel {
	return &cmulKernel{
		clock: clock,
		cost: map[string]time.Duration{
			"generic":   10 * time.Microsecond,
			"u_fast":    2 * time.Microsecond,
			"u_buggy":   1 * time.Microsecond,
			"a_aligned": 3 * time.Microsecond,
			"u_avx512":  1 * time.Microsecond,
		},
	}
}

func (k *cmulKernel) Name() string { return cmulName }

func (k *cmulKernel) Descriptor() Descriptor {
	return Descriptor{Implementations: []Implementation{
		{Name: "generic"},
		{Name: "u_fast", Requires: capability.AVX2},
		{Name: "u_buggy", Requires: capability.AVX2},
		{Name: "a_aligned", Requires: capability.AVX2, Aligned: true},
		{Name: "u_avx512", Requires: capability.AVX512F},
	}}
}

func (k *cmulKernel) Dispatch(c *Call) error {
	if err := c.Check(1, 2); err != nil {
		return err
	}
	if _, ok := k.cost[c.Impl]; !ok {
		return c.UnknownImpl()
	}
	k.seen = append(k.seen, c.Kernel)
	if k.clock != nil {
		k.clock.charge(k.cost[c.Impl])
	}
	out := View[complex64](c.Out[0])[:c.N]
	a := View[complex64](c.In[0])[:c.N]
	b := View[complex64](c.In[1])[:c.N]
	conj := c.Kernel == conjName

	switch c.Impl {
	case "generic", "a_aligned", "u_avx512":
		for i := range out {
			y := b[i]
			if conj {
				y = complex(real(y), -imag(y))
			}
			out[i] = a[i] * y
		}
	case "u_fast", "u_buggy":
		i := 0
		for ; i+2 <= len(out); i += 2 {
			out[i] = mulc(a[i], b[i], conj)
			out[i+1] = mulc(a[i+1], b[i+1], conj)
		}
		for ; i < len(out); i++ {
			out[i] = mulc(a[i], b[i], conj)
		}
		if c.Impl == "u_buggy" && len(out) > 3 {
			out[3] += 1
		}
	}
	return nil
}

func mulc(x, y complex64, conj bool) complex64 {
	xr, xi, yr, yi := real(x), imag(x), real(y), imag(y)
	if conj {
		yi = -yi
	}
	return complex(xr*yr-xi*yi, xr*yi+xi*yr)
}

// addKernel is an exact int16 add whose u_blocks variant handles the
// remainder of n%4 wrongly.
func addKernel() Kernel {
	desc := Descriptor{Implementations: []Implementation{
		{Name: "generic"},
		{Name: "u_unroll4"},
		{Name: "u_blocks"},
	}}
	return NewKernel(addName, desc, func(c *Call) error {
		if err := c.Check(1, 2); err != nil {
			return err
		}
		out := View[int16](c.Out[0])[:c.N]
		a := View[int16](c.In[0])[:c.N]
		b := View[int16](c.In[1])[:c.N]
		switch c.Impl {
		case "generic":
			for i := range out {
				out[i] = a[i] + b[i]
			}
		case "u_unroll4", "u_blocks":
			i := 0
			for ; i+4 <= len(out); i += 4 {
				out[i] = a[i] + b[i]
				out[i+1] = a[i+1] + b[i+1]
				out[i+2] = a[i+2] + b[i+2]
				out[i+3] = a[i+3] + b[i+3]
			}
			for ; i < len(out); i++ {
				out[i] = a[i] + b[i]
				if c.Impl == "u_blocks" {
					out[i]++
				}
			}
		default:
			return c.UnknownImpl()
		}
		return nil
	})
}

func testParams(vlen int) Params {
	p := DefaultParams()
	p.VectorLength = vlen
	p.Iterations = 5
	return p
}
