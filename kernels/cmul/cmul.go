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

// Package cmul provides element-wise complex multiplication of complex64
// vectors, optionally conjugating the second operand.
//
// The conjugate form has no dispatcher of its own: it runs through Kernel
// when a call names ConjugateName, which is how the profiler exercises it as
// a puppet of Name.
package cmul

import (
	"fmt"

	"github.com/ajroetker/kernelqa/capability"
	"github.com/ajroetker/kernelqa/qa"
)

const (
	// Name is the kernel name: two 32fc inputs, one 32fc output.
	Name = "32fc_x2_multiply_32fc"
	// ConjugateName selects dst = a * conj(b).
	ConjugateName = "32fc_x2_multiply_conjugate_32fc"
)

// Kernel is the complex multiply kernel.
var Kernel = qa.NewKernel(Name, qa.Descriptor{Implementations: []qa.Implementation{
	{Name: qa.ReferenceName},
	{Name: "u_unroll4"},
	{Name: "a_unroll4", Aligned: true},
}}, dispatch)

// Multiply computes dst[i] = a[i] * b[i] over the shortest of the three
// slices.
func Multiply(dst, a, b []complex64) {
	n := min(len(dst), len(a), len(b))
	multiplyGeneric(dst[:n], a[:n], b[:n], false)
}

// MultiplyConjugate computes dst[i] = a[i] * conj(b[i]).
func MultiplyConjugate(dst, a, b []complex64) {
	n := min(len(dst), len(a), len(b))
	multiplyGeneric(dst[:n], a[:n], b[:n], true)
}

func dispatch(c *qa.Call) error {
	if err := c.Check(1, 2); err != nil {
		return err
	}
	var conj bool
	switch c.Kernel {
	case Name:
	case ConjugateName:
		conj = true
	default:
		return fmt.Errorf("%w: %s cannot serve %s", qa.ErrUnknownKernel, Name, c.Kernel)
	}

	dst := qa.View[complex64](c.Out[0])[:c.N]
	a := qa.View[complex64](c.In[0])[:c.N]
	b := qa.View[complex64](c.In[1])[:c.N]

	switch c.Impl {
	case qa.ReferenceName:
		multiplyGeneric(dst, a, b, conj)
	case "u_unroll4":
		multiplyUnroll4(dst, a, b, conj)
	case "a_unroll4":
		for _, buf := range c.All() {
			if !buf.AlignedTo(capability.MaxAlignment) {
				return fmt.Errorf("%w: %s/a_unroll4 got a misaligned buffer", qa.ErrInvalidParams, c.Kernel)
			}
		}
		multiplyUnroll4(dst, a, b, conj)
	default:
		return c.UnknownImpl()
	}
	return nil
}

func multiplyGeneric(dst, a, b []complex64, conj bool) {
	if conj {
		for i := range dst {
			y := b[i]
			dst[i] = a[i] * complex(real(y), -imag(y))
		}
		return
	}
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}

// multiplyUnroll4 works on the real and imaginary parts directly, four
// elements per iteration.
func multiplyUnroll4(dst, a, b []complex64, conj bool) {
	n := len(dst)
	sign := float32(1)
	if conj {
		sign = -1
	}
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] = mul(a[i], b[i], sign)
		dst[i+1] = mul(a[i+1], b[i+1], sign)
		dst[i+2] = mul(a[i+2], b[i+2], sign)
		dst[i+3] = mul(a[i+3], b[i+3], sign)
	}
	for ; i < n; i++ {
		dst[i] = mul(a[i], b[i], sign)
	}
}

func mul(x, y complex64, sign float32) complex64 {
	xr, xi := real(x), imag(x)
	yr, yi := real(y), sign*imag(y)
	return complex(xr*yr-xi*yi, xr*yi+xi*yr)
}
