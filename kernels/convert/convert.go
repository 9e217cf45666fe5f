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

// Package convert provides scaled conversions between float32 and int16
// sample vectors.
//
// Float to int conversion multiplies by the scalar, rounds half to even and
// saturates to the int16 range. Int to float conversion divides by the
// scalar.
package convert

import (
	"math"

	"github.com/ajroetker/kernelqa/qa"
)

const (
	// ToInt16Name converts 32f to 16i with a real scalar.
	ToInt16Name = "32f_s32f_convert_16i"
	// ToFloat32Name converts 16i to 32f with a real scalar.
	ToFloat32Name = "16i_s32f_convert_32f"
)

var variants = qa.Descriptor{Implementations: []qa.Implementation{
	{Name: qa.ReferenceName},
	{Name: "u_unroll4"},
}}

// ToInt16 is the float to int16 conversion kernel.
var ToInt16 = qa.NewKernel(ToInt16Name, variants, func(c *qa.Call) error {
	if err := c.Check(1, 1); err != nil {
		return err
	}
	dst := qa.View[int16](c.Out[0])[:c.N]
	src := qa.View[float32](c.In[0])[:c.N]
	scale := real(c.Scalar)

	switch c.Impl {
	case qa.ReferenceName:
		toInt16Generic(dst, src, scale)
	case "u_unroll4":
		toInt16Unroll4(dst, src, scale)
	default:
		return c.UnknownImpl()
	}
	return nil
})

// ToFloat32 is the int16 to float conversion kernel.
var ToFloat32 = qa.NewKernel(ToFloat32Name, variants, func(c *qa.Call) error {
	if err := c.Check(1, 1); err != nil {
		return err
	}
	dst := qa.View[float32](c.Out[0])[:c.N]
	src := qa.View[int16](c.In[0])[:c.N]
	scale := real(c.Scalar)

	switch c.Impl {
	case qa.ReferenceName:
		toFloat32Generic(dst, src, scale)
	case "u_unroll4":
		toFloat32Unroll4(dst, src, scale)
	default:
		return c.UnknownImpl()
	}
	return nil
})

// Float32ToInt16 computes dst[i] = saturate(round(src[i] * scale)).
func Float32ToInt16(dst []int16, src []float32, scale float32) {
	n := min(len(dst), len(src))
	toInt16Generic(dst[:n], src[:n], scale)
}

// Int16ToFloat32 computes dst[i] = src[i] / scale.
func Int16ToFloat32(dst []float32, src []int16, scale float32) {
	n := min(len(dst), len(src))
	toFloat32Generic(dst[:n], src[:n], scale)
}

func saturate(v float32) int16 {
	r := math.RoundToEven(float64(v))
	switch {
	case math.IsNaN(r):
		return 0
	case r > math.MaxInt16:
		return math.MaxInt16
	case r < math.MinInt16:
		return math.MinInt16
	}
	return int16(r)
}

func toInt16Generic(dst []int16, src []float32, scale float32) {
	for i, v := range src {
		dst[i] = saturate(v * scale)
	}
}

func toInt16Unroll4(dst []int16, src []float32, scale float32) {
	n := len(src)
	i := 0
	for ; i+4 <= n; i += 4 {
		v0, v1, v2, v3 := src[i]*scale, src[i+1]*scale, src[i+2]*scale, src[i+3]*scale
		dst[i] = saturate(v0)
		dst[i+1] = saturate(v1)
		dst[i+2] = saturate(v2)
		dst[i+3] = saturate(v3)
	}
	for ; i < n; i++ {
		dst[i] = saturate(src[i] * scale)
	}
}

func toFloat32Generic(dst []float32, src []int16, scale float32) {
	for i, v := range src {
		dst[i] = float32(v) / scale
	}
}

// toFloat32Unroll4 multiplies by the reciprocal, so results may differ from
// the generic division in the last bit.
func toFloat32Unroll4(dst []float32, src []int16, scale float32) {
	inv := 1 / scale
	n := len(src)
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] = float32(src[i]) * inv
		dst[i+1] = float32(src[i+1]) * inv
		dst[i+2] = float32(src[i+2]) * inv
		dst[i+3] = float32(src[i+3]) * inv
	}
	for ; i < n; i++ {
		dst[i] = float32(src[i]) * inv
	}
}
