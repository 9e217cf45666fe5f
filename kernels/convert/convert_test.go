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

package convert

import (
	"fmt"
	"math"
	"testing"

	"github.com/ajroetker/kernelqa/capability"
	"github.com/ajroetker/kernelqa/qa"
)

func TestFloat32ToInt16(t *testing.T) {
	src := []float32{0, 0.5, -0.5, 1.5, 2.5, 1, -1, 0.25, float32(math.NaN())}
	dst := make([]int16, len(src))
	Float32ToInt16(dst, src, 32768)

	want := []int16{0, 16384, -16384, math.MaxInt16, math.MaxInt16, math.MaxInt16, math.MinInt16, 8192, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("Float32ToInt16(%v) = %d, want %d", src[i], dst[i], want[i])
		}
	}

	Float32ToInt16(dst[:3], []float32{0.5, 1.5, 2.5}, 1)
	if dst[0] != 0 || dst[1] != 2 || dst[2] != 2 {
		t.Errorf("round half to even: got %v", dst[:3])
	}
}

func TestInt16ToFloat32(t *testing.T) {
	src := []int16{0, 16384, math.MinInt16, math.MaxInt16}
	dst := make([]float32, len(src))
	Int16ToFloat32(dst, src, 32768)

	want := []float32{0, 0.5, -1, float32(math.MaxInt16) / 32768}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("Int16ToFloat32(%d) = %v, want %v", src[i], dst[i], want[i])
		}
	}
}

// The round trip through both kernels is exact for power-of-two scales.
func TestRoundTrip(t *testing.T) {
	src := make([]int16, 1<<16)
	for i := range src {
		src[i] = int16(i - 1<<15)
	}
	f := make([]float32, len(src))
	back := make([]int16, len(src))
	toFloat32Unroll4(f, src, 32768)
	toInt16Unroll4(back, f, 32768)
	for i := range src {
		if back[i] != src[i] {
			t.Fatalf("round trip of %d gave %d", src[i], back[i])
		}
	}
}

func TestHarnessSmallSizes(t *testing.T) {
	h := qa.New(capability.Host())
	for _, k := range []qa.Kernel{ToInt16, ToFloat32} {
		for nsamps := 1; nsamps < 16; nsamps++ {
			t.Run(fmt.Sprintf("%s/%d", k.Name(), nsamps), func(t *testing.T) {
				p := qa.DefaultParams()
				p.VectorLength = nsamps
				p.Iterations = 1
				p.Tolerance = 0
				p.Scalar = 32768

				pass, err := h.Run(qa.KernelCase(k, p), nil)
				if err != nil {
					t.Fatal(err)
				}
				if !pass {
					t.Error("variants disagree")
				}
			})
		}
	}
}

func TestHarnessExtraDivisor(t *testing.T) {
	p := qa.DefaultParams()
	p.VectorLength = 4099
	p.Iterations = 1
	p.Scalar = 32767
	p.ExtraDivisor = 2

	var sink qa.Collector
	pass, err := qa.New(capability.Host()).Run(qa.KernelCase(ToInt16, p), &sink)
	if err != nil {
		t.Fatal(err)
	}
	if !pass {
		res, _ := sink.Lookup(ToInt16Name)
		t.Errorf("failures: %v", res.Failures)
	}
}
