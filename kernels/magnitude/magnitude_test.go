package magnitude

import (
	"fmt"
	"math"
	"testing"

	"github.com/ajroetker/kernelqa/capability"
	"github.com/ajroetker/kernelqa/qa"
)

func TestMagnitude(t *testing.T) {
	src := []complex64{3 + 4i, -5 - 12i, 0, 1i}
	dst := make([]float32, len(src))
	Magnitude(dst, src)

	want := []float32{5, 13, 0, 1}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("Magnitude[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestVariants(t *testing.T) {
	for _, n := range []int{0, 1, 4, 5, 9, 33} {
		src := make([]complex64, n)
		for i := range src {
			src[i] = complex(float32(i)*0.3-2, float32(n-i)*0.7)
		}
		parts := make([]float32, 2*n)
		for i, z := range src {
			parts[2*i], parts[2*i+1] = real(z), imag(z)
		}

		want := make([]float32, n)
		magnitudeGeneric(want, src)

		unrolled := make([]float32, n)
		magnitudeUnroll4(unrolled, src)
		vek := make([]float32, n)
		magnitudeVek(vek, parts)

		for i := range want {
			if math.Abs(float64(unrolled[i]-want[i])) > 1e-6*float64(want[i]+1) {
				t.Errorf("n=%d unroll4[%d] = %v, want %v", n, i, unrolled[i], want[i])
			}
			if math.Abs(float64(vek[i]-want[i])) > 1e-6*float64(want[i]+1) {
				t.Errorf("n=%d vek[%d] = %v, want %v", n, i, vek[i], want[i])
			}
		}
	}
}

func TestHarness(t *testing.T) {
	h := qa.New(capability.Host())
	for _, vlen := range []int{1, 3, 4, 31, 1024} {
		t.Run(fmt.Sprint(vlen), func(t *testing.T) {
			p := qa.DefaultParams()
			p.VectorLength = vlen
			p.Iterations = 2

			var sink qa.Collector
			pass, err := h.Run(qa.KernelCase(Kernel, p), &sink)
			if err != nil {
				t.Fatal(err)
			}
			res, _ := sink.Lookup(Name)
			if !pass {
				t.Errorf("failures: %v", res.Failures)
			}
			if got := len(res.Aligned); got != 3 {
				t.Errorf("timed %d aligned variants, want 3", got)
			}
		})
	}
}
