package add

import (
	"fmt"
	"math"
	"testing"

	"github.com/ajroetker/kernelqa/capability"
	"github.com/ajroetker/kernelqa/qa"
)

func TestAdd(t *testing.T) {
	dst := make([]int32, 3)
	Add(dst, []int32{1, math.MaxInt32, -4}, []int32{2, 1, 4, 9})
	want := []int32{3, math.MinInt32, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("Add[%d] = %d, want %d", i, dst[i], want[i])
		}
	}

	f := make([]float32, 2)
	Add(f, []float32{0.5, -1}, []float32{0.25, 1})
	if f[0] != 0.75 || f[1] != 0 {
		t.Errorf("Add float32 = %v", f)
	}
}

func TestHarness(t *testing.T) {
	h := qa.New(capability.Host())
	for _, k := range []qa.Kernel{Int32, Float32} {
		for _, vlen := range []int{1, 2, 3, 4, 5, 13, 4096} {
			t.Run(fmt.Sprintf("%s/%d", k.Name(), vlen), func(t *testing.T) {
				p := qa.DefaultParams()
				p.VectorLength = vlen
				p.Iterations = 1
				p.Tolerance = 0

				var sink qa.Collector
				pass, err := h.Run(qa.KernelCase(k, p), &sink)
				if err != nil {
					t.Fatal(err)
				}
				if !pass {
					res, _ := sink.Lookup(k.Name())
					t.Errorf("failures: %v", res.Failures)
				}
			})
		}
	}
}
