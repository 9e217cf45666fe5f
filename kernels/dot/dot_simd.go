//go:build amd64 && goexperiment.simd

package dot

import (
	"github.com/ajroetker/kernelqa/capability"
	"github.com/ajroetker/kernelqa/qa"
)

var simdImplementations = []qa.Implementation{
	{Name: "a_avx2", Requires: capability.AVX2, Aligned: true},
	{Name: "u_avx2", Requires: capability.AVX2},
	{Name: "a_avx512", Requires: capability.AVX512F, Aligned: true},
	{Name: "u_avx512", Requires: capability.AVX512F},
}

// dotSIMD runs one of the archsimd variants. The harness has already
// checked the CPU features.
func dotSIMD(impl string, a, b []float32) (float32, bool) {
	switch impl {
	case "a_avx2", "u_avx2":
		return dotAVX2(a, b), true
	case "a_avx512", "u_avx512":
		return dotAVX512(a, b), true
	}
	return 0, false
}
