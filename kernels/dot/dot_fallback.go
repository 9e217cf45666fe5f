//go:build !amd64 || !goexperiment.simd

package dot

import "github.com/ajroetker/kernelqa/qa"

// simdImplementations is empty without archsimd.
var simdImplementations []qa.Implementation

func dotSIMD(string, []float32, []float32) (float32, bool) {
	return 0, false
}
