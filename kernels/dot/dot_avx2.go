//go:build amd64 && goexperiment.simd

package dot

import (
	"simd/archsimd"
)

// dotAVX2 computes the dot product of two float32 vectors using AVX2,
// 8 elements at a time.
func dotAVX2(a, b []float32) float32 {
	n := min(len(a), len(b))
	sum := archsimd.BroadcastFloat32x8(0.0)

	for i := 0; i+8 <= n; i += 8 {
		va := archsimd.LoadFloat32x8Slice(a[i:])
		vb := archsimd.LoadFloat32x8Slice(b[i:])
		sum = sum.Add(va.Mul(vb))
	}

	var lanes [8]float32
	sum.StoreSlice(lanes[:])
	result := (lanes[0] + lanes[1]) + (lanes[2] + lanes[3]) + (lanes[4] + lanes[5]) + (lanes[6] + lanes[7])

	// Tail
	for i := (n / 8) * 8; i < n; i++ {
		result += a[i] * b[i]
	}
	return result
}
