//go:build amd64 && goexperiment.simd

package dot

import (
	"simd/archsimd"
)

// dotAVX512 computes the dot product of two float32 vectors using AVX-512,
// 16 elements at a time.
func dotAVX512(a, b []float32) float32 {
	n := min(len(a), len(b))
	sum := archsimd.BroadcastFloat32x16(0.0)

	for i := 0; i+16 <= n; i += 16 {
		va := archsimd.LoadFloat32x16Slice(a[i:])
		vb := archsimd.LoadFloat32x16Slice(b[i:])
		sum = sum.Add(va.Mul(vb))
	}

	var lanes [16]float32
	sum.StoreSlice(lanes[:])
	var result float32
	for _, l := range lanes {
		result += l
	}

	for i := (n / 16) * 16; i < n; i++ {
		result += a[i] * b[i]
	}
	return result
}
