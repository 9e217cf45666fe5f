package dot

// Dot computes the dot product of two float32 slices.
// The result is the sum of element-wise products: Σ(a[i] * b[i]).
// It is the kernel's u_unroll8 implementation.
//
// If the slices have different lengths, the computation uses the minimum length.
// Returns 0 if either slice is empty.
//
// Example:
//
//	a := []float32{1, 2, 3}
//	b := []float32{4, 5, 6}
//	result := Dot(a, b)  // 1*4 + 2*5 + 3*6 = 32
func Dot(a, b []float32) float32 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := min(len(a), len(b))
	return dotUnroll8(a[:n], b[:n])
}
