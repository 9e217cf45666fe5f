// Package dot provides float32 dot products and the dot product kernel.
//
// Dot is the portable entry point for callers outside the harness.
//
// # Kernel
//
// Kernel computes the dot product of its two 32f inputs and stores it in
// element 0 of its 32f output. Its implementations are:
//   - generic: a single running sum
//   - u_unroll8: eight independent accumulators (Dot)
//   - u_vek: github.com/viterin/vek, which uses AVX2 or NEON when present
//   - a_avx2, u_avx2: simd/archsimd, 8 lanes (requires AVX2)
//   - a_avx512, u_avx512: simd/archsimd, 16 lanes (requires AVX-512F)
//
// The variants reassociate the sum, so they agree with generic only to within
// a tolerance that grows with the vector length.
//
// # Build Requirements
//
// The archsimd variants require:
//   - GOEXPERIMENT=simd build flag
//   - AMD64 architecture
//
// Without them the descriptor lists only the portable variants.
package dot
