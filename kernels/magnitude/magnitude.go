// Package magnitude computes |z| for complex64 vectors.
package magnitude

import (
	"math"
	"sync"

	"github.com/viterin/vek/vek32"

	"github.com/ajroetker/kernelqa/qa"
)

// Name is the kernel name: one 32fc input, one 32f output.
const Name = "32fc_magnitude_32f"

// Kernel is the magnitude kernel.
var Kernel = qa.NewKernel(Name, qa.Descriptor{Implementations: []qa.Implementation{
	{Name: qa.ReferenceName},
	{Name: "u_unroll4"},
	{Name: "u_vek"},
}}, dispatch)

// Magnitude computes dst[i] = sqrt(re(src[i])^2 + im(src[i])^2).
func Magnitude(dst []float32, src []complex64) {
	n := min(len(dst), len(src))
	magnitudeGeneric(dst[:n], src[:n])
}

func dispatch(c *qa.Call) error {
	if err := c.Check(1, 1); err != nil {
		return err
	}
	dst := qa.View[float32](c.Out[0])[:c.N]
	src := qa.View[complex64](c.In[0])[:c.N]

	switch c.Impl {
	case qa.ReferenceName:
		magnitudeGeneric(dst, src)
	case "u_unroll4":
		magnitudeUnroll4(dst, src)
	case "u_vek":
		magnitudeVek(dst, qa.View[float32](c.In[0])[:2*c.N])
	default:
		return c.UnknownImpl()
	}
	return nil
}

func magnitudeGeneric(dst []float32, src []complex64) {
	for i, z := range src {
		re, im := real(z), imag(z)
		dst[i] = float32(math.Sqrt(float64(re*re + im*im)))
	}
}

func magnitudeUnroll4(dst []float32, src []complex64) {
	n := len(src)
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 := real(src[i])*real(src[i]) + imag(src[i])*imag(src[i])
		s1 := real(src[i+1])*real(src[i+1]) + imag(src[i+1])*imag(src[i+1])
		s2 := real(src[i+2])*real(src[i+2]) + imag(src[i+2])*imag(src[i+2])
		s3 := real(src[i+3])*real(src[i+3]) + imag(src[i+3])*imag(src[i+3])
		dst[i] = float32(math.Sqrt(float64(s0)))
		dst[i+1] = float32(math.Sqrt(float64(s1)))
		dst[i+2] = float32(math.Sqrt(float64(s2)))
		dst[i+3] = float32(math.Sqrt(float64(s3)))
	}
	for ; i < n; i++ {
		re, im := real(src[i]), imag(src[i])
		dst[i] = float32(math.Sqrt(float64(re*re + im*im)))
	}
}

var squares = sync.Pool{New: func() any { return new([]float32) }}

// magnitudeVek squares the interleaved components with vek, folds the
// pairs and takes the square root in place. parts holds 2*len(dst) values.
func magnitudeVek(dst, parts []float32) {
	if len(dst) == 0 {
		return
	}
	sp := squares.Get().(*[]float32)
	defer squares.Put(sp)
	if cap(*sp) < len(parts) {
		*sp = make([]float32, len(parts))
	}
	sq := (*sp)[:len(parts)]

	vek32.Mul_Into(sq, parts, parts)
	for i := range dst {
		dst[i] = sq[2*i] + sq[2*i+1]
	}
	vek32.Sqrt_Inplace(dst)
}
