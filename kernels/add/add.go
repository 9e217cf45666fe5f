// Package add provides element-wise addition kernels for int32 and float32
// vectors.
package add

import (
	"github.com/viterin/vek/vek32"

	"github.com/ajroetker/kernelqa/qa"
)

const (
	// Int32Name is the integer kernel: two 32i inputs, one 32i output.
	Int32Name = "32i_x2_add_32i"
	// Float32Name is the float kernel: two 32f inputs, one 32f output.
	Float32Name = "32f_x2_add_32f"
)

// Int32 adds int32 vectors. Overflow wraps.
var Int32 = qa.NewKernel(Int32Name, qa.Descriptor{Implementations: []qa.Implementation{
	{Name: qa.ReferenceName},
	{Name: "u_unroll4"},
}}, func(c *qa.Call) error {
	if err := c.Check(1, 2); err != nil {
		return err
	}
	dst := qa.View[int32](c.Out[0])[:c.N]
	a := qa.View[int32](c.In[0])[:c.N]
	b := qa.View[int32](c.In[1])[:c.N]

	switch c.Impl {
	case qa.ReferenceName:
		addGeneric(dst, a, b)
	case "u_unroll4":
		addUnroll4(dst, a, b)
	default:
		return c.UnknownImpl()
	}
	return nil
})

// Float32 adds float32 vectors.
var Float32 = qa.NewKernel(Float32Name, qa.Descriptor{Implementations: []qa.Implementation{
	{Name: qa.ReferenceName},
	{Name: "u_unroll4"},
	{Name: "u_vek"},
}}, func(c *qa.Call) error {
	if err := c.Check(1, 2); err != nil {
		return err
	}
	dst := qa.View[float32](c.Out[0])[:c.N]
	a := qa.View[float32](c.In[0])[:c.N]
	b := qa.View[float32](c.In[1])[:c.N]

	switch c.Impl {
	case qa.ReferenceName:
		addGeneric(dst, a, b)
	case "u_unroll4":
		addUnroll4(dst, a, b)
	case "u_vek":
		vek32.Add_Into(dst, a, b)
	default:
		return c.UnknownImpl()
	}
	return nil
})

type number interface {
	~int32 | ~float32
}

// Add computes dst[i] = a[i] + b[i] over the shortest of the three slices.
func Add[T number](dst, a, b []T) {
	n := min(len(dst), len(a), len(b))
	addGeneric(dst[:n], a[:n], b[:n])
}

func addGeneric[T number](dst, a, b []T) {
	for i := range dst {
		dst[i] = a[i] + b[i]
	}
}

func addUnroll4[T number](dst, a, b []T) {
	n := len(dst)
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] = a[i] + b[i]
		dst[i+1] = a[i+1] + b[i+1]
		dst[i+2] = a[i+2] + b[i+2]
		dst[i+3] = a[i+3] + b[i+3]
	}
	for ; i < n; i++ {
		dst[i] = a[i] + b[i]
	}
}
