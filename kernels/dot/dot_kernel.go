package dot

import (
	"github.com/ajroetker/kernelqa/qa"
)

// Name is the kernel name: two 32f inputs, one 32f output.
const Name = "32f_x2_dot_prod_32f"

// Kernel is the dot product kernel.
var Kernel = qa.NewKernel(Name, qa.Descriptor{Implementations: append([]qa.Implementation{
	{Name: qa.ReferenceName},
	{Name: "u_unroll8"},
	{Name: "u_vek"},
}, simdImplementations...)}, dispatch)

func dispatch(c *qa.Call) error {
	if err := c.Check(1, 2); err != nil {
		return err
	}
	out := qa.View[float32](c.Out[0])
	a := qa.View[float32](c.In[0])[:c.N]
	b := qa.View[float32](c.In[1])[:c.N]

	switch c.Impl {
	case qa.ReferenceName:
		out[0] = dotGeneric(a, b)
	case "u_unroll8":
		out[0] = Dot(a, b)
	case "u_vek":
		out[0] = dotVek(a, b)
	default:
		r, ok := dotSIMD(c.Impl, a, b)
		if !ok {
			return c.UnknownImpl()
		}
		out[0] = r
	}
	return nil
}
