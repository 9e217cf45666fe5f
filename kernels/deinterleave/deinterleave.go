// Package deinterleave splits interleaved complex int8 samples into
// separate in-phase and quadrature int16 vectors.
package deinterleave

import "github.com/ajroetker/kernelqa/qa"

// Name is the kernel name: one 8ic input, two 16i outputs.
const Name = "8ic_deinterleave_16i_x2"

// Kernel is the deinterleave kernel. Each component is widened and scaled
// by 256 so the int8 range maps onto the int16 range.
var Kernel = qa.NewKernel(Name, qa.Descriptor{Implementations: []qa.Implementation{
	{Name: qa.ReferenceName},
	{Name: "u_unroll4"},
}}, func(c *qa.Call) error {
	if err := c.Check(2, 1); err != nil {
		return err
	}
	iOut := qa.View[int16](c.Out[0])[:c.N]
	qOut := qa.View[int16](c.Out[1])[:c.N]
	src := qa.View[int8](c.In[0])[:2*c.N]

	switch c.Impl {
	case qa.ReferenceName:
		deinterleaveGeneric(iOut, qOut, src)
	case "u_unroll4":
		deinterleaveUnroll4(iOut, qOut, src)
	default:
		return c.UnknownImpl()
	}
	return nil
})

// Deinterleave writes the scaled real parts of src to iOut and the scaled
// imaginary parts to qOut. src holds interleaved pairs.
func Deinterleave(iOut, qOut []int16, src []int8) {
	n := min(len(iOut), len(qOut), len(src)/2)
	deinterleaveGeneric(iOut[:n], qOut[:n], src[:2*n])
}

func deinterleaveGeneric(iOut, qOut []int16, src []int8) {
	for i := range iOut {
		iOut[i] = int16(src[2*i]) * 256
		qOut[i] = int16(src[2*i+1]) * 256
	}
}

func deinterleaveUnroll4(iOut, qOut []int16, src []int8) {
	n := len(iOut)
	i := 0
	for ; i+4 <= n; i += 4 {
		s := src[2*i : 2*i+8 : 2*i+8]
		iOut[i], qOut[i] = int16(s[0])<<8, int16(s[1])<<8
		iOut[i+1], qOut[i+1] = int16(s[2])<<8, int16(s[3])<<8
		iOut[i+2], qOut[i+2] = int16(s[4])<<8, int16(s[5])<<8
		iOut[i+3], qOut[i+3] = int16(s[6])<<8, int16(s[7])<<8
	}
	for ; i < n; i++ {
		iOut[i] = int16(src[2*i]) << 8
		qOut[i] = int16(src[2*i+1]) << 8
	}
}
