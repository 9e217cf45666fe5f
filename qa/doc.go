// Package qa verifies and benchmarks kernels that ship several
// interchangeable implementations behind a single dispatcher.
//
// # Model
//
// A kernel is described by a Descriptor, the ordered list of its
// implementations. The implementation named "generic" is the reference:
// every other implementation must reproduce its output. A kernel's name
// encodes its argument types:
//
//	32fc_x2_multiply_32fc          two complex float inputs, one output
//	32f_s32f_convert_16i           float input, real scalar, int16 output
//	8ic_deinterleave_16i_x2        one input, two int16 outputs
//
// ParseSignature turns such a name into input, output and scalar
// TypeDescriptors. Tags follow the grammar ['s'] bits {f|i|u|c}.
//
// # Running
//
// Harness.Run takes one TestCase and:
//   - allocates aligned and misaligned buffer sets holding the same random
//     inputs (see Provisioner);
//   - runs the reference once and keeps its outputs and inputs;
//   - runs every implementation the capability snapshot supports on both
//     sets and compares against the reference (see ComparatorFor);
//   - times the implementations selected by Params.Filter;
//   - picks the fastest passing implementation per alignment class.
//
// Harness.RunBatch runs many cases and never stops early; its BatchResult
// counts failing kernels and lists the implementations that failed.
//
// A puppet TestCase names another registered kernel as its master. The
// master's dispatcher runs it with Call.Kernel set to the puppet's name, and
// the results are recorded under the puppet's name.
//
// # Limitations
//
// Implementations run on the calling goroutine. A variant that panics, for
// instance an aligned-only variant handed misaligned memory through a
// dispatcher bug, is not recovered and takes the run down with it.
package qa
