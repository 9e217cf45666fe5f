// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package qa

import (
	"fmt"
	"slices"

	"github.com/ajroetker/kernelqa/capability"
)

// ReferenceName is the name of the portable implementation every kernel
// must provide. Its output is the correctness oracle.
const ReferenceName = "generic"

// Implementation describes one variant of a kernel.
type Implementation struct {
	Name string
	// Requires lists the CPU features the variant needs.
	Requires capability.Feature
	// Aligned is set for variants that only accept buffers aligned to
	// capability.MaxAlignment.
	Aligned bool
}

// Descriptor is the ordered list of implementations a kernel provides.
// Order matters: ties in benchmark timing go to the earlier entry.
type Descriptor struct {
	Implementations []Implementation
}

// Reference returns the generic implementation.
func (d Descriptor) Reference() (Implementation, error) {
	impl, ok := d.Lookup(ReferenceName)
	if !ok {
		return Implementation{}, ErrNoReference
	}
	return impl, nil
}

// Lookup finds an implementation by name.
func (d Descriptor) Lookup(name string) (Implementation, bool) {
	i := slices.IndexFunc(d.Implementations, func(impl Implementation) bool {
		return impl.Name == name
	})
	if i < 0 {
		return Implementation{}, false
	}
	return d.Implementations[i], true
}

// Names returns the implementation names in declaration order.
func (d Descriptor) Names() []string {
	names := make([]string, len(d.Implementations))
	for i, impl := range d.Implementations {
		names[i] = impl.Name
	}
	return names
}

// Supported returns the implementations whose requirements caps satisfies.
func (d Descriptor) Supported(caps capability.Snapshot) []Implementation {
	return slices.DeleteFunc(slices.Clone(d.Implementations), func(impl Implementation) bool {
		return !caps.Supports(impl.Requires)
	})
}

// Call carries the arguments of one kernel invocation. Every dispatcher
// receives the same shape regardless of the kernel's arity.
type Call struct {
	// Kernel is the identity being exercised. It equals the dispatcher's
	// own name except for puppets, which run through a master's dispatcher.
	Kernel string
	// Impl selects the implementation.
	Impl string
	Out  []*Buffer
	In   []*Buffer
	// Scalar is the optional scalar operand. Kernels with a real scalar
	// use its real part.
	Scalar complex64
	// N is the number of elements to process.
	N int
}

// Check verifies the number of output and input buffers, for dispatchers
// that validate their arguments.
func (c *Call) Check(outs, ins int) error {
	if len(c.Out) != outs || len(c.In) != ins {
		return fmt.Errorf("%w: %s wants %d outputs and %d inputs, got %d and %d",
			ErrUnsupportedSignature, c.Kernel, outs, ins, len(c.Out), len(c.In))
	}
	for _, bufs := range [2][]*Buffer{c.Out, c.In} {
		for _, b := range bufs {
			if b.Len < c.N {
				return fmt.Errorf("%w: %s buffer of %d elements for length %d", ErrInvalidParams, c.Kernel, b.Len, c.N)
			}
		}
	}
	return nil
}

// All returns outputs followed by inputs.
func (c *Call) All() []*Buffer {
	all := make([]*Buffer, 0, len(c.Out)+len(c.In))
	all = append(all, c.Out...)
	return append(all, c.In...)
}

// UnknownImpl returns the error a dispatcher should report for an
// implementation name it does not provide.
func (c *Call) UnknownImpl() error {
	return fmt.Errorf("%w: %s has no implementation %q", ErrUnknownImplementation, c.Kernel, c.Impl)
}

// Dispatcher runs the implementation selected by a Call.
type Dispatcher interface {
	Dispatch(c *Call) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(c *Call) error

// Dispatch calls f(c).
func (f DispatcherFunc) Dispatch(c *Call) error {
	return f(c)
}

// Kernel is what a kernel package exposes to the harness.
type Kernel interface {
	Dispatcher
	Name() string
	Descriptor() Descriptor
}

// NewKernel bundles a name, descriptor and dispatch function.
func NewKernel(name string, desc Descriptor, dispatch DispatcherFunc) Kernel {
	return &kernel{name: name, desc: desc, dispatch: dispatch}
}

type kernel struct {
	name     string
	desc     Descriptor
	dispatch DispatcherFunc
}

func (k *kernel) Name() string { return k.name }

func (k *kernel) Descriptor() Descriptor { return k.desc }

func (k *kernel) Dispatch(c *Call) error { return k.dispatch(c) }
