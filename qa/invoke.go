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

	"github.com/ajroetker/kernelqa/capability"
)

// Invoker calls implementations of one kernel through the uniform
// convention. For a puppet test case the entry is the master's dispatcher
// and identity is the puppet's name, so the puppet's code path runs.
//
// An Invoker reuses one Call value; it is not safe for concurrent use.
type Invoker struct {
	identity string
	entry    Dispatcher
	desc     Descriptor
	caps     capability.Snapshot
	call     Call
}

// NewInvoker returns an Invoker that dispatches calls for identity to entry.
// desc and caps gate which implementation names may be invoked.
func NewInvoker(identity string, entry Dispatcher, desc Descriptor, caps capability.Snapshot, scalar complex64) *Invoker {
	return &Invoker{
		identity: identity,
		entry:    entry,
		desc:     desc,
		caps:     caps,
		call:     Call{Kernel: identity, Scalar: scalar},
	}
}

// Identity returns the kernel name placed in every Call.
func (iv *Invoker) Identity() string {
	return iv.identity
}

// Invoke runs implementation impl over the buffers of set, processing n
// elements. Outputs are written in place.
func (iv *Invoker) Invoke(impl string, set *BufferSet, n int) error {
	meta, ok := iv.desc.Lookup(impl)
	if !ok {
		return fmt.Errorf("%w: %s has no implementation %q", ErrUnknownImplementation, iv.identity, impl)
	}
	if !iv.caps.Supports(meta.Requires) {
		return fmt.Errorf("%w: %s/%s requires %s", ErrUnsupportedCapability, iv.identity, impl, meta.Requires)
	}
	if meta.Aligned && !set.Aligned {
		return fmt.Errorf("%w: %s/%s requires aligned buffers", ErrInvalidParams, iv.identity, impl)
	}
	iv.call.Impl = impl
	iv.call.Out = set.Out
	iv.call.In = set.In
	iv.call.N = n
	return iv.entry.Dispatch(&iv.call)
}
