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
)

// Registry maps kernel names to kernels. Puppet test cases resolve their
// master through it.
type Registry struct {
	kernels map[string]Kernel
	order   []string
}

// NewRegistry returns a registry holding ks. It panics on duplicate names.
func NewRegistry(ks ...Kernel) *Registry {
	r := &Registry{kernels: make(map[string]Kernel, len(ks))}
	for _, k := range ks {
		if err := r.Register(k); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds k. Names must be unique.
func (r *Registry) Register(k Kernel) error {
	if r.kernels == nil {
		r.kernels = make(map[string]Kernel)
	}
	if _, dup := r.kernels[k.Name()]; dup {
		return fmt.Errorf("kernelqa: kernel %q registered twice", k.Name())
	}
	r.kernels[k.Name()] = k
	r.order = append(r.order, k.Name())
	return nil
}

// Lookup returns the kernel registered under name.
func (r *Registry) Lookup(name string) (Kernel, error) {
	if r != nil {
		if k, ok := r.kernels[name]; ok {
			return k, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.order)
}
