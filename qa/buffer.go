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
	"math"
	"unsafe"

	"github.com/ajroetker/kernelqa/capability"
)

// DefaultArenaLimit caps the bytes one kernel's test case may allocate.
const DefaultArenaLimit = 1 << 30

// Element is the set of Go types a Buffer can be viewed as.
type Element interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~complex64 | ~complex128
}

// Buffer is a typed window into raw memory with a controlled base address.
//
// Aligned buffers start on a capability.MaxAlignment boundary. Unaligned
// buffers start one component size past such a boundary: the Go type stays
// naturally aligned but no vector-width alignment holds.
type Buffer struct {
	Type TypeDescriptor
	// Len is the number of elements the buffer holds.
	Len int

	data []byte
}

// Bytes returns the raw bytes of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Addr returns the base address of the buffer.
func (b *Buffer) Addr() uintptr {
	if len(b.data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b.data)))
}

// AlignedTo reports whether the base address is a multiple of n.
func (b *Buffer) AlignedTo(n int) bool {
	return b.Addr()%uintptr(n) == 0
}

// Released reports whether the owning Arena has been released.
func (b *Buffer) Released() bool {
	return b.data == nil
}

// Zero clears the buffer.
func (b *Buffer) Zero() {
	clear(b.data)
}

// View reinterprets the buffer as a slice of T. For complex tags the view
// may be either the Go complex type or its component type, in which case
// the slice has twice as many entries as Len.
func View[T Element](b *Buffer) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if len(b.data) < size {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b.data))), len(b.data)/size)
}

// component returns component i (counting real and imaginary parts
// separately) of the buffer as a float64.
func (b *Buffer) component(i int) float64 {
	td := b.Type
	switch {
	case td.Float && td.Size == 4:
		return float64(View[float32](b)[i])
	case td.Float && td.Size == 8:
		return View[float64](b)[i]
	case td.Signed && td.Size == 1:
		return float64(View[int8](b)[i])
	case td.Signed && td.Size == 2:
		return float64(View[int16](b)[i])
	case td.Signed && td.Size == 4:
		return float64(View[int32](b)[i])
	case td.Signed && td.Size == 8:
		return float64(View[int64](b)[i])
	case td.Size == 1:
		return float64(View[uint8](b)[i])
	case td.Size == 2:
		return float64(View[uint16](b)[i])
	case td.Size == 4:
		return float64(View[uint32](b)[i])
	case td.Size == 8:
		return float64(View[uint64](b)[i])
	}
	return math.NaN()
}

// Arena hands out Buffers and releases them together.
// An Arena is not safe for concurrent use.
type Arena struct {
	// Limit is the maximum number of bytes outstanding at once.
	// Zero means DefaultArenaLimit.
	Limit int

	used    int
	buffers []*Buffer
}

// Alloc returns a zeroed buffer of n elements of type td.
// With misalign set the base address is deliberately offset from the
// vector alignment boundary.
func (a *Arena) Alloc(td TypeDescriptor, n int, misalign bool) (*Buffer, error) {
	limit := a.Limit
	if limit <= 0 {
		limit = DefaultArenaLimit
	}
	es := td.ElementSize()
	if es <= 0 || n <= 0 {
		return nil, &AllocationError{Tag: td.Tag, Elements: n, Reason: "empty request"}
	}
	if n > (math.MaxInt-2*capability.MaxAlignment)/es {
		return nil, &AllocationError{Tag: td.Tag, Elements: n, Reason: "size overflows"}
	}
	size := n * es
	total := size + 2*capability.MaxAlignment
	if a.used+total > limit {
		return nil, &AllocationError{Tag: td.Tag, Elements: n, Bytes: size, Reason: "arena limit exceeded"}
	}

	// The Go heap does not move objects, so the address computed here
	// stays valid for the lifetime of the slab.
	slab := make([]byte, total)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(slab)))
	off := int((capability.MaxAlignment - base%capability.MaxAlignment) % capability.MaxAlignment)
	if misalign {
		off += td.Size
	}

	b := &Buffer{Type: td, Len: n, data: slab[off : off+size : off+size]}
	a.used += total
	a.buffers = append(a.buffers, b)
	return b, nil
}

// Clone allocates a buffer with the same type, length and alignment class as
// src and copies its contents.
func (a *Arena) Clone(src *Buffer) (*Buffer, error) {
	misalign := !src.AlignedTo(capability.MaxAlignment)
	b, err := a.Alloc(src.Type, src.Len, misalign)
	if err != nil {
		return nil, err
	}
	copy(b.data, src.data)
	return b, nil
}

// Used returns the number of bytes currently allocated.
func (a *Arena) Used() int {
	return a.used
}

// Release drops every buffer handed out by the arena. Released buffers have
// no backing memory; using one afterwards panics.
func (a *Arena) Release() {
	for _, b := range a.buffers {
		b.data = nil
	}
	a.buffers = nil
	a.used = 0
}
