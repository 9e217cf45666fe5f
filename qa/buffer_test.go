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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/kernelqa/capability"
)

func TestArenaAlignment(t *testing.T) {
	var a Arena
	defer a.Release()

	for _, tag := range []string{"8i", "16ic", "32f", "32fc", "64f", "64u"} {
		td := MustParseType(tag)
		for _, n := range []int{1, 7, 131} {
			al, err := a.Alloc(td, n, false)
			require.NoError(t, err)
			assert.True(t, al.AlignedTo(capability.MaxAlignment), "%s aligned n=%d", tag, n)
			assert.Len(t, al.Bytes(), n*td.ElementSize())

			un, err := a.Alloc(td, n, true)
			require.NoError(t, err)
			assert.False(t, un.AlignedTo(capability.MaxAlignment), "%s unaligned n=%d", tag, n)
			assert.True(t, un.AlignedTo(td.Size), "%s keeps natural alignment", tag)
		}
	}
}

func TestArenaErrors(t *testing.T) {
	a := Arena{Limit: 4096}
	defer a.Release()

	_, err := a.Alloc(MustParseType("32f"), 0, false)
	assert.ErrorIs(t, err, ErrAllocation)

	_, err = a.Alloc(MustParseType("64fc"), math.MaxInt/8, false)
	var ae *AllocationError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "size overflows", ae.Reason)

	_, err = a.Alloc(MustParseType("32f"), 512, false)
	require.NoError(t, err)
	_, err = a.Alloc(MustParseType("32f"), 512, false)
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "arena limit exceeded", ae.Reason)
	assert.False(t, IsFatal(nil))
	assert.True(t, IsFatal(err))
}

func TestArenaRelease(t *testing.T) {
	var a Arena
	b, err := a.Alloc(MustParseType("32fc"), 16, false)
	require.NoError(t, err)
	assert.Positive(t, a.Used())

	a.Release()
	assert.True(t, b.Released())
	assert.Zero(t, a.Used())
}

func TestArenaClone(t *testing.T) {
	var a Arena
	defer a.Release()

	src, err := a.Alloc(MustParseType("16i"), 9, true)
	require.NoError(t, err)
	vs := View[int16](src)
	for i := range vs {
		vs[i] = int16(i*3 - 7)
	}
	dst, err := a.Clone(src)
	require.NoError(t, err)
	assert.Equal(t, View[int16](src), View[int16](dst))
	assert.False(t, dst.AlignedTo(capability.MaxAlignment))
	assert.NotEqual(t, src.Addr(), dst.Addr())
}

func TestViewComplex(t *testing.T) {
	var a Arena
	defer a.Release()

	b, err := a.Alloc(MustParseType("32fc"), 4, true)
	require.NoError(t, err)
	View[complex64](b)[2] = complex(1.5, -2)

	parts := View[float32](b)
	require.Len(t, parts, 8)
	assert.Equal(t, float32(1.5), parts[4])
	assert.Equal(t, float32(-2), parts[5])
	assert.Equal(t, -2.0, b.component(5))
}
