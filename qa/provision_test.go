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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/kernelqa/capability"
)

func TestProvisionerAlignedMatchesUnaligned(t *testing.T) {
	for _, name := range []string{"32fc_x2_multiply_32fc", "8ic_deinterleave_16i_x2", "32f_s32f_convert_16i", "64u_x2_xor_64u"} {
		t.Run(name, func(t *testing.T) {
			var a Arena
			defer a.Release()
			sig, err := ParseSignature(name)
			require.NoError(t, err)

			p := NewProvisioner(&a, 42, 0)
			master, err := p.Inputs(sig, 37)
			require.NoError(t, err)
			al, err := p.Set(sig, 37, true)
			require.NoError(t, err)
			un, err := p.Set(sig, 37, false)
			require.NoError(t, err)
			al.Load(master)
			un.Load(master)

			require.Len(t, al.In, len(sig.Inputs))
			require.Len(t, al.Out, len(sig.Outputs))
			for i := range al.In {
				assert.True(t, al.In[i].AlignedTo(capability.MaxAlignment))
				assert.False(t, un.In[i].AlignedTo(capability.MaxAlignment))
				assert.True(t, bytes.Equal(al.In[i].Bytes(), un.In[i].Bytes()), "input %d differs", i)
			}
			for i := range al.Out {
				assert.Equal(t, make([]byte, len(al.Out[i].Bytes())), al.Out[i].Bytes())
			}
			assert.Len(t, al.All(), sig.Buffers())
		})
	}
}

func TestProvisionerFloatRange(t *testing.T) {
	var a Arena
	defer a.Release()
	sig, err := ParseSignature("32f_x2_add_32f")
	require.NoError(t, err)

	in, err := NewProvisioner(&a, 7, 0).Inputs(sig, 1000)
	require.NoError(t, err)
	for _, v := range View[float32](in[0]) {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.Less(t, v, float32(1))
	}

	scaled, err := NewProvisioner(&a, 7, 1000).Inputs(sig, 1000)
	require.NoError(t, err)
	for i, v := range View[float32](scaled[0]) {
		assert.InDelta(t, View[float32](in[0])[i]/1000, v, 1e-9)
	}
}

func TestProvisionerIntegersSpanRange(t *testing.T) {
	var a Arena
	defer a.Release()
	sig, err := ParseSignature("8i_x2_add_8i")
	require.NoError(t, err)

	in, err := NewProvisioner(&a, 3, 0).Inputs(sig, 4096)
	require.NoError(t, err)
	var neg, pos bool
	for _, v := range View[int8](in[0]) {
		neg = neg || v < -64
		pos = pos || v > 64
	}
	assert.True(t, neg && pos, "values should cover the full int8 range")
}

func TestProvisionerSeeded(t *testing.T) {
	var a Arena
	defer a.Release()
	sig, err := ParseSignature("32fc_x2_multiply_32fc")
	require.NoError(t, err)

	x, err := NewProvisioner(&a, 99, 0).Inputs(sig, 64)
	require.NoError(t, err)
	y, err := NewProvisioner(&a, 99, 0).Inputs(sig, 64)
	require.NoError(t, err)
	z, err := NewProvisioner(&a, 100, 0).Inputs(sig, 64)
	require.NoError(t, err)

	assert.Equal(t, x[1].Bytes(), y[1].Bytes())
	assert.NotEqual(t, x[1].Bytes(), z[1].Bytes())
	assert.NotEqual(t, x[0].Bytes(), x[1].Bytes())
}

func TestBufferSetLoadResets(t *testing.T) {
	var a Arena
	defer a.Release()
	sig, err := ParseSignature("32f_x2_add_32f")
	require.NoError(t, err)

	p := NewProvisioner(&a, 1, 0)
	master, err := p.Inputs(sig, 8)
	require.NoError(t, err)
	set, err := p.Set(sig, 8, false)
	require.NoError(t, err)
	set.Load(master)

	View[float32](set.Out[0])[0] = 5
	View[float32](set.In[1])[2] = 5
	set.Load(master)
	assert.Zero(t, View[float32](set.Out[0])[0])
	assert.Equal(t, View[float32](master[1]), View[float32](set.In[1]))
}
