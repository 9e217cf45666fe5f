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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBatchContinuesPastFailures(t *testing.T) {
	clock := newFakeClock()
	cmul := newCmulKernel(clock)
	add := addKernel()
	noop := DispatcherFunc(func(*Call) error { return nil })
	generic := Descriptor{Implementations: []Implementation{{Name: "generic"}}}

	cases := []TestCase{
		{Name: "not_a_kernel", Descriptor: generic, Entry: noop, Params: testParams(8)},
		KernelCase(cmul, testParams(8)),
		{Name: "64fc_x2_multiply_64fc", Descriptor: generic, Entry: noop, Params: testParams(1 << 16)},
		KernelCase(add, testParams(8)),
		PuppetCase(conjName, cmulName, testParams(8)),
	}

	h := New(hostCaps, WithClock(clock.Now), WithArenaLimit(1<<16), WithRegistry(NewRegistry(cmul, add)))
	var sink Collector
	br := h.RunBatch(cases, &sink)

	require.Len(t, br.Outcomes, len(cases))
	assert.Equal(t, 4, br.FailedCount())
	assert.False(t, br.Passed())

	parse, ok := br.Outcome("not_a_kernel")
	require.True(t, ok)
	assert.ErrorIs(t, parse.Err, ErrParse)

	alloc, _ := br.Outcome("64fc_x2_multiply_64fc")
	assert.ErrorIs(t, alloc.Err, ErrAllocation)

	mul, _ := br.Outcome(cmulName)
	assert.NoError(t, mul.Err)
	assert.Equal(t, []string{"u_buggy"}, mul.Failed)

	conj, _ := br.Outcome(conjName)
	assert.Equal(t, []string{"u_buggy"}, conj.Failed)

	sum, _ := br.Outcome(addName)
	assert.True(t, sum.Pass, "failures in earlier kernels do not leak into later ones")
	assert.Empty(t, sum.Failed)

	names := make([]string, 0, 4)
	for _, o := range br.Failures() {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"not_a_kernel", cmulName, "64fc_x2_multiply_64fc", conjName}, names)

	assert.Len(t, br.Results, 3)
	assert.Equal(t, 3, sink.Len())
}

func TestRunBatchAllPass(t *testing.T) {
	br := New(hostCaps).RunBatch([]TestCase{KernelCase(addKernel(), testParams(12))}, nil)
	assert.True(t, br.Passed())
	assert.Zero(t, br.FailedCount())
	assert.Empty(t, br.Failures())
}
