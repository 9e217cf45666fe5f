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

//go:build amd64

package capability

import "golang.org/x/sys/cpu"

func detectFeatures() Feature {
	// SSE2 is baseline for amd64.
	f := SSE2
	set := func(ok bool, bit Feature) {
		if ok {
			f |= bit
		}
	}
	set(cpu.X86.HasSSE3, SSE3)
	set(cpu.X86.HasSSSE3, SSSE3)
	set(cpu.X86.HasSSE41, SSE41)
	set(cpu.X86.HasSSE42, SSE42)
	set(cpu.X86.HasAVX, AVX)
	set(cpu.X86.HasAVX2, AVX2)
	set(cpu.X86.HasFMA, FMA)
	set(cpu.X86.HasAVX512F, AVX512F)
	set(cpu.X86.HasAVX512BW, AVX512BW)
	set(cpu.X86.HasAVX512VL, AVX512VL)
	return f
}
