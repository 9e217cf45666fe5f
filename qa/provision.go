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
	"math/rand/v2"
)

// Slack is the number of extra elements allocated past the vector length.
// Kernels are still called with the requested length; the slack keeps
// variants that read a little past the tail inside their buffers.
const Slack = 5

// DefaultSeed seeds the random source when Params.Seed is zero.
const DefaultSeed = 1

// BufferSet holds the arguments of one invocation: outputs then inputs,
// matching the order of a kernel's Signature.
type BufferSet struct {
	Out     []*Buffer
	In      []*Buffer
	Aligned bool
}

// All returns outputs followed by inputs.
func (s *BufferSet) All() []*Buffer {
	all := make([]*Buffer, 0, len(s.Out)+len(s.In))
	all = append(all, s.Out...)
	return append(all, s.In...)
}

// Load restores the set to its initial state: outputs zeroed, inputs copied
// from src.
func (s *BufferSet) Load(src []*Buffer) {
	for _, b := range s.Out {
		b.Zero()
	}
	for i, b := range s.In {
		copy(b.data, src[i].data)
	}
}

// Provisioner builds randomized input data and the aligned and unaligned
// buffer sets that receive it.
type Provisioner struct {
	arena   *Arena
	rng     *rand.Rand
	divisor float64
}

// NewProvisioner returns a Provisioner allocating from arena.
// Float inputs are drawn uniformly in [-1, 1) and divided by extraDivisor,
// which keeps quantizing conversions in range; zero or one means no scaling.
func NewProvisioner(arena *Arena, seed uint64, extraDivisor float64) *Provisioner {
	if seed == 0 {
		seed = DefaultSeed
	}
	if extraDivisor == 0 {
		extraDivisor = 1
	}
	return &Provisioner{
		arena:   arena,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		divisor: extraDivisor,
	}
}

// Inputs allocates one aligned buffer of n elements per signature input and
// fills it with random data. The result is the master copy loaded into
// every BufferSet.
func (p *Provisioner) Inputs(sig Signature, n int) ([]*Buffer, error) {
	in := make([]*Buffer, len(sig.Inputs))
	for i, td := range sig.Inputs {
		b, err := p.arena.Alloc(td, n, false)
		if err != nil {
			return nil, err
		}
		p.Fill(b)
		in[i] = b
	}
	return in, nil
}

// Set allocates zeroed output and input buffers for sig.
func (p *Provisioner) Set(sig Signature, n int, aligned bool) (*BufferSet, error) {
	s := &BufferSet{Aligned: aligned}
	for _, td := range sig.Outputs {
		b, err := p.arena.Alloc(td, n, !aligned)
		if err != nil {
			return nil, err
		}
		s.Out = append(s.Out, b)
	}
	for _, td := range sig.Inputs {
		b, err := p.arena.Alloc(td, n, !aligned)
		if err != nil {
			return nil, err
		}
		s.In = append(s.In, b)
	}
	return s, nil
}

// Snapshot copies every buffer of s into new arena buffers.
func (p *Provisioner) Snapshot(s *BufferSet) (*BufferSet, error) {
	snap := &BufferSet{Aligned: s.Aligned}
	for _, b := range s.Out {
		c, err := p.arena.Clone(b)
		if err != nil {
			return nil, err
		}
		snap.Out = append(snap.Out, c)
	}
	for _, b := range s.In {
		c, err := p.arena.Clone(b)
		if err != nil {
			return nil, err
		}
		snap.In = append(snap.In, c)
	}
	return snap, nil
}

// Fill overwrites b with random values appropriate for its type.
// Complex values get independent real and imaginary draws.
func (p *Provisioner) Fill(b *Buffer) {
	td := b.Type
	switch {
	case td.Float && td.Size == 4:
		vs := View[float32](b)
		for i := range vs {
			vs[i] = float32(p.uniform())
		}
	case td.Float && td.Size == 8:
		vs := View[float64](b)
		for i := range vs {
			vs[i] = p.uniform()
		}
	case td.Signed && td.Size == 1:
		fillInts(View[int8](b), p.rng)
	case td.Signed && td.Size == 2:
		fillInts(View[int16](b), p.rng)
	case td.Signed && td.Size == 4:
		fillInts(View[int32](b), p.rng)
	case td.Signed && td.Size == 8:
		fillInts(View[int64](b), p.rng)
	case td.Size == 1:
		fillInts(View[uint8](b), p.rng)
	case td.Size == 2:
		fillInts(View[uint16](b), p.rng)
	case td.Size == 4:
		fillInts(View[uint32](b), p.rng)
	case td.Size == 8:
		fillInts(View[uint64](b), p.rng)
	}
}

// uniform returns a value in [-1, 1) scaled by the extra divisor.
func (p *Provisioner) uniform() float64 {
	return (p.rng.Float64()*2 - 1) / p.divisor
}

type integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// fillInts draws integers across the full representable range of T.
// Truncating a uniform 64-bit draw keeps every bit pattern equally likely.
func fillInts[T integer](dst []T, rng *rand.Rand) {
	for i := range dst {
		dst[i] = T(rng.Uint64())
	}
}
