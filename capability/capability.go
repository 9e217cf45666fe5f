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

// Package capability describes the CPU features a kernel variant may require
// and provides a snapshot of the features present on the running machine.
//
// Detection runs once per process. The resulting Snapshot is an immutable
// value that callers pass explicitly to whatever needs it; nothing in this
// module reads the host features from global state after startup.
package capability

import (
	"fmt"
	"math/bits"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// MaxAlignment is the widest vector register width, in bytes, of any
// architecture variant this module knows about (AVX-512).
// Buffers aligned to MaxAlignment satisfy every aligned variant.
const MaxAlignment = 64

// NoSimdEnvVar disables every optional feature when set to a true value.
const NoSimdEnvVar = "KERNELQA_NO_SIMD"

// Feature is a bitmask of CPU capabilities.
// The zero value means "no requirement": the portable baseline.
type Feature uint64

const (
	// SSE2 is the x86-64 baseline.
	SSE2 Feature = 1 << iota
	SSE3
	SSSE3
	SSE41
	SSE42
	AVX
	AVX2
	FMA
	AVX512F
	AVX512BW
	AVX512VL
	// NEON is ARM Advanced SIMD (ASIMD), mandatory on ARMv8.
	NEON
	// ASIMDHP is NEON half-precision arithmetic (ARMv8.2-A).
	ASIMDHP
	SVE
	SVE2

	// None is the portable baseline and is always satisfied.
	None Feature = 0
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{SSE2, "sse2"},
	{SSE3, "sse3"},
	{SSSE3, "ssse3"},
	{SSE41, "sse4.1"},
	{SSE42, "sse4.2"},
	{AVX, "avx"},
	{AVX2, "avx2"},
	{FMA, "fma"},
	{AVX512F, "avx512f"},
	{AVX512BW, "avx512bw"},
	{AVX512VL, "avx512vl"},
	{NEON, "neon"},
	{ASIMDHP, "asimdhp"},
	{SVE, "sve"},
	{SVE2, "sve2"},
}

// Has reports whether every bit of req is present in f.
func (f Feature) Has(req Feature) bool {
	return f&req == req
}

// Names returns the names of the set bits in declaration order.
func (f Feature) Names() []string {
	names := make([]string, 0, bits.OnesCount64(uint64(f)))
	for _, fn := range featureNames {
		if f&fn.f != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}

// String returns the feature names joined with "|", or "none".
func (f Feature) String() string {
	if f == None {
		return "none"
	}
	return strings.Join(f.Names(), "|")
}

// MarshalText implements encoding.TextMarshaler.
func (f Feature) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Feature) UnmarshalText(text []byte) error {
	parsed, err := ParseFeatures(strings.Split(string(text), "|")...)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFeatures converts feature names (case-insensitive) into a mask.
// Empty names and "none" are ignored.
func ParseFeatures(names ...string) (Feature, error) {
	var f Feature
outer:
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || name == "none" {
			continue
		}
		for _, fn := range featureNames {
			if fn.name == name {
				f |= fn.f
				continue outer
			}
		}
		return None, fmt.Errorf("capability: unknown feature %q", name)
	}
	return f, nil
}

// Level represents the widest SIMD instruction set available.
type Level int

const (
	// LevelScalar indicates no SIMD, pure Go implementation.
	LevelScalar Level = iota

	// LevelSSE2 indicates SSE2 instructions (x86-64 baseline).
	LevelSSE2

	// LevelAVX2 indicates AVX2 instructions (256-bit SIMD).
	LevelAVX2

	// LevelAVX512 indicates AVX-512 instructions (512-bit SIMD).
	LevelAVX512

	// LevelNEON indicates ARM NEON instructions (128-bit SIMD).
	LevelNEON

	// LevelSVE indicates ARM SVE instructions (scalable vector).
	LevelSVE
)

// String returns a human-readable name for the level.
func (l Level) String() string {
	switch l {
	case LevelScalar:
		return "scalar"
	case LevelSSE2:
		return "sse2"
	case LevelAVX2:
		return "avx2"
	case LevelAVX512:
		return "avx512"
	case LevelNEON:
		return "neon"
	case LevelSVE:
		return "sve"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	for c := LevelScalar; c <= LevelSVE; c++ {
		if c.String() == string(text) {
			*l = c
			return nil
		}
	}
	return fmt.Errorf("capability: unknown level %q", text)
}

// Width returns the SIMD register width in bytes for the level.
// Scalar mode still reports 16 so buffer math stays consistent.
func (l Level) Width() int {
	switch l {
	case LevelAVX512:
		return 64
	case LevelAVX2:
		return 32
	default:
		return 16
	}
}

// Snapshot is an immutable record of the capabilities of one machine.
type Snapshot struct {
	Arch     string  `json:"arch" yaml:"arch"`
	Features Feature `json:"features" yaml:"features"`
	Level    Level   `json:"level" yaml:"level"`
}

// NewSnapshot builds a snapshot for arch with the given features and derives
// the level from them.
func NewSnapshot(arch string, features Feature) Snapshot {
	return Snapshot{Arch: arch, Features: features, Level: levelFor(features)}
}

// Supports reports whether the snapshot satisfies req.
func (s Snapshot) Supports(req Feature) bool {
	return s.Features.Has(req)
}

// Width returns the SIMD register width in bytes of the snapshot's level.
func (s Snapshot) Width() int {
	return s.Level.Width()
}

// Without returns a copy of s with the features in mask cleared.
func (s Snapshot) Without(mask Feature) Snapshot {
	return NewSnapshot(s.Arch, s.Features&^mask)
}

// Scalar returns a copy of s with every optional feature cleared.
func (s Snapshot) Scalar() Snapshot {
	return NewSnapshot(s.Arch, None)
}

func (s Snapshot) String() string {
	return fmt.Sprintf("%s/%s [%s]", s.Arch, s.Level, s.Features)
}

func levelFor(f Feature) Level {
	switch {
	case f.Has(AVX512F):
		return LevelAVX512
	case f.Has(AVX2):
		return LevelAVX2
	case f.Has(SVE):
		return LevelSVE
	case f.Has(NEON):
		return LevelNEON
	case f.Has(SSE2):
		return LevelSSE2
	default:
		return LevelScalar
	}
}

var (
	hostOnce sync.Once
	host     Snapshot
)

// Host returns the capabilities of the running machine.
// The probe runs on the first call only; later calls return the same value.
func Host() Snapshot {
	hostOnce.Do(func() {
		host = Detect()
	})
	return host
}

// Detect probes the CPU now. Most callers want Host instead.
// When KERNELQA_NO_SIMD is set the result has no optional features.
func Detect() Snapshot {
	s := NewSnapshot(runtime.GOARCH, detectFeatures())
	if NoSimdEnv() {
		return s.Scalar()
	}
	return s
}

// NoSimdEnv checks if the KERNELQA_NO_SIMD environment variable is set.
// Any non-empty value is true unless it parses as a false bool.
func NoSimdEnv() bool {
	val := os.Getenv(NoSimdEnvVar)
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
