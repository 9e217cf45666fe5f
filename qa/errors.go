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
	"fmt"
)

// Sentinel errors returned by the harness.
//
// ErrParse, ErrAllocation, ErrUnsupportedSignature, ErrNoReference,
// ErrUnknownKernel and ErrInvalidParams abort the one kernel being tested.
// ErrMismatch and ErrUnsupportedCapability are ordinary outcomes recorded in
// TestResults.
var (
	// ErrParse is returned when a type tag or kernel name does not follow
	// the type grammar.
	ErrParse = errors.New("kernelqa: malformed type tag")

	// ErrAllocation is returned when test buffers cannot be provisioned.
	ErrAllocation = errors.New("kernelqa: buffer allocation failed")

	// ErrMismatch is returned when a candidate output differs from the
	// reference output beyond the comparison rule.
	ErrMismatch = errors.New("kernelqa: output mismatch")

	// ErrUnsupportedCapability is returned when an implementation requires a
	// CPU feature the capability snapshot does not have.
	ErrUnsupportedCapability = errors.New("kernelqa: unsupported capability")

	// ErrUnsupportedSignature is returned when a kernel's argument list does
	// not fit the uniform calling convention.
	ErrUnsupportedSignature = errors.New("kernelqa: unsupported kernel signature")

	// ErrNoReference is returned when a descriptor lacks a usable generic
	// implementation.
	ErrNoReference = errors.New("kernelqa: no reference implementation")

	// ErrUnknownKernel is returned when a registry lookup fails, e.g. for a
	// puppet master that was never registered.
	ErrUnknownKernel = errors.New("kernelqa: unknown kernel")

	// ErrUnknownImplementation is returned by dispatchers asked for an
	// implementation name they do not provide.
	ErrUnknownImplementation = errors.New("kernelqa: unknown implementation")

	// ErrInvalidParams is returned for unusable test parameters, such as a
	// non-positive vector length or an invalid filter pattern.
	ErrInvalidParams = errors.New("kernelqa: invalid test parameters")
)

// ParseError describes a type tag or kernel name that could not be parsed.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("kernelqa: cannot parse %q: %s", e.Input, e.Reason)
}

// Unwrap returns ErrParse.
func (e *ParseError) Unwrap() error { return ErrParse }

// AllocationError describes a failed buffer request.
type AllocationError struct {
	Tag      string
	Elements int
	Bytes    int
	Reason   string
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("kernelqa: cannot allocate %d x %s (%d bytes): %s", e.Elements, e.Tag, e.Bytes, e.Reason)
}

// Unwrap returns ErrAllocation.
func (e *AllocationError) Unwrap() error { return ErrAllocation }

// MismatchError describes the first element where a candidate diverged.
type MismatchError struct {
	Index     int
	Component int // 0 for real (or non-complex), 1 for imaginary
	Want      float64
	Got       float64
	Tolerance float64
}

func (e *MismatchError) Error() string {
	part := "re"
	if e.Component == 1 {
		part = "im"
	}
	return fmt.Sprintf("kernelqa: element %d (%s): got %v, want %v (tolerance %g)", e.Index, part, e.Got, e.Want, e.Tolerance)
}

// Unwrap returns ErrMismatch.
func (e *MismatchError) Unwrap() error { return ErrMismatch }

// IsFatal reports whether err aborts a kernel's test case rather than being
// an outcome recorded in its results.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrMismatch) && !errors.Is(err, ErrUnsupportedCapability)
}
