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
	"strconv"
	"strings"
)

// MaxBuffers is the largest number of vector arguments (inputs plus
// outputs) the uniform calling convention supports.
const MaxBuffers = 4

// Signature is the argument list of a kernel derived from its name.
type Signature struct {
	Inputs  []TypeDescriptor
	Outputs []TypeDescriptor
	Scalars []TypeDescriptor
	// Op is the operation part of the name, e.g. "x2_multiply" minus the
	// multiplier: "multiply".
	Op string
}

// Buffers returns the number of vector arguments.
func (s Signature) Buffers() int {
	return len(s.Inputs) + len(s.Outputs)
}

// ParseSignature derives the argument types of a kernel from its name.
//
// Names have the form
//
//	<input types>_<op words>_<output types>[_<alignment suffix>]
//
// where any type may be followed by a multiplier token "xN" that repeats it
// N times in total, e.g.
//
//	32fc_x2_multiply_32fc     inputs [32fc 32fc], outputs [32fc]
//	32f_s32f_convert_16i      inputs [32f], scalars [s32f], outputs [16i]
//	8ic_deinterleave_16i_x2   inputs [8ic], outputs [16i 16i]
//
// A leading "volk_" prefix is accepted and ignored. Kernels that operate in
// place have no output types. At least one vector input is required.
func ParseSignature(name string) (Signature, error) {
	var sig Signature
	toks := strings.Split(strings.TrimPrefix(name, "volk_"), "_")

	const (
		sideInput = iota
		sideName
		sideOutput
	)
	side := sideInput
	var all []TypeDescriptor // inputs including scalars, in order
	var op []string

	for i, tok := range toks {
		if tok == "" {
			return sig, &ParseError{Input: name, Reason: "empty token"}
		}
		if td, err := ParseType(tok); err == nil {
			if side == sideName {
				side = sideOutput
			}
			if side == sideInput {
				all = append(all, td)
			} else {
				sig.Outputs = append(sig.Outputs, td)
			}
			continue
		}

		if m, ok := multiplier(tok); ok {
			list := &all
			if side != sideInput {
				list = &sig.Outputs
			}
			if len(*list) == 0 || side == sideName {
				return sig, &ParseError{Input: name, Reason: fmt.Sprintf("multiplier %q has no preceding type", tok)}
			}
			last := (*list)[len(*list)-1]
			for range m - 1 {
				*list = append(*list, last)
			}
			continue
		}

		switch side {
		case sideInput, sideName:
			side = sideName
			op = append(op, tok)
		case sideOutput:
			// The only thing allowed after the output types is an
			// alignment suffix in the last position.
			if i != len(toks)-1 {
				return sig, &ParseError{Input: name, Reason: fmt.Sprintf("unexpected token %q after output types", tok)}
			}
		}
	}

	for _, td := range all {
		if td.Scalar {
			sig.Scalars = append(sig.Scalars, td)
		} else {
			sig.Inputs = append(sig.Inputs, td)
		}
	}
	for _, td := range sig.Outputs {
		if td.Scalar {
			return sig, &ParseError{Input: name, Reason: "scalar output type " + td.Tag}
		}
	}
	if len(sig.Inputs) == 0 {
		return sig, &ParseError{Input: name, Reason: "no vector input"}
	}
	sig.Op = strings.Join(op, "_")
	return sig, nil
}

// multiplier parses "xN" tokens with N >= 1.
func multiplier(tok string) (int, bool) {
	if len(tok) < 2 || tok[0] != 'x' {
		return 0, false
	}
	n, err := strconv.Atoi(tok[1:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// checkConvention verifies that a signature fits the uniform calling
// convention: one to MaxBuffers vector arguments and at most one scalar,
// which must be a float (real or complex).
func checkConvention(name string, sig Signature) error {
	if n := sig.Buffers(); n == 0 || n > MaxBuffers {
		return fmt.Errorf("%w: %s has %d vector arguments (max %d)", ErrUnsupportedSignature, name, n, MaxBuffers)
	}
	if len(sig.Scalars) > 1 {
		return fmt.Errorf("%w: %s has %d scalar arguments (max 1)", ErrUnsupportedSignature, name, len(sig.Scalars))
	}
	if len(sig.Scalars) == 1 && !sig.Scalars[0].Float {
		return fmt.Errorf("%w: %s scalar %s is not a float", ErrUnsupportedSignature, name, sig.Scalars[0].Tag)
	}
	return nil
}
