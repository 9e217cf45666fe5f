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
	"strconv"
	"strings"
)

// TypeDescriptor holds the semantic attributes of one kernel argument type.
//
// Tags follow the grammar ['s'] bits markers, where bits is 8, 16, 32 or 64
// and markers are any of:
//
//	f  floating point
//	i  signed integer
//	u  unsigned integer
//	c  complex (interleaved real/imaginary pairs)
//
// A leading 's' marks a scalar operand rather than a vector. Examples:
// "32f", "32fc", "16i", "16ic", "8u", "s32f".
type TypeDescriptor struct {
	Float   bool
	Scalar  bool
	Signed  bool
	Complex bool
	// Size is the size in bytes of one real component.
	Size int
	Tag  string
}

// ElementSize returns the size in bytes of one element, counting both
// components of a complex value.
func (t TypeDescriptor) ElementSize() int {
	if t.Complex {
		return t.Size * 2
	}
	return t.Size
}

// Components returns the number of real components per element.
func (t TypeDescriptor) Components() int {
	if t.Complex {
		return 2
	}
	return 1
}

func (t TypeDescriptor) String() string {
	return t.Tag
}

// ParseType resolves a type tag into a TypeDescriptor.
func ParseType(tag string) (TypeDescriptor, error) {
	td := TypeDescriptor{Tag: tag}
	if len(tag) < 2 {
		return td, &ParseError{Input: tag, Reason: "too short to be a type"}
	}

	rest := tag
	if rest[0] == 's' {
		td.Scalar = true
		rest = rest[1:]
	}

	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return td, &ParseError{Input: tag, Reason: "no bit width"}
	}
	bits, err := strconv.Atoi(rest[:digits])
	if err != nil {
		return td, &ParseError{Input: tag, Reason: err.Error()}
	}
	switch bits {
	case 8, 16, 32, 64:
	default:
		return td, &ParseError{Input: tag, Reason: "bit width must be 8, 16, 32 or 64"}
	}
	td.Size = bits / 8

	markers := rest[digits:]
	if markers == "" {
		return td, &ParseError{Input: tag, Reason: "no category marker"}
	}
	var sawInt bool
	for i := 0; i < len(markers); i++ {
		m := markers[i]
		if strings.IndexByte(markers[:i], m) >= 0 {
			return td, &ParseError{Input: tag, Reason: "repeated marker " + string(m)}
		}
		switch m {
		case 'f':
			td.Float = true
			td.Signed = true
		case 'i':
			td.Signed = true
			sawInt = true
		case 'u':
			td.Signed = false
			sawInt = true
		case 'c':
			td.Complex = true
		default:
			return td, &ParseError{Input: tag, Reason: "unknown marker " + string(m)}
		}
	}
	if td.Float && sawInt {
		return td, &ParseError{Input: tag, Reason: "float and integer markers conflict"}
	}
	if strings.Contains(markers, "i") && strings.Contains(markers, "u") {
		return td, &ParseError{Input: tag, Reason: "signed and unsigned markers conflict"}
	}
	if td.Float && td.Size < 4 {
		return td, &ParseError{Input: tag, Reason: "floats must be 32 or 64 bits"}
	}
	if !td.Float && !sawInt {
		// "32c" on its own: a complex integer with unspecified signedness.
		td.Signed = true
	}
	return td, nil
}

// MustParseType is like ParseType but panics on error. For static tables.
func MustParseType(tag string) TypeDescriptor {
	td, err := ParseType(tag)
	if err != nil {
		panic(err)
	}
	return td
}
