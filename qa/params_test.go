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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	tests := []struct {
		name   string
		adjust func(*Params)
	}{
		{"zero vlen", func(p *Params) { p.VectorLength = 0 }},
		{"negative iterations", func(p *Params) { p.Iterations = -1 }},
		{"negative tolerance", func(p *Params) { p.Tolerance = -1e-6 }},
		{"NaN tolerance", func(p *Params) { p.Tolerance = math.NaN() }},
		{"negative divisor", func(p *Params) { p.ExtraDivisor = -2 }},
		{"NaN divisor", func(p *Params) { p.ExtraDivisor = math.NaN() }},
		{"infinite divisor", func(p *Params) { p.ExtraDivisor = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.adjust(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
		})
	}
}
