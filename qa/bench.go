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
	"regexp"
	"runtime"
	"time"
)

// Alignment identifies the buffer class an implementation ran on.
type Alignment int

const (
	Aligned Alignment = iota
	Unaligned
)

func (a Alignment) String() string {
	if a == Aligned {
		return "aligned"
	}
	return "unaligned"
}

// Bench times implementations. The zero value uses the wall clock.
type Bench struct {
	// Now returns the current time. It must carry a monotonic reading for
	// elapsed times to be immune to clock adjustments; time.Now does.
	Now func() time.Time
	// Filter restricts which implementations are timed. Nil matches all.
	Filter *regexp.Regexp
}

// Eligible reports whether impl passes the name filter.
func (b *Bench) Eligible(impl string) bool {
	return b.Filter == nil || b.Filter.MatchString(impl)
}

// Time runs impl iterations times over the same pre-filled set and returns
// the accumulated elapsed time. Results are not validated. The loop always
// runs to completion unless a dispatch returns an error.
func (b *Bench) Time(iv *Invoker, impl string, set *BufferSet, n, iterations int) (time.Duration, error) {
	now := b.Now
	if now == nil {
		now = time.Now
	}
	runtime.GC()

	start := now()
	for range iterations {
		if err := iv.Invoke(impl, set, n); err != nil {
			return 0, err
		}
	}
	return now().Sub(start), nil
}

// compileFilter compiles a name filter. An empty pattern matches all.
func compileFilter(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(pattern)
}
