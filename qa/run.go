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
	"time"

	"go.uber.org/zap"

	"github.com/ajroetker/kernelqa/capability"
)

// Harness runs test cases. It holds the capability snapshot shared by
// every kernel of a run and is not safe for concurrent use.
type Harness struct {
	caps       capability.Snapshot
	registry   *Registry
	logger     *zap.Logger
	arenaLimit int
	now        func() time.Time
}

// Option configures a Harness.
type Option func(*Harness)

// WithRegistry sets the registry used to resolve puppet masters.
func WithRegistry(r *Registry) Option {
	return func(h *Harness) { h.registry = r }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithArenaLimit caps the bytes one test case may allocate.
func WithArenaLimit(n int) Option {
	return func(h *Harness) { h.arenaLimit = n }
}

// WithClock replaces the clock used for benchmark timing.
func WithClock(now func() time.Time) Option {
	return func(h *Harness) { h.now = now }
}

// New returns a Harness for machines with capabilities caps, usually
// capability.Host().
func New(caps capability.Snapshot, opts ...Option) *Harness {
	h := &Harness{caps: caps, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Capabilities returns the snapshot the harness gates implementations on.
func (h *Harness) Capabilities() capability.Snapshot {
	return h.caps
}

// RunTests is the flat form of Run.
func (h *Harness) RunTests(desc Descriptor, entry Dispatcher, name string, p Params, sink *Collector, puppetMaster string) (bool, error) {
	return h.Run(TestCase{Name: name, Descriptor: desc, Entry: entry, Params: p, PuppetMaster: puppetMaster}, sink)
}

// target is a test case after puppet resolution.
type target struct {
	config string
	desc   Descriptor
	entry  Dispatcher
}

func (h *Harness) resolve(tc TestCase) (target, error) {
	if !tc.IsPuppet() {
		if tc.Entry == nil {
			return target{}, fmt.Errorf("%w: %s has no entry point", ErrInvalidParams, tc.Name)
		}
		return target{config: tc.Name, desc: tc.Descriptor, entry: tc.Entry}, nil
	}
	master, err := h.registry.Lookup(tc.PuppetMaster)
	if err != nil {
		return target{}, fmt.Errorf("puppet %s: %w", tc.Name, err)
	}
	return target{config: master.Name(), desc: master.Descriptor(), entry: master}, nil
}

// Run verifies every supported implementation of tc against the generic
// one, times them on aligned and unaligned buffers and appends the results
// to sink when it is non-nil.
//
// The bool is false when any implementation failed comparison. A non-nil
// error means the case could not run at all (malformed name, allocation
// failure, missing reference, unknown puppet master, invalid parameters);
// no results are recorded then.
func (h *Harness) Run(tc TestCase, sink *Collector) (bool, error) {
	p := tc.Params
	log := h.logger.With(zap.String("kernel", tc.Name))

	if err := p.Validate(); err != nil {
		return false, err
	}
	filter, err := compileFilter(p.Filter)
	if err != nil {
		return false, fmt.Errorf("%w: filter %q: %v", ErrInvalidParams, p.Filter, err)
	}
	tgt, err := h.resolve(tc)
	if err != nil {
		return false, err
	}
	sig, err := ParseSignature(tc.Name)
	if err != nil {
		return false, err
	}
	if err := checkConvention(tc.Name, sig); err != nil {
		return false, err
	}
	ref, err := tgt.desc.Reference()
	if err != nil {
		return false, fmt.Errorf("%s: %w", tc.Name, err)
	}
	if !h.caps.Supports(ref.Requires) {
		return false, fmt.Errorf("%w: %s reference requires %s", ErrNoReference, tc.Name, ref.Requires)
	}
	impls := tgt.desc.Supported(h.caps)
	for _, impl := range tgt.desc.Implementations {
		if !h.caps.Supports(impl.Requires) {
			log.Debug("skipping implementation", zap.String("impl", impl.Name), zap.Stringer("requires", impl.Requires))
		}
	}

	log.Info("running kernel tests",
		zap.String("config", tgt.config),
		zap.Int("vlen", p.VectorLength),
		zap.Int("iterations", p.Iterations),
		zap.Bool("benchmark", p.BenchmarkMode))
	if !p.BenchmarkMode && len(impls) < 2 {
		log.Warn("no architectures to test")
	}

	arena := &Arena{Limit: h.arenaLimit}
	defer arena.Release()

	var scalar complex64
	if len(sig.Scalars) > 0 {
		scalar = p.Scalar
	}
	prov := NewProvisioner(arena, p.Seed, p.ExtraDivisor)
	alloc := p.VectorLength + Slack
	master, err := prov.Inputs(sig, alloc)
	if err != nil {
		return false, err
	}
	sets := [2]*BufferSet{}
	if sets[Aligned], err = prov.Set(sig, alloc, true); err != nil {
		return false, err
	}
	if sets[Unaligned], err = prov.Set(sig, alloc, false); err != nil {
		return false, err
	}

	iv := NewInvoker(tc.Name, tgt.entry, tgt.desc, h.caps, scalar)
	sets[Aligned].Load(master)
	if err := iv.Invoke(ref.Name, sets[Aligned], p.VectorLength); err != nil {
		return false, fmt.Errorf("%s: reference implementation: %w", tc.Name, err)
	}
	want, err := prov.Snapshot(sets[Aligned])
	if err != nil {
		return false, err
	}

	bench := &Bench{Now: h.now, Filter: filter}
	agg := NewAggregator(tc.Name, tgt.config, p.VectorLength, p.Iterations, tgt.desc.Names())
	pass := true

	for _, impl := range impls {
		timed := bench.Eligible(impl.Name)
		if p.BenchmarkMode && !timed {
			continue
		}
		for _, class := range []Alignment{Aligned, Unaligned} {
			if class == Unaligned && impl.Aligned {
				continue
			}
			set := sets[class]
			ilog := log.With(zap.String("impl", impl.Name), zap.Stringer("class", class))

			set.Load(master)
			ok := true
			if err := iv.Invoke(impl.Name, set, p.VectorLength); err != nil {
				ilog.Error("invocation failed", zap.Error(err))
				ok = false
			} else if err := compareSets(want, set, p.VectorLength, p.Tolerance); err != nil {
				ilog.Error("fail on arch", zap.Error(err))
				ok = false
			}
			if !ok {
				pass = false
				agg.Fail(impl.Name)
			}

			if !timed {
				continue
			}
			if !ok && !p.BenchmarkMode {
				agg.Record(class, NewTimingResult(impl.Name, 0, false, false))
				continue
			}
			set.Load(master)
			elapsed, err := bench.Time(iv, impl.Name, set, p.VectorLength, p.Iterations)
			if err != nil {
				ilog.Error("benchmark failed", zap.Error(err))
				pass = false
				agg.Fail(impl.Name)
				agg.Record(class, NewTimingResult(impl.Name, 0, false, false))
				continue
			}
			tr := NewTimingResult(impl.Name, elapsed, ok, true)
			agg.Record(class, tr)
			ilog.Debug("completed", zap.Float64("ms", tr.Time))
		}
	}

	res := agg.Finalize()
	log.Info("kernel finished",
		zap.Bool("pass", pass),
		zap.Stringer("best_aligned", res.BestAligned),
		zap.Stringer("best_unaligned", res.BestUnaligned),
		zap.Strings("failures", res.Failures))
	if sink != nil {
		sink.Add(res)
	}
	return pass, nil
}
