// Package config loads kernelqa batch files.
//
// A batch file is YAML:
//
//	defaults:
//	  vlen: 8191
//	  iterations: 100
//	  seed: 42
//	kernels:
//	  32f_x2_dot_prod_32f:
//	    tolerance: 0.5
//	  32f_s32f_convert_16i:
//	    scalar: {re: 16384}
//	pattern: "^32f"
//	mask: [avx512f]
//	store: ~/.cache/kernelqa
//	format: table
//
// Every field is optional. Defaults are layered on qa.DefaultParams and
// per-kernel entries are layered on the resulting test case.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/ajroetker/kernelqa/capability"
	"github.com/ajroetker/kernelqa/qa"
	"github.com/ajroetker/kernelqa/report"
)

// Complex is a YAML-friendly complex scalar.
type Complex struct {
	Re float32 `yaml:"re"`
	Im float32 `yaml:"im"`
}

// Params overrides fields of qa.Params. Nil fields leave the target alone.
type Params struct {
	Tolerance    *float64 `yaml:"tolerance,omitempty"`
	Scalar       *Complex `yaml:"scalar,omitempty"`
	VectorLength *int     `yaml:"vlen,omitempty"`
	Iterations   *int     `yaml:"iterations,omitempty"`
	Benchmark    *bool    `yaml:"benchmark,omitempty"`
	Filter       *string  `yaml:"filter,omitempty"`
	ExtraDivisor *float64 `yaml:"extra_divisor,omitempty"`
	Seed         *uint64  `yaml:"seed,omitempty"`
}

// ApplyTo overwrites the fields of p that are set.
func (o Params) ApplyTo(p *qa.Params) {
	if o.Tolerance != nil {
		p.Tolerance = *o.Tolerance
	}
	if o.Scalar != nil {
		p.Scalar = complex(o.Scalar.Re, o.Scalar.Im)
	}
	if o.VectorLength != nil {
		p.VectorLength = *o.VectorLength
	}
	if o.Iterations != nil {
		p.Iterations = *o.Iterations
	}
	if o.Benchmark != nil {
		p.BenchmarkMode = *o.Benchmark
	}
	if o.Filter != nil {
		p.Filter = *o.Filter
	}
	if o.ExtraDivisor != nil {
		p.ExtraDivisor = *o.ExtraDivisor
	}
	if o.Seed != nil {
		p.Seed = *o.Seed
	}
}

// Config is a parsed batch file.
type Config struct {
	Defaults Params            `yaml:"defaults"`
	Kernels  map[string]Params `yaml:"kernels"`
	// Pattern selects test cases by name.
	Pattern string `yaml:"pattern"`
	// Mask names capability features to hide from the harness.
	Mask []string `yaml:"mask"`
	// Store is the badger directory for persisted runs; empty disables it.
	Store string `yaml:"store"`
	// Format is the report format written to stdout.
	Format string `yaml:"format"`
	// Preferences is the path of the preferences file written by profile.
	Preferences string `yaml:"preferences"`
}

// Default returns the configuration used without a batch file.
func Default() *Config {
	return &Config{Format: report.Table.String()}
}

// Load reads and validates the batch file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a batch file. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the format, mask, pattern and default parameters.
func (c *Config) Validate() error {
	if _, err := report.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := capability.ParseFeatures(c.Mask...); err != nil {
		return err
	}
	if _, err := regexp.Compile(c.Pattern); err != nil {
		return fmt.Errorf("%w: kernel pattern %q: %v", qa.ErrInvalidParams, c.Pattern, err)
	}
	return c.Base().Validate()
}

// Base returns qa.DefaultParams with the defaults section applied.
func (c *Config) Base() qa.Params {
	p := qa.DefaultParams()
	c.Defaults.ApplyTo(&p)
	return p
}

// ReportFormat returns the parsed Format field.
func (c *Config) ReportFormat() report.Format {
	f, err := report.ParseFormat(c.Format)
	if err != nil {
		return report.Table
	}
	return f
}

// Capabilities returns host with the masked features cleared.
func (c *Config) Capabilities(host capability.Snapshot) capability.Snapshot {
	mask, err := capability.ParseFeatures(c.Mask...)
	if err != nil || mask == capability.None {
		return host
	}
	return host.Without(mask)
}

// Apply layers the per-kernel entries onto cases and validates the result.
// An entry naming no case is an error.
func (c *Config) Apply(cases []qa.TestCase) ([]qa.TestCase, error) {
	seen := make(map[string]bool, len(c.Kernels))
	out := make([]qa.TestCase, len(cases))
	for i, tc := range cases {
		if o, ok := c.Kernels[tc.Name]; ok {
			o.ApplyTo(&tc.Params)
			seen[tc.Name] = true
		}
		if err := tc.Params.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", tc.Name, err)
		}
		out[i] = tc
	}
	for name := range c.Kernels {
		if !seen[name] {
			return nil, fmt.Errorf("%w: config entry %q", qa.ErrUnknownKernel, name)
		}
	}
	return out, nil
}
