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

// Package report serializes kernel test results.
//
// A Report can be written as JSON, YAML, an aligned text table or Go
// benchmark lines. The benchmark form can be read back with ParseBench and
// compared across builds with Compare.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ajroetker/kernelqa/capability"
	"github.com/ajroetker/kernelqa/qa"
)

// ErrFormat is returned for an unknown or unreadable report format.
var ErrFormat = errors.New("kernelqa: unsupported report format")

// Report is the outcome of one kernelqa run on one machine.
type Report struct {
	RunID     uuid.UUID           `json:"run_id" yaml:"run_id"`
	Created   time.Time           `json:"created" yaml:"created"`
	Benchmark bool                `json:"benchmark" yaml:"benchmark"`
	Host      capability.Snapshot `json:"host" yaml:"host"`
	Results   []qa.TestResults    `json:"results" yaml:"results"`
}

// New returns a report with a fresh run ID.
func New(host capability.Snapshot, benchmark bool, results []qa.TestResults) *Report {
	return &Report{
		RunID:     uuid.New(),
		Created:   time.Now().UTC(),
		Benchmark: benchmark,
		Host:      host,
		Results:   results,
	}
}

// Format selects a report encoding.
type Format int

const (
	JSON Format = iota
	YAML
	Table
	Bench
)

var formatNames = [...]string{JSON: "json", YAML: "yaml", Table: "table", Bench: "bench"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat resolves a format name such as "json" or "table".
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if strings.EqualFold(s, name) {
			return Format(f), nil
		}
	}
	if strings.EqualFold(s, "yml") {
		return YAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrFormat, s)
}

// Write encodes r to w.
func Write(w io.Writer, r *Report, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case Table:
		return WriteTable(w, r)
	case Bench:
		return WriteBench(w, r.Results)
	}
	return fmt.Errorf("%w: %v", ErrFormat, f)
}

// Read decodes a report written as JSON or YAML.
func Read(rd io.Reader, f Format) (*Report, error) {
	r := new(Report)
	var err error
	switch f {
	case JSON:
		err = json.NewDecoder(rd).Decode(r)
	case YAML:
		err = yaml.NewDecoder(rd).Decode(r)
	default:
		return nil, fmt.Errorf("%w: cannot read %v", ErrFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %v report: %w", f, err)
	}
	return r, nil
}
