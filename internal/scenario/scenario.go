// Copyright 2025 Radu Berinde.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scenario loads YAML descriptions of label object operations and
// applies them.
//
// Example:
//
//	dimension: 3
//	label: 7
//	ops:
//	  - add-line: {index: [0, 0, 0], length: 10}
//	  - remove: [4, 0, 0]
//	  - shift: [0, 1, 0]
//	  - optimize: true
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/RaduBerinde/rlelabel"
	"github.com/RaduBerinde/rlelabel/labelobject"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned for scenarios that fail validation.
var ErrInvalid = errors.New("invalid scenario")

// Scenario is a sequence of operations applied to a new label object.
type Scenario struct {
	// Dimension of the label object.
	Dimension int `yaml:"dimension"`
	// Label associated with the object.
	Label uint64 `yaml:"label"`
	// Optimize the object after the last operation.
	Optimize bool `yaml:"optimize"`
	Ops      []Op `yaml:"ops"`
}

// Op is a single operation; exactly one field must be set.
type Op struct {
	Add      []int64   `yaml:"add,omitempty"`
	AddLine  *LineSpec `yaml:"add-line,omitempty"`
	Remove   []int64   `yaml:"remove,omitempty"`
	Has      []int64   `yaml:"has,omitempty"`
	Shift    []int64   `yaml:"shift,omitempty"`
	Optimize bool      `yaml:"optimize,omitempty"`
	Clear    bool      `yaml:"clear,omitempty"`
}

// LineSpec describes a line starting at Index.
type LineSpec struct {
	Index  []int64 `yaml:"index"`
	Length uint64  `yaml:"length"`
}

// Result is the outcome of a query (has) or removal.
type Result struct {
	Op    string
	Index rlelabel.Index
	Value bool
}

// DefaultScenario returns an empty scenario with default settings.
func DefaultScenario() *Scenario {
	return &Scenario{
		Dimension: 3,
		Label:     1,
	}
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Parse decodes a YAML scenario.
func Parse(data []byte) (*Scenario, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a YAML scenario. Fields not set in the input keep their
// DefaultScenario values.
func Read(r io.Reader) (*Scenario, error) {
	s := DefaultScenario()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the name of the operation.
func (op *Op) Name() string {
	switch {
	case op.Add != nil:
		return "add"
	case op.AddLine != nil:
		return "add-line"
	case op.Remove != nil:
		return "remove"
	case op.Has != nil:
		return "has"
	case op.Shift != nil:
		return "shift"
	case op.Optimize:
		return "optimize"
	case op.Clear:
		return "clear"
	default:
		return ""
	}
}

func (op *Op) numSet() int {
	n := 0
	for _, set := range []bool{
		op.Add != nil, op.AddLine != nil, op.Remove != nil, op.Has != nil,
		op.Shift != nil, op.Optimize, op.Clear,
	} {
		if set {
			n++
		}
	}
	return n
}

// Validate checks that the scenario can be applied without errors.
func (s *Scenario) Validate() error {
	if s.Dimension < 1 {
		return fmt.Errorf("%w: dimension must be at least 1, got %d", ErrInvalid, s.Dimension)
	}
	checkDim := func(i int, v []int64) error {
		if len(v) != s.Dimension {
			return fmt.Errorf("%w: op %d: %d coordinates, expected %d", ErrInvalid, i, len(v), s.Dimension)
		}
		return nil
	}
	for i := range s.Ops {
		op := &s.Ops[i]
		if n := op.numSet(); n != 1 {
			return fmt.Errorf("%w: op %d: exactly one operation must be set, got %d", ErrInvalid, i, n)
		}
		var err error
		switch {
		case op.Add != nil:
			err = checkDim(i, op.Add)
		case op.AddLine != nil:
			if err := checkDim(i, op.AddLine.Index); err != nil {
				return err
			}
			if !rlelabel.MakeLine(op.AddLine.Index[0], op.AddLine.Length).IsValid() {
				return fmt.Errorf("%w: op %d: invalid line of length %d", ErrInvalid, i, op.AddLine.Length)
			}
		case op.Remove != nil:
			err = checkDim(i, op.Remove)
		case op.Has != nil:
			err = checkDim(i, op.Has)
		case op.Shift != nil:
			err = checkDim(i, op.Shift)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Run applies the scenario to a new label object. It returns the object and
// the results of the has and remove operations, in order.
func (s *Scenario) Run(logger *slog.Logger) (*labelobject.T[uint64], []Result, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	lo := labelobject.New[uint64](s.Dimension)
	lo.SetLabel(s.Label)
	var results []Result
	for i := range s.Ops {
		op := &s.Ops[i]
		attrs := []any{slog.Int("op", i), slog.String("kind", op.Name())}
		switch {
		case op.Add != nil:
			lo.AddIndex(op.Add)
			attrs = append(attrs, slog.Any("index", op.Add))

		case op.AddLine != nil:
			lo.AddLineAt(op.AddLine.Index, op.AddLine.Length)
			attrs = append(attrs, slog.Any("index", op.AddLine.Index), slog.Uint64("length", op.AddLine.Length))

		case op.Remove != nil:
			ok := lo.RemoveIndex(op.Remove)
			results = append(results, Result{Op: "remove", Index: op.Remove, Value: ok})
			attrs = append(attrs, slog.Any("index", op.Remove), slog.Bool("removed", ok))

		case op.Has != nil:
			ok := lo.HasIndex(op.Has)
			results = append(results, Result{Op: "has", Index: op.Has, Value: ok})
			attrs = append(attrs, slog.Any("index", op.Has), slog.Bool("found", ok))

		case op.Shift != nil:
			lo.Shift(op.Shift)
			attrs = append(attrs, slog.Any("offset", op.Shift))

		case op.Optimize:
			lo.Optimize()

		case op.Clear:
			lo.Clear()
		}
		logger.Debug("applied operation", append(attrs, slog.Int("lines", lo.NumberOfLines()))...)
	}
	if s.Optimize {
		lo.Optimize()
		logger.Debug("optimized", slog.Int("lines", lo.NumberOfLines()))
	}
	return lo, results, nil
}
