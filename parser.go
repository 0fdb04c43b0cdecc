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

package rlelabel

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser is the inverse of Formatter. All methods parse a prefix of the input
// and return the remainder with surrounding whitespace removed.
type Parser interface {
	// ParseIndex parses an index, e.g. "(1, 2, 3)".
	ParseIndex(input string) (idx Index, remainder string, err error)
	// ParseLine parses a row-relative line, e.g. "[1, 5)".
	ParseLine(input string) (l Line, remainder string, err error)
	// ParseIndexLine parses a line with its row, e.g. "(2, 3): [1, 5)".
	ParseIndexLine(input string) (l IndexLine, remainder string, err error)
}

// MakeBasicParser creates a Parser for the MakeBasicFormatter format.
func MakeBasicParser() Parser {
	return intervalParser{}
}

// MakeInclusiveParser creates a Parser for the MakeInclusiveFormatter format.
func MakeInclusiveParser() Parser {
	return intervalParser{inclusive: true}
}

// MustParseIndex parses a complete index and panics on error or trailing
// input.
func MustParseIndex(p Parser, input string) Index {
	idx, rem, err := p.ParseIndex(input)
	if err != nil {
		panic(err)
	}
	if rem != "" {
		panic(fmt.Sprintf("%q: unexpected trailing input %q", input, rem))
	}
	return idx
}

// MustParseLine parses a complete line and panics on error or trailing input.
func MustParseLine(p Parser, input string) Line {
	l, rem, err := p.ParseLine(input)
	if err != nil {
		panic(err)
	}
	if rem != "" {
		panic(fmt.Sprintf("%q: unexpected trailing input %q", input, rem))
	}
	return l
}

// MustParseIndexLine parses a complete line with its row and panics on error
// or trailing input.
func MustParseIndexLine(p Parser, input string) IndexLine {
	l, rem, err := p.ParseIndexLine(input)
	if err != nil {
		panic(err)
	}
	if rem != "" {
		panic(fmt.Sprintf("%q: unexpected trailing input %q", input, rem))
	}
	return l
}

type intervalParser struct {
	inclusive bool
}

var _ Parser = intervalParser{}

func (intervalParser) ParseIndex(input string) (Index, string, error) {
	v, rem, err := parseTuple(input)
	if err != nil {
		return nil, "", err
	}
	return Index(v), rem, nil
}

func (p intervalParser) ParseLine(input string) (Line, string, error) {
	closing := byte(')')
	if p.inclusive {
		closing = ']'
	}
	if !strings.HasPrefix(input, "[") {
		return Line{}, "", fmt.Errorf("%q: line must start with '['", input)
	}
	end := strings.IndexAny(input, ")]")
	if end == -1 || input[end] != closing {
		return Line{}, "", fmt.Errorf("%q: line must end with '%c'", input, closing)
	}
	parts := strings.Split(input[1:end], ", ")
	if len(parts) != 2 {
		return Line{}, "", fmt.Errorf("%q: invalid line", input)
	}
	start, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Line{}, "", fmt.Errorf("%q: invalid start: %w", input, err)
	}
	last, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Line{}, "", fmt.Errorf("%q: invalid end: %w", input, err)
	}
	if !p.inclusive {
		last--
	}
	if last < start {
		return Line{}, "", fmt.Errorf("%q: empty line", input)
	}
	l := Line{Position: start}
	l.SetLastPosition(last)
	return l, strings.TrimSpace(input[end+1:]), nil
}

func (p intervalParser) ParseIndexLine(input string) (IndexLine, string, error) {
	key, rem, err := parseTuple(input)
	if err != nil {
		return IndexLine{}, "", err
	}
	rem, ok := strings.CutPrefix(rem, ":")
	if !ok {
		return IndexLine{}, "", fmt.Errorf("%q: expected ':' after row", input)
	}
	l, rem, err := p.ParseLine(strings.TrimSpace(rem))
	if err != nil {
		return IndexLine{}, "", err
	}
	return IndexLine{Index: RowKey(key).MakeIndexAt(l.Position), Length: l.Length}, rem, nil
}

func parseTuple(input string) ([]int64, string, error) {
	if !strings.HasPrefix(input, "(") {
		return nil, "", fmt.Errorf("%q: index must start with '('", input)
	}
	end := strings.IndexByte(input, ')')
	if end == -1 {
		return nil, "", fmt.Errorf("%q: index must end with ')'", input)
	}
	rem := strings.TrimSpace(input[end+1:])
	if end == 1 {
		return []int64{}, rem, nil
	}
	parts := strings.Split(input[1:end], ", ")
	res := make([]int64, len(parts))
	for i, s := range parts {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, "", fmt.Errorf("%q: invalid coordinate %q: %w", input, s, err)
		}
		res[i] = v
	}
	return res, rem, nil
}
