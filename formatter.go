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
	"strings"
)

// Formatter is an interface for formatting indexes and lines.
type Formatter interface {
	// FormatIndex formats an index, e.g. "(1, 2, 3)".
	FormatIndex(idx Index) string
	// FormatRowKey formats a row key, e.g. "(2, 3)".
	FormatRowKey(k RowKey) string
	// FormatLine formats a row-relative line as an interval.
	FormatLine(l Line) string
	// FormatIndexLine formats a line together with its row.
	FormatIndexLine(l IndexLine) string
}

// MakeBasicFormatter creates a Formatter that uses half-open intervals:
// "[1, 5)".
func MakeBasicFormatter() Formatter {
	return intervalFormatter{}
}

// MakeInclusiveFormatter creates a Formatter that uses closed intervals ending
// at the last position of each line: "[1, 4]".
func MakeInclusiveFormatter() Formatter {
	return intervalFormatter{inclusive: true}
}

type intervalFormatter struct {
	inclusive bool
}

var _ Formatter = intervalFormatter{}

func (intervalFormatter) FormatIndex(idx Index) string {
	return formatTuple(idx)
}

func (intervalFormatter) FormatRowKey(k RowKey) string {
	return formatTuple(k)
}

func (f intervalFormatter) FormatLine(l Line) string {
	if f.inclusive {
		return fmt.Sprintf("[%d, %d]", l.Position, l.LastPosition())
	}
	return fmt.Sprintf("[%d, %d)", l.Position, l.End())
}

func (f intervalFormatter) FormatIndexLine(l IndexLine) string {
	return fmt.Sprintf("%s: %s", f.FormatRowKey(l.RowKey()), f.FormatLine(l.Line()))
}

func formatTuple(v []int64) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, x := range v {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(&b, x)
	}
	b.WriteByte(')')
	return b.String()
}
