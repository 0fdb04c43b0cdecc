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

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/RaduBerinde/rlelabel"
	"github.com/RaduBerinde/rlelabel/internal/scenario"
	"github.com/RaduBerinde/rlelabel/labelobject"
	"github.com/RaduBerinde/rlelabel/shape"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

func makeFormatter(inclusive bool) rlelabel.Formatter {
	if inclusive {
		return rlelabel.MakeInclusiveFormatter()
	}
	return rlelabel.MakeBasicFormatter()
}

func renderResults(w io.Writer, f rlelabel.Formatter, results []scenario.Result) {
	for _, r := range results {
		fmt.Fprintf(w, "%s %s: %t\n", r.Op, f.FormatIndex(r.Index), r.Value)
	}
}

// renderObject prints the lines of the object as a table, followed by its
// shape attributes.
func renderObject(w io.Writer, f rlelabel.Formatter, lo *labelobject.T[uint64]) {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"#", "Row", "Line", "Length"})
	i := 0
	for l := range lo.AllLines() {
		tbl.AppendRow(table.Row{i, f.FormatRowKey(l.RowKey()), f.FormatLine(l.Line()), humanize.Comma(int64(l.Length))})
		i++
	}
	tbl.AppendFooter(table.Row{"", "", "Total", humanize.Comma(int64(lo.Size()))})
	fmt.Fprintln(w, tbl.Render())

	a := shape.Compute(lo)
	fmt.Fprintf(w, "label %d: %s lines, %s pixels\n",
		lo.Label(), humanize.Comma(int64(lo.NumberOfLines())), humanize.Comma(int64(a.NumberOfPixels)))
	if a.NumberOfPixels == 0 {
		return
	}
	centroid := make([]string, len(a.Centroid))
	for i, c := range a.Centroid {
		centroid[i] = humanize.FtoaWithDigits(c, 3)
	}
	fmt.Fprintf(w, "centroid: (%s)\n", strings.Join(centroid, ", "))
	fmt.Fprintf(w, "bounding box: %s - %s\n", f.FormatIndex(a.Min), f.FormatIndex(a.Max))
	if !lo.IsOptimized() {
		fmt.Fprintln(w, "note: lines overlap or touch; run with --optimize for exact pixel counts")
	}
}
