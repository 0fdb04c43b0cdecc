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

package labelobject

import (
	"fmt"
	"slices"
	"sort"

	"github.com/RaduBerinde/rlelabel"
)

// row holds the lines of one row key, sorted by (position, length). A row in
// the tree always has at least one line.
type row struct {
	key   rlelabel.RowKey
	lines []rlelabel.Line
}

func rowLess(a, b *row) bool {
	return a.key.Compare(b.key) < 0
}

// find returns the position in r.lines of the line containing pos, or -1.
//
// Only the last line starting at or before pos is considered; if the row has
// overlapping lines (before Optimize) a covering line further left can be
// missed.
func (r *row) find(pos int64) int {
	i := sort.Search(len(r.lines), func(i int) bool {
		return r.lines[i].Position > pos
	})
	if i == 0 {
		// Strictly before the first line.
		return -1
	}
	i--
	if !r.lines[i].HasPosition(pos) {
		return -1
	}
	return i
}

// insert adds a line at its sorted position, without merging.
func (r *row) insert(l rlelabel.Line) {
	i, _ := slices.BinarySearchFunc(r.lines, l, rlelabel.Line.Compare)
	r.lines = slices.Insert(r.lines, i, l)
}

// optimize sorts the lines and merges all overlapping or touching lines.
func (r *row) optimize() {
	slices.SortFunc(r.lines, rlelabel.Line.Compare)
	out := r.lines[:0]
	cur := r.lines[0]
	for _, l := range r.lines[1:] {
		if !cur.MergeNext(l) {
			out = append(out, cur)
			cur = l
		}
	}
	out = append(out, cur)
	// Clear the tail so the backing array doesn't look populated.
	clear(r.lines[len(out):])
	r.lines = out
}

// isOptimized returns true if the lines are pairwise disjoint and separated
// by at least one position.
func (r *row) isOptimized() bool {
	for i := 1; i < len(r.lines); i++ {
		if r.lines[i-1].End() >= r.lines[i].Position {
			return false
		}
	}
	return true
}

func (r *row) clone() *row {
	return &row{key: slices.Clone(r.key), lines: slices.Clone(r.lines)}
}

// getRow returns the row for the given index (axis 0 ignored), or nil.
func (t *T[L]) getRow(idx rlelabel.Index) *row {
	// The key does not escape; no need to copy.
	r, ok := t.rows.Get(&row{key: rlelabel.RowKey(idx[1:])})
	if !ok {
		return nil
	}
	return r
}

// getOrCreateRow returns the row for the given index, inserting an empty one
// if necessary. The caller must add a line to a new row.
func (t *T[L]) getOrCreateRow(idx rlelabel.Index) *row {
	if r := t.getRow(idx); r != nil {
		return r
	}
	r := &row{key: idx.RowKey()}
	t.rows.ReplaceOrInsert(r)
	return r
}

// firstRow returns the first non-empty row, or nil.
func (t *T[L]) firstRow() *row {
	var first *row
	t.rows.Ascend(func(r *row) bool {
		if len(r.lines) == 0 {
			return true
		}
		first = r
		return false
	})
	return first
}

// rowAfter returns the first non-empty row with a key greater than r's, or
// nil.
func (t *T[L]) rowAfter(r *row) *row {
	var next *row
	t.rows.AscendGreaterOrEqual(r, func(x *row) bool {
		if len(x.lines) == 0 || x.key.Compare(r.key) == 0 {
			return true
		}
		next = x
		return false
	})
	return next
}

func (t *T[L]) checkDimension(n int, what string) {
	if n != t.dim {
		panic(fmt.Errorf("%w: %s has dimension %d, label object has dimension %d",
			ErrDimensionMismatch, what, n, t.dim))
	}
}
