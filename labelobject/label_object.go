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

// Package labelobject implements a run-length encoded set of N-dimensional
// indexes, tagged with a label.
//
// The set is organized in rows: all indexes that only differ in their axis 0
// coordinate belong to the same row. Each row stores a sorted sequence of
// lines (contiguous runs along axis 0).
//
// A T is not safe for concurrent mutation.
package labelobject

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/RaduBerinde/rlelabel"
	"github.com/google/btree"
)

var (
	// ErrOutOfRange is returned when a line or index ordinal is past the end
	// of the object.
	ErrOutOfRange = errors.New("ordinal out of range")
	// ErrDimensionMismatch is the panic cause when an index or offset does not
	// match the dimension of the object.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrInvariantViolation is the panic cause when internal consistency
	// checks fail.
	ErrInvariantViolation = errors.New("invariant violation")
)

const btreeDegree = 8

// T is a run-length encoded label object: a set of N-dimensional indexes with
// an associated label of type L.
//
// Lines added with AddIndex or AddLine are not checked against the existing
// lines; the same index can end up covered more than once. Optimize must be
// called before relying on Size or on the uniqueness of iterated indexes.
type T[L any] struct {
	dim      int
	label    L
	attrs    Attributes
	rows     *btree.BTreeG[*row]
	numLines int
}

// New creates an empty label object for indexes of the given dimension.
func New[L any](dim int) *T[L] {
	t := &T[L]{}
	t.Init(dim)
	return t
}

// Init initializes an empty label object; it can be used instead of New.
func (t *T[L]) Init(dim int) {
	if dim < 1 {
		panic(fmt.Sprintf("invalid dimension %d", dim))
	}
	t.dim = dim
	t.rows = btree.NewG[*row](btreeDegree, rowLess)
	t.numLines = 0
}

// Dimension returns the dimension of the indexes in the object.
func (t *T[L]) Dimension() int {
	return t.dim
}

// Label returns the label associated with the object.
func (t *T[L]) Label() L {
	return t.label
}

// SetLabel sets the label associated with the object.
func (t *T[L]) SetLabel(label L) {
	t.label = label
}

// Attributes returns the attributes attached to the object (or nil).
func (t *T[L]) Attributes() Attributes {
	return t.attrs
}

// SetAttributes attaches attributes to the object. The attributes must not
// hold a reference to the object.
func (t *T[L]) SetAttributes(attrs Attributes) {
	t.attrs = attrs
}

// HasIndex returns true if the object contains the given index.
//
// The result is only reliable if there are no overlapping lines in the row of
// the index (see Optimize).
func (t *T[L]) HasIndex(idx rlelabel.Index) bool {
	t.checkDimension(len(idx), "index")
	r := t.getRow(idx)
	return r != nil && r.find(idx[0]) >= 0
}

// AddIndex adds an index to the object, without any check. If the index is
// already in the object, it will be covered more than once.
func (t *T[L]) AddIndex(idx rlelabel.Index) {
	t.AddLineAt(idx, 1)
}

// AddLineAt adds the line [idx[0], idx[0]+length) in the row of idx, without
// checking the existing lines. Panics if the line is empty or ends past
// math.MaxInt64.
func (t *T[L]) AddLineAt(idx rlelabel.Index, length uint64) {
	t.checkDimension(len(idx), "index")
	l := rlelabel.MakeLine(idx[0], length)
	if !l.IsValid() {
		panic(fmt.Errorf("%w: invalid line of length %d at %v", ErrInvariantViolation, length, idx))
	}
	t.getOrCreateRow(idx).insert(l)
	t.numLines++
}

// AddLine adds a line to the object, without any check.
func (t *T[L]) AddLine(l rlelabel.IndexLine) {
	t.AddLineAt(l.Index, l.Length)
}

// RemoveIndex removes an index from the object. Depending on where the index
// is in its line, the line is removed, shrunk or split in two.
//
// Returns false if the index was not in the object.
func (t *T[L]) RemoveIndex(idx rlelabel.Index) bool {
	t.checkDimension(len(idx), "index")
	r := t.getRow(idx)
	if r == nil {
		return false
	}
	pos := idx[0]
	i := r.find(pos)
	if i < 0 {
		return false
	}
	l := &r.lines[i]
	switch {
	case l.Length == 1:
		if len(r.lines) == 1 {
			t.rows.Delete(r)
		} else {
			r.lines = slices.Delete(r.lines, i, i+1)
		}
		t.numLines--

	case l.Position == pos:
		l.Position++
		l.Length--

	case l.LastPosition() == pos:
		l.Length--

	default:
		// Split the line in two parts.
		orig := *l
		l.Length = uint64(pos - orig.Position)
		rest := rlelabel.MakeLine(pos+1, orig.Length-l.Length-1)
		r.lines = slices.Insert(r.lines, i+1, rest)
		t.numLines++
	}
	return true
}

// NumberOfLines returns the number of lines stored in the object.
func (t *T[L]) NumberOfLines() int {
	return t.numLines
}

// Line returns the i-th line, in iteration order. The cost is O(i).
func (t *T[L]) Line(i int) (rlelabel.IndexLine, error) {
	if i >= 0 && i < t.numLines {
		n := 0
		for it := t.Lines(); !it.IsAtEnd(); it.Next() {
			if n == i {
				return it.Line(), nil
			}
			n++
		}
	}
	return rlelabel.IndexLine{}, fmt.Errorf("line %d: %w (%d lines)", i, ErrOutOfRange, t.numLines)
}

// Size returns the number of indexes covered by the lines in the object.
//
// Indexes covered by more than one line are counted more than once; call
// Optimize first to get the number of distinct indexes.
func (t *T[L]) Size() uint64 {
	var size uint64
	t.rows.Ascend(func(r *row) bool {
		for _, l := range r.lines {
			size += l.Length
		}
		return true
	})
	return size
}

// Empty returns true if the object has no lines.
func (t *T[L]) Empty() bool {
	return t.rows.Len() == 0
}

// Clear removes all lines. The label and the attributes are kept.
func (t *T[L]) Clear() {
	t.rows.Clear(false /* addNodesToFreelist */)
	t.numLines = 0
}

// Index returns the index with the given offset in iteration order. Valid
// offsets are in [0, Size()). The cost is O(number of lines).
func (t *T[L]) Index(offset uint64) (rlelabel.Index, error) {
	o := offset
	var res rlelabel.Index
	t.rows.Ascend(func(r *row) bool {
		for _, l := range r.lines {
			if o < l.Length {
				res = r.key.MakeIndexAt(l.Position + int64(o))
				return false
			}
			o -= l.Length
		}
		return true
	})
	if res == nil {
		return nil, fmt.Errorf("index offset %d: %w", offset, ErrOutOfRange)
	}
	return res, nil
}

// CopyAttributesFrom copies the label from another object, as well as the
// attributes if both objects have attributes attached. The source attributes
// are not copied to an object without attributes; the caller must attach
// attributes (e.g. with SetAttributes) beforehand.
func (t *T[L]) CopyAttributesFrom(src *T[L]) {
	if src == nil {
		panic(fmt.Errorf("%w: nil source", ErrInvariantViolation))
	}
	t.label = src.label
	if t.attrs != nil && src.attrs != nil {
		t.attrs.CopyAttributesFrom(src.attrs)
	}
}

// CopyAllFrom replaces the lines of the object with a copy of the lines of
// another object, then copies the attributes (see CopyAttributesFrom).
func (t *T[L]) CopyAllFrom(src *T[L]) {
	if src == nil {
		panic(fmt.Errorf("%w: nil source", ErrInvariantViolation))
	}
	if t == src {
		return
	}
	t.Init(src.dim)
	src.rows.Ascend(func(r *row) bool {
		t.rows.ReplaceOrInsert(r.clone())
		return true
	})
	t.numLines = src.numLines
	t.CopyAttributesFrom(src)
}

// Optimize reorders the lines in each row, merges the touching or overlapping
// lines and ensures that no index is covered by more than one line.
func (t *T[L]) Optimize() {
	var empty []*row
	n := 0
	t.rows.Ascend(func(r *row) bool {
		if len(r.lines) == 0 {
			empty = append(empty, r)
			return true
		}
		r.optimize()
		n += len(r.lines)
		return true
	})
	for _, r := range empty {
		t.rows.Delete(r)
	}
	t.numLines = n
}

// IsOptimized returns true if no two lines in the same row overlap or touch.
// It is always true right after Optimize.
func (t *T[L]) IsOptimized() bool {
	res := true
	t.rows.Ascend(func(r *row) bool {
		res = r.isOptimized()
		return res
	})
	return res
}

// Shift translates all indexes in the object by the given offset.
func (t *T[L]) Shift(off rlelabel.Offset) {
	t.checkDimension(len(off), "offset")
	if off.IsZero() {
		return
	}
	if off.IsZeroFrom(1) {
		// The row keys don't change; only shift the line positions.
		t.rows.Ascend(func(r *row) bool {
			for i := range r.lines {
				r.lines[i].Position += off[0]
			}
			return true
		})
		return
	}
	// The row keys are shifted; we have to recreate the tree. All keys move by
	// the same offset, so no two rows collide.
	old := make([]*row, 0, t.rows.Len())
	t.rows.Ascend(func(r *row) bool {
		old = append(old, r)
		return true
	})
	t.rows.Clear(false /* addNodesToFreelist */)
	for _, r := range old {
		r.key = r.key.Shift(off)
		for i := range r.lines {
			r.lines[i].Position += off[0]
		}
		t.rows.ReplaceOrInsert(r)
	}
}

// CheckInvariants can be used in testing builds to verify internal invariants.
func (t *T[L]) CheckInvariants() {
	n := 0
	t.rows.Ascend(func(r *row) bool {
		if len(r.key) != t.dim-1 {
			panic(fmt.Errorf("%w: row key %v has wrong dimension", ErrInvariantViolation, r.key))
		}
		if len(r.lines) == 0 {
			panic(fmt.Errorf("%w: empty row %v", ErrInvariantViolation, r.key))
		}
		for i, l := range r.lines {
			if l.Length == 0 {
				panic(fmt.Errorf("%w: empty line in row %v", ErrInvariantViolation, r.key))
			}
			if i > 0 && l.Less(r.lines[i-1]) {
				panic(fmt.Errorf("%w: unsorted lines in row %v", ErrInvariantViolation, r.key))
			}
		}
		n += len(r.lines)
		return true
	})
	if n != t.numLines {
		panic(fmt.Errorf("%w: %d lines, expected %d", ErrInvariantViolation, n, t.numLines))
	}
}

// String returns a description of the object, one row per text line.
func (t *T[L]) String(f rlelabel.Formatter) string {
	var b strings.Builder
	t.rows.Ascend(func(r *row) bool {
		b.WriteString(f.FormatRowKey(r.key))
		b.WriteByte(':')
		for _, l := range r.lines {
			b.WriteByte(' ')
			b.WriteString(f.FormatLine(l))
		}
		b.WriteByte('\n')
		return true
	})
	if b.Len() == 0 {
		return "<empty>"
	}
	return b.String()
}
