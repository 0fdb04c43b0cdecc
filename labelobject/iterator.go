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
	"iter"

	"github.com/RaduBerinde/rlelabel"
)

// LineIterator is a forward iterator over the lines of a label object. Rows
// are visited in row key order and lines in sorted order within each row.
//
// The object must not be modified while it is iterated.
//
//	for it := lo.Lines(); !it.IsAtEnd(); it.Next() {
//	  l := it.Line()
//	  ...
//	}
type LineIterator[L any] struct {
	lo  *T[L]
	row *row
	// pos is the position of the current line in row.lines.
	pos int
}

// Lines returns a line iterator positioned at the first line.
func (t *T[L]) Lines() LineIterator[L] {
	it := LineIterator[L]{lo: t}
	it.GoToBegin()
	return it
}

// GoToBegin moves the iterator to the first line.
func (it *LineIterator[L]) GoToBegin() {
	it.row = it.lo.firstRow()
	it.pos = 0
}

// IsAtEnd returns true if the iterator is past the last line.
func (it *LineIterator[L]) IsAtEnd() bool {
	return it.row == nil
}

// Line returns the current line. The result does not alias the object.
func (it *LineIterator[L]) Line() rlelabel.IndexLine {
	l := it.row.lines[it.pos]
	return rlelabel.MakeIndexLine(it.row.key.MakeIndexAt(l.Position), l.Length)
}

// Next advances to the next line.
func (it *LineIterator[L]) Next() {
	it.pos++
	if it.pos >= len(it.row.lines) {
		it.row = it.lo.rowAfter(it.row)
		it.pos = 0
	}
}

// Equal returns true if both iterators are at the same position. Both must
// iterate over the same object.
func (it *LineIterator[L]) Equal(other *LineIterator[L]) bool {
	if it.lo != other.lo {
		panic(fmt.Errorf("%w: comparing iterators of different label objects", ErrInvariantViolation))
	}
	return it.row == other.row && it.pos == other.pos
}

// IndexIterator is a forward iterator over the indexes of a label object, in
// the order of the lines (see LineIterator).
//
// The object must not be modified while it is iterated.
type IndexIterator[L any] struct {
	lines LineIterator[L]
	index rlelabel.Index
	// last is the last position of the current line.
	last int64
}

// Indexes returns an index iterator positioned at the first index.
func (t *T[L]) Indexes() IndexIterator[L] {
	it := IndexIterator[L]{lines: LineIterator[L]{lo: t}}
	it.GoToBegin()
	return it
}

// GoToBegin moves the iterator to the first index.
func (it *IndexIterator[L]) GoToBegin() {
	it.lines.GoToBegin()
	it.loadLine()
}

// IsAtEnd returns true if the iterator is past the last index.
func (it *IndexIterator[L]) IsAtEnd() bool {
	return it.lines.IsAtEnd()
}

// Index returns the current index. The returned slice is only valid until the
// next call to Next; it must be cloned to be retained.
func (it *IndexIterator[L]) Index() rlelabel.Index {
	return it.index
}

// Next advances to the next index.
func (it *IndexIterator[L]) Next() {
	it.index[0]++
	if it.index[0] > it.last {
		// We've reached the end of the line; go to the next one.
		it.lines.Next()
		it.loadLine()
	}
}

// Equal returns true if both iterators are at the same position. Both must
// iterate over the same object.
func (it *IndexIterator[L]) Equal(other *IndexIterator[L]) bool {
	if !it.lines.Equal(&other.lines) {
		return false
	}
	return it.IsAtEnd() || it.index[0] == other.index[0]
}

func (it *IndexIterator[L]) loadLine() {
	if it.lines.IsAtEnd() {
		it.index = nil
		return
	}
	l := it.lines.Line()
	it.index = l.Index
	it.last = l.Line().LastPosition()
}

// All returns a sequence of all the indexes in the object, in iteration
// order. Each yielded index is only valid during its iteration step.
func (t *T[L]) All() iter.Seq[rlelabel.Index] {
	return func(yield func(rlelabel.Index) bool) {
		for it := t.Indexes(); !it.IsAtEnd(); it.Next() {
			if !yield(it.Index()) {
				return
			}
		}
	}
}

// AllLines returns a sequence of all the lines in the object, in iteration
// order.
func (t *T[L]) AllLines() iter.Seq[rlelabel.IndexLine] {
	return func(yield func(rlelabel.IndexLine) bool) {
		for it := t.Lines(); !it.IsAtEnd(); it.Next() {
			if !yield(it.Line()) {
				return
			}
		}
	}
}
