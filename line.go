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
	"cmp"
	"math"
)

// Line is a contiguous run of positions along axis 0, inside a row. It covers
// [Position, Position+Length). Length is always at least 1 and the end fits
// in an int64.
type Line struct {
	Position int64
	Length   uint64
}

// MakeLine is a convenience constructor.
func MakeLine(pos int64, length uint64) Line {
	return Line{Position: pos, Length: length}
}

// IsValid returns true if the line is not empty and its end is representable
// as an int64. Accessors like End and HasPosition assume a valid line.
func (l Line) IsValid() bool {
	return l.Length > 0 && l.Length <= math.MaxInt64 && l.Position <= math.MaxInt64-int64(l.Length)
}

// End returns the first position after the line.
func (l Line) End() int64 {
	return l.Position + int64(l.Length)
}

// LastPosition returns the last position covered by the line.
func (l Line) LastPosition() int64 {
	return l.End() - 1
}

// SetLastPosition changes the length so that pos is the last position. pos
// must not be before the line's position.
func (l *Line) SetLastPosition(pos int64) {
	l.Length = uint64(pos + 1 - l.Position)
}

// HasPosition returns true if pos is inside the line.
func (l Line) HasPosition(pos int64) bool {
	return l.Position <= pos && pos < l.End()
}

// IsNextPosition returns true if pos immediately follows the line.
func (l Line) IsNextPosition(pos int64) bool {
	return pos == l.End()
}

// IsPreviousPosition returns true if pos immediately precedes the line.
func (l Line) IsPreviousPosition(pos int64) bool {
	return pos == l.Position-1
}

// Compare orders lines by position, then by length.
func (l Line) Compare(other Line) int {
	if c := cmp.Compare(l.Position, other.Position); c != 0 {
		return c
	}
	return cmp.Compare(l.Length, other.Length)
}

// Less is Compare(other) < 0.
func (l Line) Less(other Line) bool {
	return l.Compare(other) < 0
}

// Merge extends the receiver to also cover other, if the two lines touch or
// overlap. Returns false (and leaves the receiver unchanged) if there is a gap
// between them.
func (l *Line) Merge(other Line) bool {
	if other.Less(*l) {
		return l.MergePrevious(other)
	}
	return l.MergeNext(other)
}

// MergePrevious merges a line that starts before the receiver.
func (l *Line) MergePrevious(prev Line) bool {
	if prev.LastPosition()+1 < l.Position {
		return false
	}
	last := max(l.LastPosition(), prev.LastPosition())
	l.Position = min(l.Position, prev.Position)
	l.SetLastPosition(last)
	return true
}

// MergeNext merges a line that starts at or after the receiver.
func (l *Line) MergeNext(next Line) bool {
	if l.LastPosition()+1 < next.Position {
		return false
	}
	l.SetLastPosition(max(l.LastPosition(), next.LastPosition()))
	return true
}

// IndexLine is a line anchored at a full N-dimensional index: it covers the
// positions [Index[0], Index[0]+Length) in the row of Index.
type IndexLine struct {
	Index  Index
	Length uint64
}

// MakeIndexLine is a convenience constructor.
func MakeIndexLine(idx Index, length uint64) IndexLine {
	return IndexLine{Index: idx, Length: length}
}

// Line returns the row-relative line.
func (l IndexLine) Line() Line {
	return Line{Position: l.Index[0], Length: l.Length}
}

// RowKey returns the row of the line.
func (l IndexLine) RowKey() RowKey {
	return l.Index.RowKey()
}
