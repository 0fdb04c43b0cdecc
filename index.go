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

// Package rlelabel contains the primitives used by run-length encoded label
// objects: N-dimensional indexes, row keys and lines along the fast axis
// (axis 0).
package rlelabel

import "slices"

// Index is an N-dimensional integer coordinate. Axis 0 is the fast axis along
// which runs are encoded.
type Index []int64

// Offset is an N-dimensional integer translation.
type Offset []int64

// RowKey is an index with the axis 0 component removed. Row keys are ordered
// lexicographically.
type RowKey []int64

// MakeIndex is a convenience constructor.
func MakeIndex(coords ...int64) Index {
	return Index(coords)
}

// Dimension returns the number of axes of the index.
func (idx Index) Dimension() int {
	return len(idx)
}

// RowKey returns the coordinates orthogonal to axis 0. The result does not
// alias idx.
func (idx Index) RowKey() RowKey {
	return slices.Clone(RowKey(idx[1:]))
}

// Clone returns a copy of the index.
func (idx Index) Clone() Index {
	return slices.Clone(idx)
}

// Equal returns true if both indexes have the same dimension and coordinates.
func (idx Index) Equal(other Index) bool {
	return slices.Equal(idx, other)
}

// Add returns idx translated by off. Both must have the same dimension.
func (idx Index) Add(off Offset) Index {
	if len(idx) != len(off) {
		panic("index and offset dimensions differ")
	}
	res := make(Index, len(idx))
	for i := range idx {
		res[i] = idx[i] + off[i]
	}
	return res
}

// IsZero returns true if all components of the offset are zero.
func (off Offset) IsZero() bool {
	return off.IsZeroFrom(0)
}

// IsZeroFrom returns true if all components starting at the given axis are
// zero.
func (off Offset) IsZeroFrom(axis int) bool {
	for _, v := range off[axis:] {
		if v != 0 {
			return false
		}
	}
	return true
}

// MakeIndexAt reconstructs the index with the given axis 0 position in this
// row.
func (k RowKey) MakeIndexAt(pos int64) Index {
	idx := make(Index, len(k)+1)
	idx[0] = pos
	copy(idx[1:], k)
	return idx
}

// Compare orders row keys lexicographically.
func (k RowKey) Compare(other RowKey) int {
	return slices.Compare(k, other)
}

// Shift returns the row key translated by the orthogonal components of off
// (off[1:]).
func (k RowKey) Shift(off Offset) RowKey {
	res := make(RowKey, len(k))
	for i := range k {
		res[i] = k[i] + off[i+1]
	}
	return res
}
