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

// Package shape computes geometric attributes of label objects.
package shape

import (
	"slices"

	"github.com/RaduBerinde/rlelabel"
	"github.com/RaduBerinde/rlelabel/labelobject"
	"gonum.org/v1/gonum/stat"
)

const (
	AttributeNumberOfPixels labelobject.Attribute = 100 + iota
	AttributeCentroid
	AttributeBoundingBox
)

func init() {
	labelobject.RegisterAttribute(AttributeNumberOfPixels, "NumberOfPixels")
	labelobject.RegisterAttribute(AttributeCentroid, "Centroid")
	labelobject.RegisterAttribute(AttributeBoundingBox, "BoundingBox")
}

// Attributes are the shape attributes of a label object. They are a snapshot:
// they are not updated when the object changes.
type Attributes struct {
	NumberOfPixels uint64
	// Centroid is the mean of the indexes of the object, per axis. Nil if the
	// object is empty.
	Centroid []float64
	// Min and Max delimit the bounding box of the object (both inclusive). Nil
	// if the object is empty.
	Min, Max rlelabel.Index
}

var _ labelobject.Attributes = (*Attributes)(nil)

// Compute calculates the shape attributes of a label object. The object
// should be optimized; indexes covered by multiple lines are counted multiple
// times.
func Compute[L any](lo *labelobject.T[L]) *Attributes {
	a := &Attributes{}
	dim := lo.Dimension()
	n := lo.NumberOfLines()
	if n == 0 {
		return a
	}
	// Each line contributes its center, weighted by its length.
	coords := make([][]float64, dim)
	for i := range coords {
		coords[i] = make([]float64, 0, n)
	}
	weights := make([]float64, 0, n)
	for l := range lo.AllLines() {
		line := l.Line()
		center := float64(line.Position) + float64(line.Length-1)/2
		coords[0] = append(coords[0], center)
		for i := 1; i < dim; i++ {
			coords[i] = append(coords[i], float64(l.Index[i]))
		}
		weights = append(weights, float64(l.Length))
		a.NumberOfPixels += l.Length

		last := l.Index.Clone()
		last[0] = line.LastPosition()
		if a.Min == nil {
			a.Min, a.Max = l.Index.Clone(), last
			continue
		}
		for i := range dim {
			a.Min[i] = min(a.Min[i], l.Index[i])
			a.Max[i] = max(a.Max[i], last[i])
		}
	}
	a.Centroid = make([]float64, dim)
	for i := range dim {
		a.Centroid[i] = stat.Mean(coords[i], weights)
	}
	return a
}

// Set computes the shape attributes and attaches them to the object.
func Set[L any](lo *labelobject.T[L]) *Attributes {
	a := Compute(lo)
	lo.SetAttributes(a)
	return a
}

// CopyAttributesFrom is part of the labelobject.Attributes interface.
func (a *Attributes) CopyAttributesFrom(src labelobject.Attributes) {
	s, ok := src.(*Attributes)
	if !ok || s == a {
		return
	}
	a.NumberOfPixels = s.NumberOfPixels
	a.Centroid = slices.Clone(s.Centroid)
	a.Min = s.Min.Clone()
	a.Max = s.Max.Clone()
}

// Value returns the value of a shape attribute, or false if the attribute is
// not a shape attribute.
func (a *Attributes) Value(attr labelobject.Attribute) (any, bool) {
	switch attr {
	case AttributeNumberOfPixels:
		return a.NumberOfPixels, true
	case AttributeCentroid:
		return a.Centroid, true
	case AttributeBoundingBox:
		return [2]rlelabel.Index{a.Min, a.Max}, true
	default:
		return nil, false
	}
}
