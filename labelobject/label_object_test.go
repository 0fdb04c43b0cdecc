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
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/RaduBerinde/rlelabel"
	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"
)

func TestDataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		testDataDriven(t, path)
	})
}

func testDataDriven(t *testing.T, path string) {
	f := rlelabel.MakeBasicFormatter()
	p := rlelabel.MakeBasicParser()
	lo := New[int](3)
	inputLines := func(td *datadriven.TestData) []string {
		input := strings.TrimSpace(td.Input)
		if input == "" {
			return nil
		}
		return strings.Split(input, "\n")
	}
	datadriven.RunTest(t, path, func(t *testing.T, td *datadriven.TestData) string {
		var buf strings.Builder
		switch td.Cmd {
		case "new":
			var dim int
			td.ScanArgs(t, "dim", &dim)
			lo = New[int](dim)

		case "add":
			for _, l := range inputLines(td) {
				lo.AddIndex(rlelabel.MustParseIndex(p, l))
			}

		case "add-line":
			for _, l := range inputLines(td) {
				lo.AddLine(rlelabel.MustParseIndexLine(p, l))
			}

		case "remove":
			for _, l := range inputLines(td) {
				idx := rlelabel.MustParseIndex(p, l)
				fmt.Fprintf(&buf, "%s: %t\n", f.FormatIndex(idx), lo.RemoveIndex(idx))
			}

		case "has":
			for _, l := range inputLines(td) {
				idx := rlelabel.MustParseIndex(p, l)
				fmt.Fprintf(&buf, "%s: %t\n", f.FormatIndex(idx), lo.HasIndex(idx))
			}
			return buf.String()

		case "optimize":
			lo.Optimize()

		case "shift":
			lo.Shift(rlelabel.Offset(rlelabel.MustParseIndex(p, strings.TrimSpace(td.Input))))

		case "clear":
			lo.Clear()

		case "lines":
			for it := lo.Lines(); !it.IsAtEnd(); it.Next() {
				fmt.Fprintf(&buf, "%s\n", f.FormatIndexLine(it.Line()))
			}
			return buf.String()

		case "indexes":
			for it := lo.Indexes(); !it.IsAtEnd(); it.Next() {
				fmt.Fprintf(&buf, "%s\n", f.FormatIndex(it.Index()))
			}
			return buf.String()

		case "get-line":
			var i int
			td.ScanArgs(t, "i", &i)
			l, err := lo.Line(i)
			if err != nil {
				return fmt.Sprintf("error: %v\n", err)
			}
			return f.FormatIndexLine(l) + "\n"

		case "get-index":
			var i uint64
			td.ScanArgs(t, "i", &i)
			idx, err := lo.Index(i)
			if err != nil {
				return fmt.Sprintf("error: %v\n", err)
			}
			return f.FormatIndex(idx) + "\n"

		default:
			td.Fatalf(t, "unknown command: %q", td.Cmd)
		}
		lo.CheckInvariants()
		buf.WriteString(strings.TrimSpace(lo.String(f)))
		fmt.Fprintf(&buf, "\nlines=%d size=%d\n", lo.NumberOfLines(), lo.Size())
		return buf.String()
	})
}

type point [3]int64

// naiveSet is a trivial model of an optimized label object.
type naiveSet map[point]struct{}

func (n naiveSet) sorted() []point {
	res := make([]point, 0, len(n))
	for p := range n {
		res = append(res, p)
	}
	slices.SortFunc(res, comparePoints)
	return res
}

// comparePoints orders points in iteration order: by row key, then by axis 0.
func comparePoints(a, b point) int {
	if c := rlelabel.RowKey(a[1:]).Compare(rlelabel.RowKey(b[1:])); c != 0 {
		return c
	}
	return rlelabel.RowKey(a[:1]).Compare(rlelabel.RowKey(b[:1]))
}

func TestLabelObjectRand(t *testing.T) {
	for test := 0; test < 100; test++ {
		seed := rand.Uint64()
		rng := rand.New(rand.NewPCG(seed, seed))
		valRange := int64(rng.IntN(20) + 1)
		randPoint := func() point {
			return point{rng.Int64N(valRange), rng.Int64N(3), rng.Int64N(3)}
		}

		lo := New[int](3)
		n := naiveSet{}
		// dirty is set when lines may overlap.
		dirty := false
		for op := 0; op < 300; op++ {
			switch s := rng.IntN(100); {
			case s < 30:
				p := randPoint()
				lo.AddIndex(p[:])
				n[p] = struct{}{}
				dirty = true

			case s < 50:
				p := randPoint()
				length := uint64(rng.IntN(5) + 1)
				lo.AddLineAt(p[:], length)
				for i := int64(0); i < int64(length); i++ {
					n[point{p[0] + i, p[1], p[2]}] = struct{}{}
				}
				dirty = true

			case s < 55:
				off := rlelabel.Offset{rng.Int64N(5) - 2, 0, 0}
				if rng.IntN(2) == 0 {
					off[1], off[2] = rng.Int64N(3)-1, rng.Int64N(3)-1
				}
				lo.Shift(off)
				shifted := naiveSet{}
				for p := range n {
					shifted[point(rlelabel.Index(p[:]).Add(off))] = struct{}{}
				}
				n = shifted

			default:
				if dirty {
					lo.Optimize()
					dirty = false
				}
				p := randPoint()
				_, exp := n[p]
				if rng.IntN(2) == 0 {
					if actual := lo.HasIndex(p[:]); actual != exp {
						t.Fatalf("HasIndex(%v) = %t, expected %t\nseed: %d", p, actual, exp, seed)
					}
				} else {
					if actual := lo.RemoveIndex(p[:]); actual != exp {
						t.Fatalf("RemoveIndex(%v) = %t, expected %t\nseed: %d", p, actual, exp, seed)
					}
					delete(n, p)
				}
			}
			lo.CheckInvariants()
			if dirty {
				continue
			}
			require.True(t, lo.IsOptimized(), "seed: %d", seed)
			require.Equal(t, uint64(len(n)), lo.Size(), "seed: %d", seed)
			actual := []point{}
			for idx := range lo.All() {
				actual = append(actual, point(idx))
			}
			require.Equal(t, n.sorted(), actual, "seed: %d", seed)
		}
	}
}

func TestRemoveIndexCases(t *testing.T) {
	line := func() *T[int] {
		lo := New[int](2)
		lo.AddLineAt(rlelabel.MakeIndex(0, 0), 10)
		return lo
	}
	lines := func(lo *T[int]) []rlelabel.IndexLine {
		return slices.Collect(lo.AllLines())
	}

	t.Run("split", func(t *testing.T) {
		lo := line()
		require.True(t, lo.RemoveIndex(rlelabel.MakeIndex(4, 0)))
		require.Equal(t, []rlelabel.IndexLine{
			rlelabel.MakeIndexLine(rlelabel.MakeIndex(0, 0), 4),
			rlelabel.MakeIndexLine(rlelabel.MakeIndex(5, 0), 5),
		}, lines(lo))
		require.Equal(t, 2, lo.NumberOfLines())
		require.False(t, lo.HasIndex(rlelabel.MakeIndex(4, 0)))
		require.True(t, lo.HasIndex(rlelabel.MakeIndex(3, 0)))
		require.True(t, lo.HasIndex(rlelabel.MakeIndex(5, 0)))
	})

	t.Run("front", func(t *testing.T) {
		lo := line()
		require.True(t, lo.RemoveIndex(rlelabel.MakeIndex(0, 0)))
		require.Equal(t, []rlelabel.IndexLine{rlelabel.MakeIndexLine(rlelabel.MakeIndex(1, 0), 9)}, lines(lo))
	})

	t.Run("back", func(t *testing.T) {
		lo := line()
		require.True(t, lo.RemoveIndex(rlelabel.MakeIndex(9, 0)))
		require.Equal(t, []rlelabel.IndexLine{rlelabel.MakeIndexLine(rlelabel.MakeIndex(0, 0), 9)}, lines(lo))
	})

	t.Run("whole", func(t *testing.T) {
		lo := New[int](2)
		lo.AddIndex(rlelabel.MakeIndex(7, 3))
		require.True(t, lo.RemoveIndex(rlelabel.MakeIndex(7, 3)))
		require.True(t, lo.Empty())
		require.Equal(t, 0, lo.NumberOfLines())
		require.Nil(t, lo.getRow(rlelabel.MakeIndex(7, 3)))
		require.False(t, lo.HasIndex(rlelabel.MakeIndex(7, 3)))
		require.False(t, lo.RemoveIndex(rlelabel.MakeIndex(7, 3)))
	})
}

func TestOptimizeIdempotent(t *testing.T) {
	lo := New[int](2)
	for _, l := range []rlelabel.IndexLine{
		rlelabel.MakeIndexLine(rlelabel.MakeIndex(5, 1), 3),
		rlelabel.MakeIndexLine(rlelabel.MakeIndex(0, 1), 5),
		rlelabel.MakeIndexLine(rlelabel.MakeIndex(1, 1), 1),
		rlelabel.MakeIndexLine(rlelabel.MakeIndex(20, 1), 2),
		rlelabel.MakeIndexLine(rlelabel.MakeIndex(0, 0), 2),
	} {
		lo.AddLine(l)
	}
	require.Equal(t, 5, lo.NumberOfLines())
	require.False(t, lo.IsOptimized())

	lo.Optimize()
	f := rlelabel.MakeBasicFormatter()
	once := lo.String(f)
	require.Equal(t, "(0): [0, 2)\n(1): [0, 8) [20, 22)\n", once)
	require.Equal(t, 3, lo.NumberOfLines())
	require.Equal(t, uint64(12), lo.Size())
	require.True(t, lo.IsOptimized())

	lo.Optimize()
	require.Equal(t, once, lo.String(f))
	require.Equal(t, 3, lo.NumberOfLines())
}

func TestShiftRows(t *testing.T) {
	lo := New[int](2)
	lo.AddLineAt(rlelabel.MakeIndex(0, 0), 3)
	lo.AddLineAt(rlelabel.MakeIndex(2, 1), 3)
	lo.Shift(rlelabel.Offset{1, 1})
	lo.CheckInvariants()
	require.Equal(t, "(1): [1, 4)\n(2): [3, 6)\n", lo.String(rlelabel.MakeBasicFormatter()))
	require.Equal(t, uint64(6), lo.Size())
	require.True(t, lo.HasIndex(rlelabel.MakeIndex(1, 1)))
	require.False(t, lo.HasIndex(rlelabel.MakeIndex(0, 0)))
}

func TestCopy(t *testing.T) {
	src := New[string](2)
	src.SetLabel("liver")
	src.AddLineAt(rlelabel.MakeIndex(0, 0), 3)
	src.AddIndex(rlelabel.MakeIndex(4, 2))

	dst := New[string](3)
	dst.AddIndex(rlelabel.MakeIndex(1, 1, 1))
	dst.CopyAllFrom(src)
	dst.CheckInvariants()
	require.Equal(t, "liver", dst.Label())
	require.Equal(t, 2, dst.Dimension())
	require.Equal(t, 2, dst.NumberOfLines())
	require.Equal(t, src.String(rlelabel.MakeBasicFormatter()), dst.String(rlelabel.MakeBasicFormatter()))

	// The copy is deep.
	require.True(t, dst.RemoveIndex(rlelabel.MakeIndex(1, 0)))
	require.True(t, src.HasIndex(rlelabel.MakeIndex(1, 0)))
	require.Equal(t, 2, src.NumberOfLines())

	other := New[string](2)
	other.CopyAttributesFrom(src)
	require.Equal(t, "liver", other.Label())
	require.True(t, other.Empty())

	require.Panics(t, func() { other.CopyAllFrom(nil) })
}

func TestClear(t *testing.T) {
	lo := New[int](3)
	lo.SetLabel(4)
	lo.AddIndex(rlelabel.MakeIndex(1, 2, 3))
	lo.Clear()
	require.True(t, lo.Empty())
	require.Equal(t, 0, lo.NumberOfLines())
	require.Equal(t, uint64(0), lo.Size())
	require.Equal(t, 4, lo.Label())
	require.Equal(t, "<empty>", lo.String(rlelabel.MakeBasicFormatter()))
}

func TestOutOfRange(t *testing.T) {
	lo := New[int](2)
	lo.AddLineAt(rlelabel.MakeIndex(0, 0), 2)

	_, err := lo.Index(2)
	require.ErrorIs(t, err, ErrOutOfRange)
	idx, err := lo.Index(1)
	require.NoError(t, err)
	require.Equal(t, rlelabel.MakeIndex(1, 0), idx)

	_, err = lo.Line(1)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = lo.Line(-1)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestDimensionMismatch(t *testing.T) {
	lo := New[int](3)
	requirePanicIs := func(fn func(), target error) {
		t.Helper()
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			require.ErrorIs(t, err, target)
		}()
		fn()
	}
	requirePanicIs(func() { lo.AddIndex(rlelabel.MakeIndex(1, 2)) }, ErrDimensionMismatch)
	requirePanicIs(func() { lo.HasIndex(rlelabel.MakeIndex(1, 2, 3, 4)) }, ErrDimensionMismatch)
	requirePanicIs(func() { lo.RemoveIndex(rlelabel.MakeIndex(1)) }, ErrDimensionMismatch)
	requirePanicIs(func() { lo.Shift(rlelabel.Offset{1, 2}) }, ErrDimensionMismatch)
	requirePanicIs(func() { lo.AddLineAt(rlelabel.MakeIndex(1, 2, 3), 0) }, ErrInvariantViolation)
	requirePanicIs(func() { lo.AddLineAt(rlelabel.MakeIndex(0, 2, 3), 1<<63) }, ErrInvariantViolation)
	requirePanicIs(func() { lo.AddLineAt(rlelabel.MakeIndex(math.MaxInt64-1, 2, 3), 2) }, ErrInvariantViolation)
	require.Zero(t, lo.NumberOfLines())

	// A line ending exactly at math.MaxInt64 is fine.
	lo.AddLineAt(rlelabel.MakeIndex(math.MaxInt64-2, 2, 3), 2)
	require.True(t, lo.HasIndex(rlelabel.MakeIndex(math.MaxInt64-1, 2, 3)))
	require.Equal(t, 2, len(slices.Collect(lo.All())))
	require.Panics(t, func() { New[int](0) })
}
