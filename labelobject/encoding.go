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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/RaduBerinde/rlelabel"
	"github.com/pierrec/lz4/v4"
)

// ErrCorrupt is returned when decoding invalid data.
var ErrCorrupt = errors.New("corrupt label object encoding")

// Binary encoding (little endian):
//
//	version    uint8
//	dimension  uint32
//	numLines   uint64
//	numLines x {index [dimension]int64, length uint64}
//
// Lines are written in iteration order. The label and the attributes are not
// encoded.
const encodingVersion = 1

const headerLen = 1 + 4 + 8

// Compressed encoding: a header followed by the binary encoding, either as is
// or as an LZ4 block.
//
//	kind    uint8
//	rawLen  uint64
const (
	compressedStored = 0
	compressedLZ4    = 1

	compressedHeaderLen = 1 + 8

	// lz4MaxRatio bounds the decompressed size accepted for a given input
	// size.
	lz4MaxRatio = 255
)

// MarshalBinary fulfills the encoding.BinaryMarshaler interface.
func (t *T[L]) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, headerLen+t.numLines*(t.dim+1)*8))
	buf.WriteByte(encodingVersion)
	if err := binary.Write(buf, binary.LittleEndian, uint32(t.dim)); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, uint64(t.numLines)); err != nil {
		return nil, err
	}
	var werr error
	t.rows.Ascend(func(r *row) bool {
		for _, l := range r.lines {
			idx := r.key.MakeIndexAt(l.Position)
			if werr = binary.Write(buf, binary.LittleEndian, []int64(idx)); werr != nil {
				return false
			}
			if werr = binary.Write(buf, binary.LittleEndian, l.Length); werr != nil {
				return false
			}
		}
		return true
	})
	if werr != nil {
		return nil, werr
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary fulfills the encoding.BinaryUnmarshaler interface. The
// existing lines are replaced; the label and attributes are kept.
func (t *T[L]) UnmarshalBinary(b []byte) error {
	if len(b) < headerLen {
		return fmt.Errorf("%w: %d bytes", ErrCorrupt, len(b))
	}
	if b[0] != encodingVersion {
		return fmt.Errorf("%w: unknown version %d", ErrCorrupt, b[0])
	}
	dim := int(binary.LittleEndian.Uint32(b[1:]))
	numLines := binary.LittleEndian.Uint64(b[5:])
	if dim < 1 {
		return fmt.Errorf("%w: invalid dimension %d", ErrCorrupt, dim)
	}
	lineLen := uint64(dim+1) * 8
	body := b[headerLen:]
	if numLines > uint64(len(body))/lineLen || uint64(len(body)) != numLines*lineLen {
		return fmt.Errorf("%w: %d bytes for %d lines of dimension %d", ErrCorrupt, len(body), numLines, dim)
	}
	lines := make([]rlelabel.IndexLine, numLines)
	r := bytes.NewReader(body)
	for i := range lines {
		idx := make(rlelabel.Index, dim)
		if err := binary.Read(r, binary.LittleEndian, []int64(idx)); err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		var length uint64
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if !rlelabel.MakeLine(idx[0], length).IsValid() {
			return fmt.Errorf("%w: invalid line of length %d at %v", ErrCorrupt, length, idx)
		}
		lines[i] = rlelabel.MakeIndexLine(idx, length)
	}
	// Only modify the object once the whole input is validated.
	t.Init(dim)
	for _, l := range lines {
		t.AddLine(l)
	}
	return nil
}

// MarshalCompressed returns the binary encoding compressed with LZ4. Data that
// does not compress is stored as is.
func (t *T[L]) MarshalCompressed() ([]byte, error) {
	raw, err := t.MarshalBinary()
	if err != nil {
		return nil, err
	}
	out := make([]byte, compressedHeaderLen+lz4.CompressBlockBound(len(raw)))
	binary.LittleEndian.PutUint64(out[1:], uint64(len(raw)))
	written, err := lz4.CompressBlock(raw, out[compressedHeaderLen:], nil)
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	if written == 0 || written >= len(raw) {
		out[0] = compressedStored
		out = append(out[:compressedHeaderLen], raw...)
		return out, nil
	}
	out[0] = compressedLZ4
	return out[:compressedHeaderLen+written], nil
}

// UnmarshalCompressed decodes the output of MarshalCompressed.
func (t *T[L]) UnmarshalCompressed(b []byte) error {
	if len(b) < compressedHeaderLen {
		return fmt.Errorf("%w: %d bytes", ErrCorrupt, len(b))
	}
	rawLen := binary.LittleEndian.Uint64(b[1:])
	payload := b[compressedHeaderLen:]
	switch b[0] {
	case compressedStored:
		if uint64(len(payload)) != rawLen {
			return fmt.Errorf("%w: stored length %d, expected %d", ErrCorrupt, len(payload), rawLen)
		}
		return t.UnmarshalBinary(payload)

	case compressedLZ4:
		if rawLen > uint64(len(payload))*lz4MaxRatio+headerLen {
			return fmt.Errorf("%w: implausible length %d", ErrCorrupt, rawLen)
		}
		raw := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil {
			return fmt.Errorf("%w: lz4: %w", ErrCorrupt, err)
		}
		if uint64(n) != rawLen {
			return fmt.Errorf("%w: decompressed %d bytes, expected %d", ErrCorrupt, n, rawLen)
		}
		return t.UnmarshalBinary(raw)

	default:
		return fmt.Errorf("%w: unknown compression %d", ErrCorrupt, b[0])
	}
}
