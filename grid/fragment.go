package grid

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/wkb"
)

var errTruncated = errors.New("grid: truncated fragment data")

// MarshalBinary implements encoding.BinaryMarshaler.
func (f *Fragment) MarshalBinary() ([]byte, error) {
	return f.AppendBinary(nil)
}

// AppendBinary appends the binary encoding of f to dst: a varint header of
// feature ID, row, column and index followed by the length-prefixed WKB of
// the geometry. Encoded fragments are self-delimiting and may be
// concatenated.
func (f *Fragment) AppendBinary(dst []byte) ([]byte, error) {
	mp := f.Geom
	if mp == nil {
		mp = geom.MultiPolygon{}
	}
	blob, err := wkb.Encode(mp, wkb.NDR)
	if err != nil {
		return dst, err
	}

	dst = binary.AppendVarint(dst, f.FeatureID)
	dst = binary.AppendVarint(dst, int64(f.Cell.Row))
	dst = binary.AppendVarint(dst, int64(f.Cell.Col))
	dst = binary.AppendVarint(dst, int64(f.Index))
	dst = binary.AppendUvarint(dst, uint64(len(blob)))
	return append(dst, blob...), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (f *Fragment) UnmarshalBinary(data []byte) error {
	_, err := f.decode(data)
	return err
}

// DecodeFragments decodes a sequence of concatenated fragments.
func DecodeFragments(data []byte) ([]Fragment, error) {
	var frags []Fragment
	for len(data) != 0 {
		var f Fragment
		n, err := f.decode(data)
		if err != nil {
			return frags, err
		}
		frags = append(frags, f)
		data = data[n:]
	}
	return frags, nil
}

func (f *Fragment) decode(data []byte) (int, error) {
	var pos int
	varint := func() int64 {
		v, n := binary.Varint(data[pos:])
		if n <= 0 {
			return 0
		}
		pos += n
		return v
	}

	var hdr [4]int64
	for i := range hdr {
		start := pos
		if hdr[i] = varint(); pos == start {
			return 0, errTruncated
		}
	}

	size, n := binary.Uvarint(data[pos:])
	if n <= 0 || size > uint64(len(data)-pos-n) {
		return 0, errTruncated
	}
	pos += n

	g, err := wkb.Decode(data[pos : pos+int(size)])
	if err != nil {
		return 0, fmt.Errorf("grid: decoding fragment geometry: %w", err)
	}
	mp, ok := g.(geom.MultiPolygon)
	if !ok {
		return 0, fmt.Errorf("grid: unexpected fragment geometry %T", g)
	}

	f.FeatureID = hdr[0]
	f.Cell = Cell{Row: int(hdr[1]), Col: int(hdr[2])}
	f.Index = int(hdr[3])
	f.Geom = mp
	return pos + int(size), nil
}
