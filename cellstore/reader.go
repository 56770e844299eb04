package cellstore

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/golang/snappy"
)

// Reader represents a cellstore reader
type Reader struct {
	r io.ReaderAt

	index       []blockInfo
	indexOffset int64
}

// NewReader opens a reader.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	if size < footerLen {
		return nil, errBadMagic
	}

	// read footer
	footerOffset := size - footerLen
	footer := make([]byte, footerLen)
	if _, err := r.ReadAt(footer, footerOffset); err != nil {
		return nil, err
	}

	// parse footer
	if !bytes.Equal(footer[8:], magic) {
		return nil, errBadMagic
	}
	indexOffset := int64(binary.LittleEndian.Uint64(footer[:8]))
	if indexOffset < 0 || indexOffset > footerOffset {
		return nil, errBadIndex
	}

	// read index
	raw := make([]byte, footerOffset-indexOffset)
	if _, err := r.ReadAt(raw, indexOffset); err != nil {
		return nil, err
	}

	var index []blockInfo
	var info blockInfo
	for len(raw) != 0 {
		u1, n1 := binary.Uvarint(raw)
		if n1 <= 0 {
			return nil, errBadIndex
		}
		u2, n2 := binary.Uvarint(raw[n1:])
		if n2 <= 0 {
			return nil, errBadIndex
		}
		raw = raw[n1+n2:]

		info.MaxKey += u1
		info.Offset += int64(u2)
		index = append(index, info)
	}

	return &Reader{
		r: r,

		index:       index,
		indexOffset: indexOffset,
	}, nil
}

// NumBlocks returns the number of stored blocks.
func (r *Reader) NumBlocks() int {
	return len(r.index)
}

// Iterator returns an iterator across all entries, positioned before the
// first one.
func (r *Reader) Iterator() *Iterator {
	return &Iterator{parent: r, blockNum: -1}
}

// Get returns a copy of the value stored for key. It returns ErrNotFound if
// the key does not exist.
func (r *Reader) Get(key uint64) ([]byte, error) {
	it := r.Iterator()
	defer it.Close()

	if !it.Seek(key) {
		if err := it.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	if it.Key() != key {
		return nil, ErrNotFound
	}
	return append([]byte(nil), it.Value()...), nil
}

// findBlock returns the number of the first block that may contain key.
func (r *Reader) findBlock(key uint64) int {
	return sort.Search(len(r.index), func(i int) bool {
		return r.index[i].MaxKey >= key
	})
}

// readBlock reads and decompresses a block. It returns the entries section
// of the block together with its section offsets.
func (r *Reader) readBlock(blockNum int) ([]byte, []int, error) {
	min := r.index[blockNum].Offset
	max := r.indexOffset
	if next := blockNum + 1; next < len(r.index) {
		max = r.index[next].Offset
	}
	if max-min < 1 {
		return nil, nil, errBadBlock
	}

	raw := fetchBuffer(int(max - min))
	if _, err := r.r.ReadAt(raw, min); err != nil {
		releaseBuffer(raw)
		return nil, nil, err
	}

	var buf []byte
	switch maxPos := len(raw) - 1; raw[maxPos] {
	case blockNoCompression:
		buf = raw[:maxPos]
	case blockSnappyCompression:
		defer releaseBuffer(raw)

		sz, err := snappy.DecodedLen(raw[:maxPos])
		if err != nil {
			return nil, nil, err
		}

		pln := fetchBuffer(sz)
		res, err := snappy.Decode(pln, raw[:maxPos])
		if err != nil {
			releaseBuffer(pln)
			return nil, nil, err
		}
		buf = res
	default:
		releaseBuffer(raw)
		return nil, nil, errInvalidCompression
	}

	// parse section index
	if len(buf) < 4 {
		releaseBuffer(buf)
		return nil, nil, errBadBlock
	}
	eoi := len(buf) - 4
	num := int(binary.LittleEndian.Uint32(buf[eoi:]))
	soi := eoi - 4*num
	if num < 1 || soi < 0 {
		releaseBuffer(buf)
		return nil, nil, errBadBlock
	}

	offs := make([]int, num)
	for i := range offs {
		offs[i] = int(binary.LittleEndian.Uint32(buf[soi+4*i:]))
	}
	return buf[:soi], offs, nil
}
