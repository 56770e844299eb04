package cellstore

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/golang/snappy"
)

// Writer writes a cellstore. Entries are buffered into blocks which are
// written as soon as they exceed the configured block size; the block index
// and the footer follow on Close.
type Writer struct {
	w   io.Writer
	o   *Options
	off int64 // bytes written so far

	n    int    // entries appended in total
	last uint64 // key of the last entry

	block    []byte   // entries of the current block
	entries  int      // entries in the current block
	sections []uint32 // section offsets within the current block
	snp      []byte   // snappy buffer

	index  []blockInfo
	closed bool
}

// NewWriter wraps w. Closing the Writer does not close w.
func NewWriter(w io.Writer, o *Options) *Writer {
	return &Writer{w: w, o: o.norm()}
}

// Append appends an entry. Keys must be strictly increasing.
func (w *Writer) Append(key uint64, data []byte) error {
	if w.closed {
		return errClosed
	}
	if w.n != 0 && key <= w.last {
		return fmt.Errorf("cellstore: attempted an out-of-order append, %d must be > %d", key, w.last)
	}

	if len(w.block) != 0 && len(w.block)+len(data)+2*binary.MaxVarintLen64 > w.o.BlockSize {
		if err := w.flush(); err != nil {
			return err
		}
	}

	// sections start with a full key, further keys are deltas
	delta := key
	if w.entries%w.o.SectionSize == 0 {
		w.sections = append(w.sections, uint32(len(w.block)))
	} else {
		delta -= w.last
	}
	w.block = binary.AppendUvarint(w.block, delta)
	w.block = binary.AppendUvarint(w.block, uint64(len(data)))
	w.block = append(w.block, data...)

	w.entries++
	w.n++
	w.last = key
	return nil
}

// Close flushes the last block and writes the index and footer.
func (w *Writer) Close() error {
	if w.closed {
		return errClosed
	}
	w.closed = true

	if err := w.flush(); err != nil {
		return err
	}

	indexOffset := w.off

	var buf []byte
	var prev blockInfo
	for i, b := range w.index {
		key, off := b.MaxKey, b.Offset
		if i != 0 {
			key -= prev.MaxKey
			off -= prev.Offset
		}
		prev = b

		buf = binary.AppendUvarint(buf, key)
		buf = binary.AppendUvarint(buf, uint64(off))
	}
	buf = binary.LittleEndian.AppendUint64(buf, uint64(indexOffset))
	buf = append(buf, magic...)
	return w.write(buf)
}

// flush writes the current block: entries, section offsets, the number of
// sections and a compression marker.
func (w *Writer) flush() error {
	if w.entries == 0 {
		return nil
	}

	for _, off := range w.sections {
		w.block = binary.LittleEndian.AppendUint32(w.block, off)
	}
	w.block = binary.LittleEndian.AppendUint32(w.block, uint32(len(w.sections)))

	out := append(w.block, blockNoCompression)
	if w.o.Compression == SnappyCompression {
		w.snp = snappy.Encode(w.snp[:cap(w.snp)], w.block)
		if len(w.snp) < len(w.block)-len(w.block)/8 {
			out = append(w.snp, blockSnappyCompression)
		}
	}

	w.index = append(w.index, blockInfo{MaxKey: w.last, Offset: w.off})
	w.block = w.block[:0]
	w.sections = w.sections[:0]
	w.entries = 0
	return w.write(out)
}

func (w *Writer) write(p []byte) error {
	n, err := w.w.Write(p)
	w.off += int64(n)
	return err
}
