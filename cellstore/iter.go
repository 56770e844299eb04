package cellstore

import (
	"encoding/binary"
	"sort"
)

// Iterator iterates across the entries of a Reader in key order.
type Iterator struct {
	parent     *Reader
	blockNum   int   // block number
	sectionNum int   // section number
	index      []int // section index

	buf    []byte // block buffer
	bufOff int    // number of buffer bytes read

	key   uint64
	value []byte
	err   error
}

// Next advances the cursor to the next entry
func (i *Iterator) Next() bool {
	if i.err != nil {
		return false
	}

	for i.bufOff >= len(i.buf) {
		if !i.loadBlock(i.blockNum + 1) {
			return false
		}
	}

	// increment section and read key
	if nsn := i.sectionNum + 1; nsn < len(i.index) && i.index[nsn] == i.bufOff {
		i.key = 0
		i.sectionNum++
	}
	key, n := binary.Uvarint(i.buf[i.bufOff:])
	if n <= 0 {
		i.err = errBadBlock
		return false
	}
	i.bufOff += n
	i.key += key

	// read value length
	vln, n := binary.Uvarint(i.buf[i.bufOff:])
	if n <= 0 {
		i.err = errBadBlock
		return false
	}
	i.bufOff += n

	// read value
	if end := i.bufOff + int(vln); end > len(i.buf) || end < i.bufOff {
		i.err = errBadBlock
		return false
	}
	i.value = i.buf[i.bufOff : i.bufOff+int(vln)]
	i.bufOff += int(vln)

	return true
}

// Seek positions the cursor at the first entry with a key >= the given value.
// It returns false if no such entry exists.
func (i *Iterator) Seek(key uint64) bool {
	if i.err != nil {
		return false
	}

	blockNum := i.parent.findBlock(key)
	if blockNum != i.blockNum && !i.loadBlock(blockNum) {
		return false
	}
	i.seekSection(key)

	for i.Next() {
		if i.key >= key {
			return true
		}
	}
	return false
}

// seekSection moves the cursor to the start of the last section with a first
// key <= key.
func (i *Iterator) seekSection(key uint64) {
	pos := sort.Search(len(i.index), func(n int) bool {
		first, _ := binary.Uvarint(i.buf[i.index[n]:])
		return first > key
	}) - 1

	if pos < 0 {
		pos = 0
	}
	i.key = 0
	i.bufOff = i.index[pos]
	i.sectionNum = pos
}

func (i *Iterator) loadBlock(blockNum int) bool {
	if blockNum < 0 || blockNum >= len(i.parent.index) {
		return false
	}

	buf, index, err := i.parent.readBlock(blockNum)
	if err != nil {
		i.err = err
		return false
	}

	releaseBuffer(i.buf)
	i.blockNum = blockNum
	i.sectionNum = 0
	i.index = index
	i.buf = buf
	i.bufOff = 0
	i.key = 0
	i.value = nil
	return true
}

// Key returns the key of the current entry.
func (i *Iterator) Key() uint64 {
	return i.key
}

// Value returns the value of the current entry. Please note that values
// are temporary buffers and must be copied if used beyond the next Next() or
// Close() function call.
func (i *Iterator) Value() []byte {
	return i.value
}

// Err returns iterator errors
func (i *Iterator) Err() error {
	return i.err
}

// Close releases the iterator. It must not be used once this method is called.
func (i *Iterator) Close() error {
	releaseBuffer(i.buf)
	i.buf = nil
	i.index = nil
	i.blockNum = len(i.parent.index)
	return nil
}
