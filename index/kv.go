package index

import "encoding/binary"

// Reader represents a reader on top of key-value stores
type Reader struct{ store StoreReader }

// NewReader wraps a store
func NewReader(store StoreReader) *Reader { return &Reader{store: store} }

// Get retrieves data stored by cell index
func (r *Reader) Get(cell uint64) ([]byte, error) {
	return r.store.Get(Key(cell))
}

// --------------------------------------------------------------------

// Writer instances wrap key-value stores
type Writer struct{ store StoreWriter }

// NewWriter opens a new writer
func NewWriter(store StoreWriter) *Writer { return &Writer{store: store} }

// Put appends a new record. Sorted stores require ascending cell indices.
func (w *Writer) Put(cell uint64, value []byte) error {
	return w.store.Put(Key(cell), value)
}

// --------------------------------------------------------------------

// Key encodes a cell index as a big-endian store key, so byte order matches
// numeric order.
func Key(cell uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, cell)
	return key
}
