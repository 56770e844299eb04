package cellstore

import (
	"encoding/binary"
	"io"

	"github.com/bsm/extsort"
)

// SorterOptions define Sorter specific options.
type SorterOptions struct {
	// An optional temporary directory. Default: os.TempDir()
	TempDir string
}

func (o *SorterOptions) norm() *SorterOptions {
	var oo SorterOptions
	if o != nil {
		oo = *o
	}
	return &oo
}

// Sorter allows to pre-sort entries to avoid out-of-order appends to Writer instances.
type Sorter struct {
	x *extsort.Sorter
	t []byte
}

// NewSorter creates a sorter.
func NewSorter(o *SorterOptions) *Sorter {
	o = o.norm()
	return &Sorter{
		x: extsort.New(&extsort.Options{WorkDir: o.TempDir}),
	}
}

// Append appends an entry to the sorter. Keys may repeat.
func (s *Sorter) Append(key uint64, data []byte) error {
	if sz := 8 + len(data); sz <= cap(s.t) {
		s.t = s.t[:sz]
	} else {
		s.t = make([]byte, sz)
	}

	binary.BigEndian.PutUint64(s.t[0:], key)
	copy(s.t[8:], data)
	return s.x.Append(s.t)
}

// Sort sorts appended values and returns an iterator.
func (s *Sorter) Sort() (*SorterIterator, error) {
	iter, err := s.x.Sort()
	if err != nil {
		return nil, err
	}
	return &SorterIterator{it: iter}, nil
}

// Close closes the sorter and releases all resources.
func (s *Sorter) Close() error {
	return s.x.Close()
}

// SorterIterator iterates over sorted results
type SorterIterator struct {
	it *extsort.Iterator

	pending bool // true if next holds an entry already read
	nextKey uint64
	next    []byte
}

// NextEntry reads the next key together with all values appended for it, in
// byte order. This function will return io.EOF if no more entries can be read.
func (i *SorterIterator) NextEntry() (uint64, [][]byte, error) {
	if !i.pending {
		if !i.read() {
			if err := i.it.Err(); err != nil {
				return 0, nil, err
			}
			return 0, nil, io.EOF
		}
	}

	key := i.nextKey
	values := [][]byte{i.next}
	i.pending = false

	for i.read() {
		if i.nextKey != key {
			break
		}
		values = append(values, i.next)
		i.pending = false
	}
	if err := i.it.Err(); err != nil {
		return 0, nil, err
	}
	return key, values, nil
}

// Close closes iterator and releases resources.
func (i *SorterIterator) Close() error {
	return i.it.Close()
}

func (i *SorterIterator) read() bool {
	if !i.it.Next() {
		return false
	}

	raw := i.it.Data()
	i.nextKey = binary.BigEndian.Uint64(raw)
	i.next = append([]byte(nil), raw[8:]...)
	i.pending = true
	return true
}
