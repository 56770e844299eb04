// Package lsst implements an index store on top of syndtr/goleveldb/leveldb/table
package lsst

import (
	"io"
	"os"

	"github.com/bsm/gridkit/index"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/table"
)

type reader struct {
	*table.Reader
	closer io.Closer
}

// OpenFile opens a new Reader
func OpenFile(fname string, o *opt.Options) (index.StoreReader, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	tr, err := newReader(f, fi.Size(), o)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	tr.closer = f
	return tr, nil
}

// Open opens a new Reader on top of ra. Closing the Reader leaves ra open.
func Open(ra io.ReaderAt, sz int64, o *opt.Options) (index.StoreReader, error) {
	return newReader(ra, sz, o)
}

// newReader wraps ra so that Release never closes it.
func newReader(ra io.ReaderAt, sz int64, o *opt.Options) (*reader, error) {
	fd := storage.FileDesc{Type: storage.TypeTable}
	tr, err := table.NewReader(io.NewSectionReader(ra, 0, sz), sz, fd, nil, nil, o)
	if err != nil {
		return nil, err
	}
	return &reader{Reader: tr}, nil
}

// Get returns nil if key is not stored.
func (r *reader) Get(key []byte) ([]byte, error) {
	val, err := r.Reader.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	return val, err
}

func (r *reader) Close() error {
	r.Reader.Release()
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// --------------------------------------------------------------------

type writer struct {
	*table.Writer
	closer io.Closer
}

// CreateFile creates a new Writer. Keys must be appended in ascending byte
// order.
func CreateFile(fname string, o *opt.Options) (index.StoreWriter, error) {
	f, err := os.Create(fname)
	if err != nil {
		return nil, err
	}
	return &writer{Writer: table.NewWriter(f, o), closer: f}, nil
}

// Create creates a new Writer on top of w.
func Create(w io.Writer, o *opt.Options) (index.StoreWriter, error) {
	return &writer{Writer: table.NewWriter(w, o)}, nil
}

func (w *writer) Put(key, value []byte) error {
	return w.Writer.Append(key, value)
}

func (w *writer) Close() error {
	err := w.Writer.Close()
	if w.closer != nil {
		if e := w.closer.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
