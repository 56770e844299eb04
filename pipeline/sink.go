package pipeline

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bsm/gridkit/cellstore"
	"github.com/bsm/gridkit/featureio"
	"github.com/bsm/gridkit/grid"
	"github.com/bsm/gridkit/index"
	"github.com/bsm/gridkit/index/lsst"
)

// Format names an output format.
type Format string

// Supported output formats.
const (
	FormatGeoJSON   Format = "geojson"
	FormatTab       Format = "tab"
	FormatCellStore Format = "cellstore"
	FormatSST       Format = "sst"
)

// ParseFormat parses a format name. An empty name yields FormatGeoJSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatGeoJSON, nil
	case FormatGeoJSON, FormatTab, FormatCellStore, FormatSST:
		return f, nil
	}
	return "", fmt.Errorf("pipeline: unknown output format %q", s)
}

// Sink consumes fragments. Write is only ever called from a single goroutine.
type Sink interface {
	Write(*grid.Fragment) error
	Close() error
}

func openSink(c *Config) (Sink, error) {
	switch c.Format {
	case FormatGeoJSON:
		return featureio.CreateGeoJSON(c.Output)
	case FormatTab:
		w, err := index.CreateTab(c.Output)
		if err != nil {
			return nil, err
		}
		return &tabSink{w: w}, nil
	case FormatCellStore:
		f, err := os.Create(c.Output)
		if err != nil {
			return nil, err
		}
		w := cellstore.NewWriter(f, &cellstore.Options{Compression: c.Compression})
		return newSortedSink(c.TempDir, w.Append, func() error {
			err := w.Close()
			if e := f.Close(); e != nil && err == nil {
				err = e
			}
			return err
		}), nil
	case FormatSST:
		store, err := lsst.CreateFile(c.Output, nil)
		if err != nil {
			return nil, err
		}
		return NewStoreSink(store, c.TempDir), nil
	}
	return nil, fmt.Errorf("pipeline: unknown output format %q", c.Format)
}

// --------------------------------------------------------------------

type tabSink struct {
	w   *index.TabWriter
	buf []byte
}

func (s *tabSink) Write(frag *grid.Fragment) error {
	var err error
	if s.buf, err = frag.AppendBinary(s.buf[:0]); err != nil {
		return err
	}
	return s.w.Put(uint64(frag.Index), s.buf)
}

func (s *tabSink) Close() error { return s.w.Close() }

// --------------------------------------------------------------------

// sortedSink buffers fragments in an external sorter and emits them on Close
// in ascending cell order, one value per cell. Values hold the binary
// encodings of all fragments of the cell, concatenated.
type sortedSink struct {
	sorter *cellstore.Sorter
	put    func(uint64, []byte) error
	close  func() error
	buf    []byte
}

func newSortedSink(tempDir string, put func(uint64, []byte) error, close func() error) *sortedSink {
	return &sortedSink{
		sorter: cellstore.NewSorter(&cellstore.SorterOptions{TempDir: tempDir}),
		put:    put,
		close:  close,
	}
}

// NewStoreSink returns a sink that writes fragments grouped per cell into
// store, keyed by index.Key. Closing the sink closes store.
func NewStoreSink(store index.StoreWriter, tempDir string) Sink {
	w := index.NewWriter(store)
	return newSortedSink(tempDir, w.Put, store.Close)
}

func (s *sortedSink) Write(frag *grid.Fragment) error {
	var err error
	if s.buf, err = frag.AppendBinary(s.buf[:0]); err != nil {
		return err
	}
	return s.sorter.Append(uint64(frag.Index), s.buf)
}

func (s *sortedSink) Close() error {
	err := s.flush()
	if e := s.sorter.Close(); e != nil && err == nil {
		err = e
	}
	if e := s.close(); e != nil && err == nil {
		err = e
	}
	return err
}

func (s *sortedSink) flush() error {
	iter, err := s.sorter.Sort()
	if err != nil {
		return err
	}
	defer iter.Close()

	for {
		key, vals, err := iter.NextEntry()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		s.buf = s.buf[:0]
		for _, v := range vals {
			s.buf = append(s.buf, v...)
		}
		if err := s.put(key, s.buf); err != nil {
			return err
		}
	}
}
