package index

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var b64std = base64.StdEncoding

// TabWriter writes a tab-separated file of cell index and base64 encoded
// value pairs, one per line. File names ending in .gz are gzip compressed.
type TabWriter struct {
	f *os.File
	z *gzip.Writer
	w *bufio.Writer

	buf []byte
}

// CreateTab creates or truncates fname. The name "-" writes to stdout.
func CreateTab(fname string) (*TabWriter, error) {
	return openTab(fname, os.O_WRONLY|os.O_TRUNC|os.O_CREATE)
}

// AppendTab opens fname for appending. The name "-" writes to stdout.
func AppendTab(fname string) (*TabWriter, error) {
	return openTab(fname, os.O_WRONLY|os.O_APPEND|os.O_CREATE)
}

func openTab(fname string, flag int) (*TabWriter, error) {
	if fname == "-" {
		return &TabWriter{w: bufio.NewWriter(os.Stdout)}, nil
	}

	f, err := os.OpenFile(fname, flag, 0666)
	if err != nil {
		return nil, err
	}

	w := &TabWriter{f: f}
	if strings.HasSuffix(fname, ".gz") {
		w.z = gzip.NewWriter(f)
		w.w = bufio.NewWriter(w.z)
	} else {
		w.w = bufio.NewWriter(f)
	}
	return w, nil
}

// Put writes a record. Keys may repeat.
func (w *TabWriter) Put(cell uint64, val []byte) error {
	w.buf = strconv.AppendUint(w.buf[:0], cell, 10)
	w.buf = append(w.buf, '\t')

	n := len(w.buf)
	w.buf = append(w.buf, make([]byte, b64std.EncodedLen(len(val)))...)
	b64std.Encode(w.buf[n:], val)
	w.buf = append(w.buf, '\n')

	_, err := w.w.Write(w.buf)
	return err
}

// Close flushes and closes the writer
func (w *TabWriter) Close() error {
	err := w.w.Flush()

	if w.z != nil {
		if e := w.z.Close(); e != nil {
			err = e
		}
	}
	if w.f != nil {
		if e := w.f.Close(); e != nil {
			err = e
		}
	}
	return err
}

// --------------------------------------------------------------------

// TabReader reads a tab-separated key-value file
type TabReader struct {
	f  *os.File
	z  *gzip.Reader
	in *bufio.Reader

	stashed struct {
		Key uint64
		Val []byte
		Err error
	}
}

// OpenTab opens a new TabReader iterator. The name "-" reads from stdin.
func OpenTab(fname string) (*TabReader, error) {
	if fname == "-" {
		return &TabReader{in: bufio.NewReader(os.Stdin)}, nil
	}

	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}

	r := &TabReader{f: f}
	if strings.HasSuffix(fname, ".gz") {
		r.z, err = gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		r.in = bufio.NewReader(r.z)
	} else {
		r.in = bufio.NewReader(r.f)
	}
	return r, nil
}

// Read reads the next key together with the values of all consecutive lines
// that share it. It returns io.EOF at the end of the input.
func (r *TabReader) Read() (uint64, [][]byte, error) {
	key, val, err := r.readNext()
	if err != nil {
		return 0, nil, err
	}
	vals := [][]byte{val}

	for {
		nextKey, nextVal, nextErr := r.readNext()
		if nextErr != nil {
			r.stashed.Err = nextErr
			break
		}
		if nextKey != key {
			r.stashed.Key = nextKey
			r.stashed.Val = nextVal
			break
		}
		vals = append(vals, nextVal)
	}

	return key, vals, nil
}

func (r *TabReader) readNext() (uint64, []byte, error) {
	if r.stashed.Err != nil || r.stashed.Val != nil {
		val := r.stashed.Val
		r.stashed.Val = nil
		return r.stashed.Key, val, r.stashed.Err
	}

	line, err := r.in.ReadBytes('\n')
	if err == io.EOF && len(line) != 0 {
		err = nil
	}
	if err != nil {
		return 0, nil, err
	}
	line = bytes.TrimRight(line, "\r\n")

	parts := bytes.SplitN(line, []byte{'\t'}, 2)
	if len(parts) != 2 {
		return 0, nil, fmt.Errorf("index: bad input %q", line)
	}

	key, err := strconv.ParseUint(string(parts[0]), 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("index: bad input %q", line)
	}

	val := make([]byte, b64std.DecodedLen(len(parts[1])))
	n, err := b64std.Decode(val, parts[1])
	if err != nil {
		return 0, nil, fmt.Errorf("index: bad input %q", line)
	}
	return key, val[:n], nil
}

// Close closes the reader
func (r *TabReader) Close() error {
	var err error

	if r.z != nil {
		if e := r.z.Close(); e != nil {
			err = e
		}
	}
	if r.f != nil {
		if e := r.f.Close(); e != nil {
			err = e
		}
	}
	return err
}
