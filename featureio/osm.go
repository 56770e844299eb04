package featureio

import (
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/bsm/gridkit/osmx"
)

type osmReader struct {
	features []*osmx.Feature
	pos      int
}

func openOSM(path string, o *Options) (*osmReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var in io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		z, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer z.Close()
		in = z
	}
	return newOSMReader(in, o)
}

func newOSMReader(in io.Reader, o *Options) (*osmReader, error) {
	m, err := osmx.Decode(in)
	if err != nil {
		return nil, err
	}

	features, err := m.Features(o.IDField)
	if err != nil {
		return nil, err
	}
	return &osmReader{features: features}, nil
}

// Next implements Reader.
func (r *osmReader) Next() (*Feature, error) {
	if r.pos >= len(r.features) {
		return nil, io.EOF
	}

	f := r.features[r.pos]
	r.pos++
	return &Feature{ID: f.ID, Geom: f.Geom}, nil
}

// Len implements Reader.
func (r *osmReader) Len() int { return len(r.features) }

// Close implements Reader.
func (r *osmReader) Close() error { return nil }
