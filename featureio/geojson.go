package featureio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bsm/gridkit/grid"
	"github.com/ctessum/geom"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type geojsonReader struct {
	features []*geojson.Feature
	idField  string
	pos      int
}

func openGeoJSON(path string, o *Options) (*geojsonReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return newGeoJSONReader(data, o)
}

func newGeoJSONReader(data []byte, o *Options) (*geojsonReader, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("featureio: decoding GeoJSON: %w", err)
	}
	return &geojsonReader{features: fc.Features, idField: o.IDField}, nil
}

// Next implements Reader.
func (r *geojsonReader) Next() (*Feature, error) {
	for r.pos < len(r.features) {
		pos := r.pos
		f := r.features[pos]
		r.pos++

		g, ok := fromOrb(f.Geometry)
		if !ok {
			continue
		}

		id, err := r.featureID(f, pos)
		if err != nil {
			return nil, fmt.Errorf("%w (feature #%d)", err, pos)
		}
		return &Feature{ID: id, Geom: g}, nil
	}
	return nil, io.EOF
}

// Len implements Reader.
func (r *geojsonReader) Len() int { return len(r.features) }

// Close implements Reader.
func (r *geojsonReader) Close() error { return nil }

func (r *geojsonReader) featureID(f *geojson.Feature, pos int) (int64, error) {
	if r.idField != "" {
		return parseID(f.Properties[r.idField])
	}
	if f.ID != nil {
		return parseID(f.ID)
	}
	return int64(pos), nil
}

// fromOrb converts polygonal geometries. It reports false for all other
// geometry types.
func fromOrb(g orb.Geometry) (geom.Polygonal, bool) {
	switch x := g.(type) {
	case orb.Polygon:
		return fromOrbPolygon(x), true
	case orb.MultiPolygon:
		mp := make(geom.MultiPolygon, 0, len(x))
		for _, p := range x {
			mp = append(mp, fromOrbPolygon(p))
		}
		return mp, true
	case orb.Collection:
		var mp geom.MultiPolygon
		for _, c := range x {
			if p, ok := fromOrb(c); ok {
				mp = append(mp, p.Polygons()...)
			}
		}
		return mp, len(mp) != 0
	}
	return nil, false
}

func fromOrbPolygon(p orb.Polygon) geom.Polygon {
	poly := make(geom.Polygon, 0, len(p))
	for _, r := range p {
		ring := make([]geom.Point, len(r))
		for i, pt := range r {
			ring[i] = geom.Point{X: pt[0], Y: pt[1]}
		}
		poly = append(poly, ring)
	}
	return poly
}

func toOrb(mp geom.MultiPolygon) orb.Geometry {
	res := make(orb.MultiPolygon, 0, len(mp))
	for _, p := range mp {
		poly := make(orb.Polygon, 0, len(p))
		for _, r := range p {
			ring := make(orb.Ring, len(r))
			for i, pt := range r {
				ring[i] = orb.Point{pt.X, pt.Y}
			}
			poly = append(poly, ring)
		}
		res = append(res, poly)
	}
	if len(res) == 1 {
		return res[0]
	}
	return res
}

// --------------------------------------------------------------------

// GeoJSONWriter streams fragments as a GeoJSON FeatureCollection.
type GeoJSONWriter struct {
	c io.Closer
	w *bufio.Writer
	n int
}

// CreateGeoJSON creates path and returns a writer on top of it. The name "-"
// writes to stdout.
func CreateGeoJSON(path string) (*GeoJSONWriter, error) {
	if path == "-" {
		return NewGeoJSONWriter(os.Stdout), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := NewGeoJSONWriter(f)
	w.c = f
	return w, nil
}

// NewGeoJSONWriter wraps w. Callers remain responsible for closing w.
func NewGeoJSONWriter(w io.Writer) *GeoJSONWriter {
	return &GeoJSONWriter{w: bufio.NewWriter(w)}
}

// Write writes a single fragment as a feature.
func (w *GeoJSONWriter) Write(frag *grid.Fragment) error {
	f := geojson.NewFeature(toOrb(frag.Geom))
	f.Properties["grid_index"] = frag.Index
	f.Properties["orig_fid"] = frag.FeatureID
	f.Properties["row"] = frag.Cell.Row
	f.Properties["col"] = frag.Cell.Col

	data, err := json.Marshal(f)
	if err != nil {
		return err
	}

	sep := ",\n"
	if w.n == 0 {
		sep = `{"type":"FeatureCollection","features":[` + "\n"
	}
	if _, err := w.w.WriteString(sep); err != nil {
		return err
	}
	if _, err := w.w.Write(data); err != nil {
		return err
	}
	w.n++
	return nil
}

// Close terminates the collection and flushes the output.
func (w *GeoJSONWriter) Close() error {
	tail := "\n]}\n"
	if w.n == 0 {
		tail = `{"type":"FeatureCollection","features":[]}` + "\n"
	}

	_, err := w.w.WriteString(tail)
	if e := w.w.Flush(); e != nil && err == nil {
		err = e
	}
	if w.c != nil {
		if e := w.c.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
