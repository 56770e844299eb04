package featureio

import (
	"fmt"
	"io"
	"strings"

	"github.com/bsm/gridkit/grid"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

type shapefileReader struct {
	dec     *shp.Decoder
	idField string
	pos     int
}

func openShapefile(path string, o *Options) (*shapefileReader, error) {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("featureio: opening shapefile: %w", err)
	}
	return &shapefileReader{dec: dec, idField: o.IDField}, nil
}

// Next implements Reader.
func (r *shapefileReader) Next() (*Feature, error) {
	var names []string
	if r.idField != "" {
		names = []string{r.idField}
	}

	for {
		g, fields, more := r.dec.DecodeRowFields(names...)
		if !more {
			if err := r.dec.Error(); err != nil {
				return nil, fmt.Errorf("featureio: reading shapefile: %w", err)
			}
			return nil, io.EOF
		}
		pos := r.pos
		r.pos++

		poly, ok := g.(geom.Polygonal)
		if !ok {
			continue
		}

		id := int64(pos)
		if r.idField != "" {
			val, ok := fields[r.idField]
			if !ok {
				return nil, fmt.Errorf("featureio: missing attribute %q (feature #%d)", r.idField, pos)
			}
			var err error
			if id, err = parseID(strings.Trim(val, "\x00")); err != nil {
				return nil, fmt.Errorf("%w (feature #%d)", err, pos)
			}
		}
		return &Feature{ID: id, Geom: nestParts(poly)}, nil
	}
}

// Len implements Reader.
func (r *shapefileReader) Len() int { return r.dec.AttributeCount() }

// Close implements Reader.
func (r *shapefileReader) Close() error {
	r.dec.Close()
	return nil
}

// nestParts regroups the parts of a shapefile polygon, which may hold
// several exterior rings, into proper polygons with holes.
func nestParts(g geom.Polygonal) geom.MultiPolygon {
	var rings []geom.Path
	for _, p := range g.Polygons() {
		rings = append(rings, p...)
	}
	return grid.NestRings(rings)
}
