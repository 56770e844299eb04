// Package featureio reads polygon features from vector files and writes
// grid fragments as GeoJSON.
package featureio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
)

var errUnknownFormat = errors.New("featureio: unknown input format")

// Feature is a polygonal input feature.
type Feature struct {
	ID   int64
	Geom geom.Polygonal
}

// Reader iterates over features. Next returns io.EOF once all features have
// been read.
type Reader interface {
	Next() (*Feature, error)
	// Len returns the number of records in the input, including those
	// skipped by Next.
	Len() int
	Close() error
}

// Options configure readers.
type Options struct {
	// IDField names the attribute to read feature IDs from. By default,
	// native feature IDs are used, falling back on the position of the
	// feature within the input.
	IDField string
}

func (o *Options) norm() *Options {
	var oo Options
	if o != nil {
		oo = *o
	}
	return &oo
}

// Open opens a reader for path. The format is derived from the file
// extension: .geojson and .json for GeoJSON, .shp for shapefiles, .osm and
// .osm.gz for OpenStreetMap XML.
func Open(path string, o *Options) (Reader, error) {
	o = o.norm()

	name := strings.ToLower(path)
	switch {
	case strings.HasSuffix(name, ".geojson"), strings.HasSuffix(name, ".json"):
		return openGeoJSON(path, o)
	case strings.HasSuffix(name, ".shp"):
		return openShapefile(path, o)
	case strings.HasSuffix(name, ".osm"), strings.HasSuffix(name, ".osm.gz"):
		return openOSM(path, o)
	}
	return nil, fmt.Errorf("%w %q", errUnknownFormat, filepath.Ext(path))
}

// parseID converts an attribute value to a feature ID.
func parseID(v interface{}) (int64, error) {
	switch x := v.(type) {
	case float64:
		if x != float64(int64(x)) {
			return 0, fmt.Errorf("featureio: feature ID %v is not an integer", x)
		}
		return int64(x), nil
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("featureio: invalid feature ID %q", x)
		}
		return id, nil
	case nil:
		return 0, errors.New("featureio: missing feature ID")
	}
	return 0, fmt.Errorf("featureio: invalid feature ID %v", v)
}
