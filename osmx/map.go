package osmx

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/ctessum/geom"
	osm "github.com/glaslos/go-osm"
)

// Map wraps osm.Map and indexes its elements by ID.
type Map struct {
	*osm.Map
}

// Decode decodes OSM XML data.
func Decode(r io.Reader) (*Map, error) {
	parent, err := osm.Decode(r)
	if err != nil {
		return nil, err
	}
	return WrapMap(parent), nil
}

// WrapMap wraps parent and sorts its elements for lookups.
func WrapMap(parent *osm.Map) *Map {
	sort.Slice(parent.Nodes, func(i, j int) bool { return parent.Nodes[i].ID < parent.Nodes[j].ID })
	sort.Slice(parent.Ways, func(i, j int) bool { return parent.Ways[i].ID < parent.Ways[j].ID })
	sort.Slice(parent.Relations, func(i, j int) bool { return parent.Relations[i].ID < parent.Relations[j].ID })
	return &Map{Map: parent}
}

// FindNode finds and returns a node by its ID.
func (m *Map) FindNode(id int64) (*osm.Node, error) {
	if pos := sort.Search(len(m.Nodes), func(i int) bool { return m.Nodes[i].ID >= id }); pos < len(m.Nodes) && m.Nodes[pos].ID == id {
		return &m.Nodes[pos], nil
	}
	return nil, fmt.Errorf("osmx: node #%d not found", id)
}

// FindWay finds and returns a way by its ID.
func (m *Map) FindWay(id int64) (*osm.Way, error) {
	if pos := sort.Search(len(m.Ways), func(i int) bool { return m.Ways[i].ID >= id }); pos < len(m.Ways) && m.Ways[pos].ID == id {
		if way := &m.Ways[pos]; len(way.Nds) != 0 {
			return way, nil
		}
	}
	return nil, fmt.Errorf("osmx: way #%d not found", id)
}

// FindRelation finds and returns a relation by its ID.
func (m *Map) FindRelation(id int64) (*osm.Relation, error) {
	if pos := sort.Search(len(m.Relations), func(i int) bool { return m.Relations[i].ID >= id }); pos < len(m.Relations) && m.Relations[pos].ID == id {
		return &m.Relations[pos], nil
	}
	return nil, fmt.Errorf("osmx: relation #%d not found", id)
}

// MultiPolygon assembles the way members of rel into polygons in (lon, lat)
// coordinates. Outer rings are counter-clockwise, inner rings clockwise and
// attached to the outer ring that contains them.
func (m *Map) MultiPolygon(rel *osm.Relation) (geom.MultiPolygon, error) {
	ways, err := m.wayPaths(rel)
	if err != nil {
		return nil, err
	}

	var outer geom.MultiPolygon
	var inner [][]geom.Point
	for _, w := range ways.Reduce() {
		ring, err := w.Ring()
		if err != nil {
			return nil, err
		}
		if len(ring) < 4 {
			return nil, fmt.Errorf("osmx: relation #%d contains a degenerate ring", rel.ID)
		}

		if w.Role == "outer" {
			outer = append(outer, geom.Polygon{orient(ring, true)})
		} else {
			inner = append(inner, orient(ring, false))
		}
	}
	if len(outer) == 0 {
		return nil, fmt.Errorf("osmx: relation #%d has no outer ring", rel.ID)
	}

	for _, ring := range inner {
		pos := containing(outer, ring)
		if pos < 0 {
			return nil, fmt.Errorf("osmx: relation #%d has an inner ring outside of all outer rings", rel.ID)
		}
		outer[pos] = append(outer[pos], ring)
	}
	return outer, nil
}

// Feature is an area built from a relation.
type Feature struct {
	ID   int64
	Tags map[string]string
	Geom geom.MultiPolygon
}

// Features builds features from all multipolygon and boundary relations. IDs
// are parsed from the idTag tag if given, relation IDs are used otherwise.
func (m *Map) Features(idTag string) ([]*Feature, error) {
	var res []*Feature
	for i := range m.Relations {
		rel := &m.Relations[i]
		if typ := Tag(rel, "type"); typ != "multipolygon" && typ != "boundary" {
			continue
		}

		feat := &Feature{ID: rel.ID, Tags: make(map[string]string, len(rel.Tags))}
		for _, t := range rel.Tags {
			feat.Tags[t.Key] = t.Value
		}
		if idTag != "" {
			id, err := strconv.ParseInt(feat.Tags[idTag], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("osmx: relation #%d has an invalid %q tag: %w", rel.ID, idTag, err)
			}
			feat.ID = id
		}

		mp, err := m.MultiPolygon(rel)
		if err != nil {
			return nil, err
		}
		feat.Geom = mp
		res = append(res, feat)
	}
	return res, nil
}

// Tag returns the value of a relation tag.
func Tag(rel *osm.Relation, key string) string {
	for _, tag := range rel.Tags {
		if tag.Key == key {
			return tag.Value
		}
	}
	return ""
}

// --------------------------------------------------------------------

func (m *Map) wayPaths(rel *osm.Relation) (waySlice, error) {
	var res waySlice
	for _, om := range rel.Members {
		if om.Type != "way" {
			continue
		}

		ow, err := m.FindWay(om.Ref)
		if err != nil {
			return nil, err
		}

		role := om.Role
		if role == "" {
			role = "outer"
		}

		w := &wayPath{Role: role, Path: make([]*osm.Node, 0, len(ow.Nds))}
		for _, nd := range ow.Nds {
			on, err := m.FindNode(nd.ID)
			if err != nil {
				return nil, err
			}
			w.Path = append(w.Path, on)
		}

		if w.IsValid() {
			res = append(res, w)
		}
	}
	return res, nil
}

// containing returns the position of the first polygon whose exterior
// contains ring, or -1.
func containing(polys geom.MultiPolygon, ring []geom.Point) int {
	for i, poly := range polys {
		if within(ring, geom.Polygon{poly[0]}) {
			return i
		}
	}
	return -1
}

// within judges by the first vertex of ring that is not on the edge of shell.
func within(ring []geom.Point, shell geom.Polygon) bool {
	for _, p := range ring {
		switch p.Within(shell) {
		case geom.Inside:
			return true
		case geom.Outside:
			return false
		}
	}
	return false
}

// orient returns ring in counter-clockwise order if ccw is set, in clockwise
// order otherwise.
func orient(ring []geom.Point, ccw bool) []geom.Point {
	var a float64
	for i := 1; i < len(ring); i++ {
		a += ring[i-1].X*ring[i].Y - ring[i].X*ring[i-1].Y
	}
	if (a > 0) != ccw {
		for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
			ring[i], ring[j] = ring[j], ring[i]
		}
	}
	return ring
}
