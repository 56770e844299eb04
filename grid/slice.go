package grid

import (
	"fmt"
	"sort"

	"github.com/ctessum/geom"
	"github.com/golang/geo/r2"
)

// Fragment is the part of a feature that falls into a single grid cell.
type Fragment struct {
	FeatureID int64
	Cell      Cell
	Index     int // linear index in the reference grid, -1 if outside
	Geom      geom.MultiPolygon
}

// Slicer decomposes polygons into fragments of a reference grid. It is
// immutable and safe for concurrent use.
type Slicer struct {
	grid Grid
}

// NewSlicer validates g and returns a Slicer.
func NewSlicer(g Grid) (*Slicer, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &Slicer{grid: g}, nil
}

// Grid returns the reference grid.
func (s *Slicer) Grid() Grid { return s.grid }

// Slice decomposes every polygon of g and returns one fragment per covered
// cell, sorted by row and column. Each polygon is expected to carry its
// exterior ring first, followed by its holes. Fragments may fall outside of
// the reference grid.
func (s *Slicer) Slice(fid int64, g geom.Polygonal) []Fragment {
	polys := g.Polygons()

	bounds := geom.NewBounds()
	for _, p := range polys {
		bounds.Extend(p.Bounds())
	}
	if bounds.Min.X > bounds.Max.X || bounds.Min.Y > bounds.Max.Y {
		return nil
	}

	win, off := s.grid.Window(r2.RectFromPoints(
		r2.Point{X: bounds.Min.X, Y: bounds.Min.Y},
		r2.Point{X: bounds.Max.X, Y: bounds.Max.Y},
	))
	d := &decomposer{
		ref:     &s.grid,
		off:     off,
		numRows: win.NumRows,
		numCols: win.NumCols,
		cells:   make(map[int]geom.MultiPolygon),
	}
	for _, p := range polys {
		d.polygon(p)
	}
	return d.fragments(fid)
}

// --------------------------------------------------------------------

// decomposer holds the state of a single Slice call. Coordinates are local to
// the feature window.
type decomposer struct {
	ref              *Grid
	off              Cell
	numRows, numCols int

	cells map[int]geom.MultiPolygon // by window index, in (x=col, y=row) units
}

func (d *decomposer) polygon(poly geom.Polygon) {
	var shells, holes [][]Coord
	for i, r := range poly {
		ring := d.gridRing(r)
		if ring == nil {
			continue
		}
		if i == 0 {
			shells = append(shells, ring)
		} else {
			holes = append(holes, ring)
		}
	}
	if len(shells) == 0 {
		return
	}

	all := make([][]Coord, 0, len(shells)+len(holes))
	all = append(all, shells...)
	all = append(all, holes...)
	interior := Rasterize(all, d.numRows, d.numCols)

	d.combine(d.decompose(shells), d.decompose(holes), interior)
}

// decompose cuts rings into per-cell rings.
func (d *decomposer) decompose(rings [][]Coord) map[int][][]Coord {
	out := make(map[int][][]Coord)
	for _, ring := range rings {
		edges, ok := rotateToGrid(Split(ring))
		if len(edges) == 0 {
			continue
		}
		if !ok {
			idx := d.index(edges[0].Cell())
			out[idx] = append(out[idx], ring)
			continue
		}

		var cells []Cell
		runs := make(map[Cell][][]Coord)
		for _, r := range buildRuns(edges) {
			if _, ok := runs[r.Cell]; !ok {
				cells = append(cells, r.Cell)
			}
			runs[r.Cell] = append(runs[r.Cell], r.Pts)
		}
		for _, cell := range cells {
			idx := d.index(cell)
			out[idx] = append(out[idx], stitch(cell, runs[cell])...)
		}
	}
	return out
}

// combine subtracts hole rings from shell rings per cell and fills interior
// cells that no ring passes through.
func (d *decomposer) combine(shells, holes map[int][][]Coord, interior *Bitmap) {
	for idx, ss := range shells {
		if len(holes[idx]) != 0 {
			continue
		}
		for _, s := range ss {
			d.cells[idx] = append(d.cells[idx], geom.Polygon{toPoints(s)})
		}
	}

	for idx, hs := range holes {
		cell := d.cellAt(idx)

		var ss [][]geom.Point
		if len(shells[idx]) != 0 {
			for _, s := range shells[idx] {
				ss = append(ss, toPoints(s))
			}
		} else {
			ss = append(ss, unitSquare(cell)[0])
		}

		hh := make([][]geom.Point, 0, len(hs))
		for _, h := range hs {
			hh = append(hh, toPoints(h))
		}
		d.cells[idx] = append(d.cells[idx], difference(cell, ss, hh)...)
	}

	for row := 0; row < d.numRows; row++ {
		for col := 0; col < d.numCols; col++ {
			idx := row*d.numCols + col
			if !interior.Get(row, col) || len(shells[idx]) != 0 || len(holes[idx]) != 0 {
				continue
			}
			d.cells[idx] = append(d.cells[idx], unitSquare(Cell{Row: row, Col: col}))
		}
	}
}

func (d *decomposer) fragments(fid int64) []Fragment {
	idxs := make([]int, 0, len(d.cells))
	for idx, mp := range d.cells {
		if len(mp) != 0 {
			idxs = append(idxs, idx)
		}
	}
	sort.Ints(idxs)

	frags := make([]Fragment, 0, len(idxs))
	for _, idx := range idxs {
		local := d.cellAt(idx)
		cell := Cell{Row: local.Row + d.off.Row, Col: local.Col + d.off.Col}

		mp := make(geom.MultiPolygon, 0, len(d.cells[idx]))
		for _, poly := range d.cells[idx] {
			out := make(geom.Polygon, 0, len(poly))
			for _, ring := range poly {
				pts := make([]geom.Point, len(ring))
				for i, p := range ring {
					pts[i] = d.toPoint(Coord{Row: p.Y, Col: p.X})
				}
				out = append(out, pts)
			}
			orient(out)
			mp = append(mp, out)
		}

		index := -1
		if d.ref.Contains(cell) {
			index = d.ref.Index(cell)
		}
		frags = append(frags, Fragment{FeatureID: fid, Cell: cell, Index: index, Geom: mp})
	}
	return frags
}

// gridRing converts a projected ring into a closed window ring without
// repeated points and with a positive area in the (x=col, y=row) frame. It
// returns nil for degenerate rings.
func (d *decomposer) gridRing(ring []geom.Point) []Coord {
	out := make([]Coord, 0, len(ring)+1)
	for _, p := range ring {
		out = appendPoint(out, d.toGrid(p))
	}
	if n := len(out); n > 1 && out[0] == out[n-1] {
		out = out[:n-1]
	}
	if len(out) < 3 {
		return nil
	}

	out = append(out, out[0])
	switch a := signedArea(toPoints(out)); {
	case a == 0:
		return nil
	case a < 0:
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func (d *decomposer) toGrid(p geom.Point) Coord {
	c := d.ref.ToGrid(p.X, p.Y)
	return Coord{Row: c.Row - float64(d.off.Row), Col: c.Col - float64(d.off.Col)}
}

func (d *decomposer) toPoint(c Coord) geom.Point {
	return d.ref.ToPoint(Coord{Row: c.Row + float64(d.off.Row), Col: c.Col + float64(d.off.Col)})
}

func (d *decomposer) index(c Cell) int {
	if c.Row < 0 || c.Row >= d.numRows || c.Col < 0 || c.Col >= d.numCols {
		panic(fmt.Sprintf("grid: cell %v is outside of the %dx%d window", c, d.numRows, d.numCols))
	}
	return c.Row*d.numCols + c.Col
}

func (d *decomposer) cellAt(idx int) Cell {
	return Cell{Row: idx / d.numCols, Col: idx % d.numCols}
}

// toPoints maps grid coordinates to (x=col, y=row) points.
func toPoints(ring []Coord) []geom.Point {
	pts := make([]geom.Point, len(ring))
	for i, c := range ring {
		pts[i] = geom.Point{X: c.Col, Y: c.Row}
	}
	return pts
}

func unitSquare(c Cell) geom.Polygon {
	r, k := float64(c.Row), float64(c.Col)
	return geom.Polygon{{
		{X: k, Y: r},
		{X: k, Y: r + 1},
		{X: k + 1, Y: r + 1},
		{X: k + 1, Y: r},
		{X: k, Y: r},
	}}
}
