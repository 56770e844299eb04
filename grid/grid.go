// Package grid decomposes planar polygons into per-cell fragments of a
// uniform raster grid.
package grid

import (
	"errors"
	"math"

	"github.com/ctessum/geom"
	"github.com/golang/geo/r2"
)

var (
	errBadCellSize = errors.New("grid: cell width and height must be non-zero")
	errBadShape    = errors.New("grid: number of rows and columns must be positive")
	errBadOrigin   = errors.New("grid: origin must be finite")
)

// Cell identifies a grid cell by its integer row and column.
type Cell struct {
	Row, Col int
}

// Grid describes a uniform raster grid in projected coordinates. The origin
// is the outer corner of cell (0,0). CellHeight is usually negative for
// north-up rasters.
type Grid struct {
	OriginX, OriginY      float64
	CellWidth, CellHeight float64
	NumRows, NumCols      int
}

// Validate checks the grid parameters.
func (g *Grid) Validate() error {
	if !isFinite(g.OriginX) || !isFinite(g.OriginY) {
		return errBadOrigin
	}
	if g.CellWidth == 0 || g.CellHeight == 0 || !isFinite(g.CellWidth) || !isFinite(g.CellHeight) {
		return errBadCellSize
	}
	if g.NumRows < 1 || g.NumCols < 1 {
		return errBadShape
	}
	return nil
}

// ToGrid converts a projected point to fractional grid coordinates.
func (g *Grid) ToGrid(x, y float64) Coord {
	return Coord{
		Row: (y - g.OriginY) / g.CellHeight,
		Col: (x - g.OriginX) / g.CellWidth,
	}
}

// ToPoint converts grid coordinates back to a projected point.
func (g *Grid) ToPoint(c Coord) geom.Point {
	return geom.Point{
		X: g.OriginX + g.CellWidth*c.Col,
		Y: g.OriginY + g.CellHeight*c.Row,
	}
}

// Index returns the linear index of a cell.
func (g *Grid) Index(c Cell) int {
	return c.Row*g.NumCols + c.Col
}

// CellAt is the inverse of Index.
func (g *Grid) CellAt(index int) Cell {
	return Cell{Row: index / g.NumCols, Col: index % g.NumCols}
}

// Contains reports whether the cell lies within the grid.
func (g *Grid) Contains(c Cell) bool {
	return c.Row >= 0 && c.Row < g.NumRows && c.Col >= 0 && c.Col < g.NumCols
}

// Extent returns the projected extent of the whole grid.
func (g *Grid) Extent() r2.Rect {
	return r2.RectFromPoints(
		g.point(0, 0),
		g.point(float64(g.NumRows), float64(g.NumCols)),
	)
}

// CellRect returns the projected extent of a single cell.
func (g *Grid) CellRect(c Cell) r2.Rect {
	r, k := float64(c.Row), float64(c.Col)
	return r2.RectFromPoints(g.point(r, k), g.point(r+1, k+1))
}

// Window returns the sub-grid covering rect, snapped to the lines of g,
// together with the offset of its first cell within g. The window may extend
// beyond the bounds of g.
func (g *Grid) Window(rect r2.Rect) (Grid, Cell) {
	c0, c1 := g.span(rect.X.Lo, rect.X.Hi, g.OriginX, g.CellWidth)
	r0, r1 := g.span(rect.Y.Lo, rect.Y.Hi, g.OriginY, g.CellHeight)

	return Grid{
		OriginX:    g.OriginX + g.CellWidth*float64(c0),
		OriginY:    g.OriginY + g.CellHeight*float64(r0),
		CellWidth:  g.CellWidth,
		CellHeight: g.CellHeight,
		NumRows:    r1 - r0 + 1,
		NumCols:    c1 - c0 + 1,
	}, Cell{Row: r0, Col: c0}
}

func (g *Grid) point(row, col float64) r2.Point {
	return r2.Point{X: g.OriginX + g.CellWidth*col, Y: g.OriginY + g.CellHeight*row}
}

func (*Grid) span(lo, hi, origin, size float64) (int, int) {
	a := int(math.Floor((lo - origin) / size))
	b := int(math.Floor((hi - origin) / size))
	if a > b {
		a, b = b, a
	}
	return a, b
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
