package grid

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
	clipper "github.com/ctessum/go.clipper"
)

// clipScale maps cell-local coordinates onto the integer plane of the
// clipper. Binary fractions of up to 36 bits map back exactly.
const clipScale = 1 << 36

// difference subtracts the hole rings from the shell rings of cell c. Rings
// are closed and given in (x=col, y=row) window coordinates. Rings with
// fewer than 4 points are dropped from the result.
func difference(c Cell, shells, holes [][]geom.Point) geom.MultiPolygon {
	ox, oy := float64(c.Col), float64(c.Row)

	cl := clipper.NewClipper(clipper.IoNone)
	cl.AddPaths(toClipPaths(shells, ox, oy), clipper.PtSubject, true)
	cl.AddPaths(toClipPaths(holes, ox, oy), clipper.PtClip, true)

	tree, ok := cl.Execute2(clipper.CtDifference, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		panic(fmt.Sprintf("grid: unable to subtract holes in cell %v", c))
	}
	return appendClipNodes(nil, tree.Childs(), ox, oy)
}

// appendClipNodes appends the outer nodes of a clipper result together with
// their holes. Islands within holes are appended as separate polygons.
func appendClipNodes(mp geom.MultiPolygon, outers []*clipper.PolyNode, ox, oy float64) geom.MultiPolygon {
	for _, outer := range outers {
		shell := fromClipPath(outer.Contour(), ox, oy)
		if shell != nil {
			poly := geom.Polygon{shell}
			for _, hole := range outer.Childs() {
				if ring := fromClipPath(hole.Contour(), ox, oy); ring != nil {
					poly = append(poly, ring)
				}
			}
			mp = append(mp, poly)
		}
		for _, hole := range outer.Childs() {
			mp = appendClipNodes(mp, hole.Childs(), ox, oy)
		}
	}
	return mp
}

func toClipPaths(rings [][]geom.Point, ox, oy float64) clipper.Paths {
	paths := make(clipper.Paths, 0, len(rings))
	for _, ring := range rings {
		if n := len(ring); n > 1 && ring[0] == ring[n-1] {
			ring = ring[:n-1]
		}
		path := make(clipper.Path, 0, len(ring))
		for _, p := range ring {
			path = append(path, &clipper.IntPoint{
				X: clipper.CInt(math.Round((p.X - ox) * clipScale)),
				Y: clipper.CInt(math.Round((p.Y - oy) * clipScale)),
			})
		}
		paths = append(paths, path)
	}
	return paths
}

// fromClipPath returns a closed ring or nil if path has fewer than three
// points.
func fromClipPath(path clipper.Path, ox, oy float64) []geom.Point {
	if len(path) < 3 {
		return nil
	}
	ring := make([]geom.Point, 0, len(path)+1)
	for _, p := range path {
		ring = append(ring, geom.Point{
			X: float64(p.X)/clipScale + ox,
			Y: float64(p.Y)/clipScale + oy,
		})
	}
	return append(ring, ring[0])
}
