package grid

import "github.com/ctessum/geom"

// NestRings groups a flat set of closed rings into polygons. A ring inside an
// odd number of other rings becomes a hole of its innermost container. Rings
// with fewer than 4 points are dropped.
func NestRings(rings []geom.Path) geom.MultiPolygon {
	valid := rings[:0:0]
	for _, r := range rings {
		if len(r) >= 4 {
			valid = append(valid, r)
		}
	}

	n := len(valid)
	parents := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && ringInside(valid[i], valid[j]) {
				parents[i] = append(parents[i], j)
			}
		}
	}

	var mp geom.MultiPolygon
	pos := make(map[int]int, n)
	for i := 0; i < n; i++ {
		if len(parents[i])%2 == 0 {
			pos[i] = len(mp)
			mp = append(mp, geom.Polygon{valid[i]})
		}
	}
	for i := 0; i < n; i++ {
		depth := len(parents[i])
		if depth%2 == 0 {
			continue
		}
		for _, j := range parents[i] {
			if len(parents[j]) == depth-1 {
				mp[pos[j]] = append(mp[pos[j]], valid[i])
				break
			}
		}
	}
	return mp
}

// ringInside reports whether inner lies within outer, judged by the first
// vertex of inner that is not on the edge of outer.
func ringInside(inner, outer []geom.Point) bool {
	poly := geom.Polygon{outer}
	for _, p := range inner {
		switch p.Within(poly) {
		case geom.Inside:
			return true
		case geom.Outside:
			return false
		}
	}
	return false
}

// signedArea returns the shoelace area of a closed ring, positive for
// counter-clockwise rings with the y axis pointing up.
func signedArea(ring []geom.Point) float64 {
	var a float64
	for i := 1; i < len(ring); i++ {
		a += ring[i-1].X*ring[i].Y - ring[i].X*ring[i-1].Y
	}
	return a / 2
}

func reversePoints(ring []geom.Point) {
	for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
		ring[i], ring[j] = ring[j], ring[i]
	}
}

// orient enforces counter-clockwise exteriors and clockwise holes.
func orient(poly geom.Polygon) {
	for i, ring := range poly {
		if ccw := signedArea(ring) > 0; ccw != (i == 0) {
			reversePoints(ring)
		}
	}
}
