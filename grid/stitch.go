package grid

import "math"

// stitch closes the runs of a single cell into rings, walking the cell
// boundary clockwise from each exit to the nearest entry.
func stitch(cell Cell, runs [][]Coord) [][]Coord {
	var rings [][]Coord
	for len(runs) != 0 {
		n := len(runs) - 1
		ring := append(make([]Coord, 0, 2*len(runs[n])), runs[n]...)
		runs = runs[:n]

		for {
			best, dist := -1, gap(cell, ring, ring[0], ring[1])
			for i, r := range runs {
				if d := gap(cell, ring, r[0], r[1]); d < dist {
					best, dist = i, d
				}
			}

			if best < 0 {
				ring = addCorners(cell, ring, ring[0], dist)
				ring = appendPoint(ring, ring[0])
				rings = append(rings, ring)
				break
			}

			next := runs[best]
			runs[best] = runs[len(runs)-1]
			runs = runs[:len(runs)-1]

			ring = addCorners(cell, ring, next[0], dist)
			for _, p := range next {
				ring = appendPoint(ring, p)
			}
		}
	}
	return rings
}

// gap returns the clockwise boundary distance from the end of ring to p,
// where after is the point following p. When p is the end of ring itself,
// the distance is 0 unless the polygon covers the boundary clockwise of p.
func gap(cell Cell, ring []Coord, p, after Coord) float64 {
	last := ring[len(ring)-1]
	if last != p {
		return clockwiseDistance(last.polar(cell.Row, cell.Col), p.polar(cell.Row, cell.Col))
	}
	if len(ring) > 1 && coversBoundary(cell, ring[len(ring)-2], p, after) {
		return 4
	}
	return 0
}

// coversBoundary reports whether the interior angle at p, between the
// incoming edge from prev and the outgoing edge to next, contains the
// clockwise boundary direction of cell at p.
func coversBoundary(cell Cell, prev, p, next Coord) bool {
	u, v, t := next.Sub(p), prev.Sub(p), tangent(cell, p)

	sweep := turn(angle(u), angle(v))
	if sweep == 0 {
		return false
	}
	pos := turn(angle(u), angle(t))
	return pos > 0 && pos < sweep
}

// tangent returns the clockwise boundary direction at p.
func tangent(cell Cell, p Coord) Coord {
	switch p.sideOf(cell.Row, cell.Col) {
	case Top:
		if p.Col == float64(cell.Col+1) {
			return Coord{Row: 1}
		}
		return Coord{Col: 1}
	case Right:
		return Coord{Row: 1}
	case Bottom:
		if p.Col == float64(cell.Col) {
			return Coord{Row: -1}
		}
		return Coord{Col: -1}
	default:
		return Coord{Row: -1}
	}
}

// angle of d in the (x=col, y=row) frame
func angle(d Coord) float64 { return math.Atan2(d.Row, d.Col) }

// turn returns the counter-clockwise rotation from a to b in [0, 2π).
func turn(a, b float64) float64 {
	d := math.Mod(b-a, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d
}

// addCorners appends the cell corners passed when walking the boundary
// clockwise from the end of ring to stop, dist being the gap between them.
func addCorners(cell Cell, ring []Coord, stop Coord, dist float64) []Coord {
	if dist == 0 {
		return ring
	}

	start := ring[len(ring)-1]

	side := start.sideOf(cell.Row, cell.Col)
	last := stop.sideOf(cell.Row, cell.Col)

	steps := (4 + int(last) - int(side)) % 4
	if steps == 0 && !side.clockwise(start, stop) {
		steps = 4
	}
	for i := 0; i < steps; i++ {
		ring = appendPoint(ring, side.Corner(cell.Row, cell.Col))
		side = side.Next()
	}
	return ring
}

// appendPoint appends p unless it repeats the last point.
func appendPoint(ring []Coord, p Coord) []Coord {
	if n := len(ring); n != 0 && ring[n-1] == p {
		return ring
	}
	return append(ring, p)
}
