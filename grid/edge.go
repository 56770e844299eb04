package grid

import (
	"fmt"
	"math"
)

// Edge is a directed segment between two grid coordinates.
type Edge struct {
	From, To Coord
}

// Delta returns To-From.
func (e Edge) Delta() Coord { return e.To.Sub(e.From) }

// Confined reports whether e crosses no row or column line between its
// endpoints.
func (e Edge) Confined() bool {
	return !crossesLine(e.From.Row, e.To.Row) && !crossesLine(e.From.Col, e.To.Col)
}

// Cell returns the owning cell of a confined edge. An endpoint on a line
// belongs to the cell the edge runs into.
func (e Edge) Cell() Cell {
	return Cell{Row: ownerOf(e.From.Row, e.To.Row), Col: ownerOf(e.From.Col, e.To.Col)}
}

// alongLine reports whether e runs exactly along a grid line.
func (e Edge) alongLine() bool {
	return (e.From.Col == e.To.Col && isIntegral(e.From.Col)) ||
		(e.From.Row == e.To.Row && isIntegral(e.From.Row))
}

// colAtRow interpolates the column at which e passes row.
func (e Edge) colAtRow(row float64) float64 {
	d := e.Delta()
	k := (row - e.From.Row) / d.Row
	if k < 0 || k > 1 {
		panic(fmt.Sprintf("grid: row %g is outside of edge %v-%v", row, e.From, e.To))
	}
	return e.From.Col + d.Col*k
}

// rowAtCol interpolates the row at which e passes col.
func (e Edge) rowAtCol(col float64) float64 {
	d := e.Delta()
	k := (col - e.From.Col) / d.Col
	if k < 0 || k > 1 {
		panic(fmt.Sprintf("grid: column %g is outside of edge %v-%v", col, e.From, e.To))
	}
	return e.From.Row + d.Row*k
}

func ownerOf(from, to float64) int {
	n := math.Floor(from)
	if n == from && from > to {
		n--
	}
	return int(n)
}

// crossesLine reports whether the open interval between a and b contains
// an integer. An integral upper bound counts as the cell below it.
func crossesLine(a, b float64) bool {
	if a == b {
		return false
	}
	if a > b {
		a, b = b, a
	}
	hi := math.Floor(b)
	if hi == b {
		hi--
	}
	return math.Floor(a) != hi
}

// nextLine returns the first grid line crossed when moving from v towards
// target.
func nextLine(v, target float64) float64 {
	n := math.Floor(v)
	switch {
	case v < target:
		return n + 1
	case n == v:
		return n - 1
	default:
		return n
	}
}
