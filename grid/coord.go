package grid

import (
	"fmt"
	"math"
)

// Coord is a point in fractional grid units.
type Coord struct {
	Row, Col float64
}

// OnGrid reports whether c lies on a grid line.
func (c Coord) OnGrid() bool {
	return isIntegral(c.Row) || isIntegral(c.Col)
}

// Sub returns c-o.
func (c Coord) Sub(o Coord) Coord {
	return Coord{Row: c.Row - o.Row, Col: c.Col - o.Col}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%g,%g)", c.Row, c.Col)
}

// sideOf returns the side of cell (row,col) that c lies on. Grid corners are
// classified by their row, as Top or Bottom.
func (c Coord) sideOf(row, col int) Side {
	switch {
	case c.Row == float64(row):
		return Top
	case c.Row == float64(row+1):
		return Bottom
	case c.Col == float64(col):
		return Left
	case c.Col == float64(col+1):
		return Right
	}
	panic(fmt.Sprintf("grid: %v is not on the boundary of cell %d,%d", c, row, col))
}

// polar returns the clockwise position of c along the boundary of cell
// (row,col), in [0,4]. Top starts at 0 in the top-left corner.
func (c Coord) polar(row, col int) float64 {
	r, k := float64(row), float64(col)
	if c.Row < r || c.Row > r+1 || c.Col < k || c.Col > k+1 {
		panic(fmt.Sprintf("grid: %v is outside of cell %d,%d", c, row, col))
	}

	side := c.sideOf(row, col)
	switch side {
	case Top:
		return float64(side) + c.Col - k
	case Right:
		return float64(side) + c.Row - r
	case Bottom:
		return float64(side) + 1 + k - c.Col
	default:
		return float64(side) + 1 + r - c.Row
	}
}

func isIntegral(v float64) bool {
	return math.Floor(v) == v
}

// --------------------------------------------------------------------

// Side is a side of a cell, enumerated clockwise.
type Side uint8

const (
	Top Side = iota
	Right
	Bottom
	Left
)

// Next returns the clockwise successor.
func (s Side) Next() Side {
	switch s {
	case Top:
		return Right
	case Right:
		return Bottom
	case Bottom:
		return Left
	default:
		return Top
	}
}

// Corner returns the corner of cell (row,col) that terminates s when
// walking clockwise.
func (s Side) Corner(row, col int) Coord {
	r, k := float64(row), float64(col)
	switch s {
	case Top:
		return Coord{Row: r, Col: k + 1}
	case Right:
		return Coord{Row: r + 1, Col: k + 1}
	case Bottom:
		return Coord{Row: r + 1, Col: k}
	default:
		return Coord{Row: r, Col: k}
	}
}

// clockwise reports whether b comes after a when walking s clockwise.
// Both points must lie on s.
func (s Side) clockwise(a, b Coord) bool {
	switch s {
	case Top:
		return b.Col > a.Col
	case Right:
		return b.Row > a.Row
	case Bottom:
		return a.Col > b.Col
	default:
		return a.Row > b.Row
	}
}

func (s Side) String() string {
	switch s {
	case Top:
		return "Top"
	case Right:
		return "Right"
	case Bottom:
		return "Bottom"
	case Left:
		return "Left"
	}
	return fmt.Sprintf("Side(%d)", uint8(s))
}

// clockwiseDistance returns the distance from polar position a to b walking
// clockwise. Equal positions are a full loop apart.
func clockwiseDistance(a, b float64) float64 {
	if b > a {
		return b - a
	}
	return 4 - a + b
}
