package grid

// Split cuts a closed ring into grid-confined edges, preserving ring order.
// Zero-length edges and edges running exactly along a grid line are dropped.
func Split(ring []Coord) []Edge {
	edges := make([]Edge, 0, len(ring))
	for i := 1; i < len(ring); i++ {
		edges = append(edges, Edge{From: ring[i-1], To: ring[i]})
	}
	return splitEdges(edges)
}

func splitEdges(edges []Edge) []Edge {
	stack := make([]Edge, 0, len(edges))
	for i := len(edges) - 1; i >= 0; i-- {
		stack = append(stack, edges[i])
	}

	out := make([]Edge, 0, len(edges))
	for n := len(stack); n != 0; n = len(stack) {
		e := stack[n-1]
		stack = stack[:n-1]

		if e.From == e.To || e.alongLine() {
			continue
		}

		switch {
		case crossesLine(e.From.Row, e.To.Row):
			row := nextLine(e.From.Row, e.To.Row)
			at := Coord{Row: row, Col: e.colAtRow(row)}
			stack = append(stack, Edge{From: at, To: e.To}, Edge{From: e.From, To: at})
		case crossesLine(e.From.Col, e.To.Col):
			col := nextLine(e.From.Col, e.To.Col)
			at := Coord{Row: e.rowAtCol(col), Col: col}
			stack = append(stack, Edge{From: at, To: e.To})
			out = append(out, Edge{From: e.From, To: at})
		default:
			out = append(out, e)
		}
	}
	return out
}

// rotateToGrid returns edges rotated to start with the first edge whose From
// lies on a grid line. It returns false if there is none.
func rotateToGrid(edges []Edge) ([]Edge, bool) {
	for i, e := range edges {
		if e.From.OnGrid() {
			if i == 0 {
				return edges, true
			}
			rotated := make([]Edge, 0, len(edges))
			rotated = append(rotated, edges[i:]...)
			return append(rotated, edges[:i]...), true
		}
	}
	return edges, false
}
