package grid

import "fmt"

// run is a chain of points inside a single cell. Both ends lie on the cell
// boundary.
type run struct {
	Cell Cell
	Pts  []Coord
}

// buildRuns groups rotated, grid-confined edges into runs.
func buildRuns(edges []Edge) []run {
	var runs []run
	for i := 0; i < len(edges); i++ {
		cell := edges[i].Cell()
		pts := []Coord{edges[i].From}

		for ; !edges[i].To.OnGrid(); i++ {
			if i+1 == len(edges) {
				panic(fmt.Sprintf("grid: run in cell %v does not end on a grid line", cell))
			}
			if c := edges[i+1].Cell(); c != cell {
				panic(fmt.Sprintf("grid: run started in cell %v continues in %v", cell, c))
			}
			pts = append(pts, edges[i+1].From)
		}
		pts = append(pts, edges[i].To)

		runs = append(runs, run{Cell: cell, Pts: pts})
	}
	return runs
}
