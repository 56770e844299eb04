package grid

import (
	"math"
	"sort"
)

type scanEdge struct {
	enter, exit int     // first active row, first inactive row
	x           float64 // column at the center of the current row
	dx          float64 // column increment per row
}

// Rasterize marks every cell whose center lies inside the closed rings using
// the even-odd rule. Holes must be passed along with their shells.
func Rasterize(rings [][]Coord, numRows, numCols int) *Bitmap {
	bm := NewBitmap(numRows, numCols)

	var pending []scanEdge
	for _, ring := range rings {
		for i := 1; i < len(ring); i++ {
			top, bot := ring[i-1], ring[i]
			if top.Row == bot.Row {
				continue
			}
			if top.Row > bot.Row {
				top, bot = bot, top
			}

			enter := math.Floor(top.Row + 0.5)
			exit := math.Floor(bot.Row + 0.5)
			if enter >= exit {
				continue
			}

			dx := (bot.Col - top.Col) / (bot.Row - top.Row)
			pending = append(pending, scanEdge{
				enter: int(enter),
				exit:  int(exit),
				x:     top.Col + (enter+0.5-top.Row)*dx,
				dx:    dx,
			})
		}
	}

	// pop from the back
	sort.Slice(pending, func(i, j int) bool { return pending[i].enter > pending[j].enter })

	var active []scanEdge
	var hits []float64
	for row := 0; row < numRows && (len(pending) != 0 || len(active) != 0); row++ {
		for n := len(pending); n != 0 && pending[n-1].enter <= row; n = len(pending) {
			e := pending[n-1]
			pending = pending[:n-1]

			if e.enter < row {
				e.x += float64(row-e.enter) * e.dx
				e.enter = row
			}
			if e.exit > row {
				active = append(active, e)
			}
		}

		hits = hits[:0]
		for _, e := range active {
			hits = append(hits, e.x)
		}
		sort.Float64s(hits)

		odd, h := false, 0
		for col := 0; col < numCols; col++ {
			center := float64(col) + 0.5
			for ; h < len(hits) && hits[h] < center; h++ {
				odd = !odd
			}
			if odd {
				bm.Set(row, col)
			}
		}

		kept := active[:0]
		for _, e := range active {
			if e.exit == row+1 {
				continue
			}
			e.x += e.dx
			kept = append(kept, e)
		}
		active = kept
	}
	return bm
}
