// Package osmx extracts polygon geometries from OpenStreetMap XML data.
package osmx

import (
	"errors"
	"math"

	"github.com/ctessum/geom"
	osm "github.com/glaslos/go-osm"
)

var (
	errOpenWay    = errors.New("osmx: cannot build ring from an open way")
	errInvalidWay = errors.New("osmx: cannot build ring from an invalid way")
)

// wayPath denotes a chain of Nodes that may or may not be closed.
type wayPath struct {
	Role string
	Path []*osm.Node
}

// First returns the first node.
func (w *wayPath) First() *osm.Node { return w.Path[0] }

// Last returns the last node.
func (w *wayPath) Last() *osm.Node { return w.Path[len(w.Path)-1] }

// FirstID returns the first node ID.
func (w *wayPath) FirstID() int64 { return w.First().ID }

// LastID returns the last node ID.
func (w *wayPath) LastID() int64 { return w.Last().ID }

// IsClosed denotes whether the Path is closed.
func (w *wayPath) IsClosed() bool { return w.FirstID() == w.LastID() }

// IsValid denotes whether the way is valid.
func (w *wayPath) IsValid() bool { return len(w.Path) > 1 && (w.Role == "outer" || w.Role == "inner") }

// EdgeMerge merges o onto w if both ways share an end node. It returns true
// if the merge was successful.
func (w *wayPath) EdgeMerge(o *wayPath) bool {
	if w.Role != o.Role {
		return false
	}

	switch {
	case w.LastID() == o.FirstID(): // a b c d + d e f g
		w.join(o, appendMode)
	case w.FirstID() == o.LastID(): // d e f g + a b c d
		w.join(o, prependMode)
	case w.FirstID() == o.FirstID(): // d c b a + d e f g
		w.join(o, reverseSelfMode)
	case w.LastID() == o.LastID(): // a b c d + g f e d
		w.join(o, reverseOtherMode)
	default:
		return false
	}
	return true
}

// ForceMerge joins o onto w even if they do not share a node.
func (w *wayPath) ForceMerge(o *wayPath, mode joinMode) {
	if w.Role != o.Role {
		return
	}

	switch mode {
	case appendMode:
		w.Path = append(w.Path, o.Path...)
	case prependMode:
		w.Path = append(o.Path, w.Path...)
	case reverseSelfMode:
		w.Path = append(w.reversePath(), o.Path...)
	case reverseOtherMode:
		w.Path = append(w.Path, o.reversePath()...)
	}
}

// join merges o onto w, dropping the shared node.
func (w *wayPath) join(o *wayPath, mode joinMode) {
	switch mode {
	case appendMode:
		w.Path = append(w.Path, o.Path[1:]...)
	case prependMode:
		w.Path = append(o.Path, w.Path[1:]...)
	case reverseSelfMode:
		w.Path = append(w.reversePath(), o.Path[1:]...)
	case reverseOtherMode:
		w.Path = append(w.Path, o.reversePath()[1:]...)
	}
}

// MinEndDistance returns the minimum planar distance between the end nodes
// of two ways, together with the mode that would join them there.
func (w *wayPath) MinEndDistance(o *wayPath) (min float64, mode joinMode) {
	min = math.Inf(1)
	if w.Role != o.Role {
		return min, mode
	}

	if d := distance(w.Last(), o.First()); d < min {
		min, mode = d, appendMode
	}
	if d := distance(w.First(), o.Last()); d < min {
		min, mode = d, prependMode
	}
	if d := distance(w.First(), o.First()); d < min {
		min, mode = d, reverseSelfMode
	}
	if d := distance(w.Last(), o.Last()); d < min {
		min, mode = d, reverseOtherMode
	}
	return min, mode
}

// Ring returns the closed ring of (lon, lat) points.
func (w *wayPath) Ring() ([]geom.Point, error) {
	if !w.IsValid() {
		return nil, errInvalidWay
	} else if !w.IsClosed() {
		return nil, errOpenWay
	}

	ring := make([]geom.Point, 0, len(w.Path))
	for _, nd := range w.Path {
		ring = append(ring, geom.Point{X: nd.Lng, Y: nd.Lat})
	}
	return ring, nil
}

func (w *wayPath) reversePath() []*osm.Node {
	for i, j := 0, len(w.Path)-1; i < j; i, j = i+1, j-1 {
		w.Path[i], w.Path[j] = w.Path[j], w.Path[i]
	}
	return w.Path
}

func distance(a, b *osm.Node) float64 {
	return math.Hypot(a.Lng-b.Lng, a.Lat-b.Lat)
}

// joinMode describes how two ways are joined. Example:
//
//	w: a b c
//	o: d e f
//
//	appendMode       => a b c d e f
//	prependMode      => d e f a b c
//	reverseSelfMode  => c b a d e f
//	reverseOtherMode => a b c f e d
type joinMode int

const (
	appendMode joinMode = iota + 1
	prependMode
	reverseSelfMode
	reverseOtherMode
)

// --------------------------------------------------------------------

type waySlice []*wayPath

// Reduce reduces ways to closed rings by joining them together. Ways that
// cannot be joined through shared nodes are joined to their nearest open
// neighbour and closed. Destructive!
func (s waySlice) Reduce() waySlice {
	for i, w := range s {
		if w != nil {
			s.mergeEdges(w, i+1)
		}
	}
	s = s.compact(false)

	for i, w := range s {
		if w != nil && !w.IsClosed() {
			s.mergeOpen(w, i+1)
		}
	}
	return s.compact(true)
}

// compact removes all nils, optionally closing open ways.
func (s waySlice) compact(close bool) waySlice {
	clean := s[:0]
	for _, w := range s {
		if w == nil {
			continue
		}
		if close && !w.IsClosed() {
			w.Path = append(w.Path, w.Path[0])
		}
		clean = append(clean, w)
	}
	return clean
}

func (s waySlice) mergeEdges(w *wayPath, off int) {
	for merged := true; merged; {
		merged = false
		for i, x := range s[off:] {
			if x != nil && w.EdgeMerge(x) {
				s[i+off] = nil
				merged = true
			}
		}
	}
}

func (s waySlice) mergeOpen(w *wayPath, off int) {
	for {
		pos, mode, min := -1, joinMode(0), math.Inf(1)
		for i, x := range s[off:] {
			if x == nil || x.IsClosed() {
				continue
			}
			if d, m := w.MinEndDistance(x); d < min {
				pos, mode, min = i+off, m, d
			}
		}
		if pos < 0 {
			return
		}

		w.ForceMerge(s[pos], mode)
		s[pos] = nil
	}
}
