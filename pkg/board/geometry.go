package board

import "pinboard/pkg/models"

// Geometry carries the immutable board and note dimensions and provides
// the pure placement predicates. All notes share the same size, so rect
// tests only need origins.
type Geometry struct {
	BoardW, BoardH int
	NoteW, NoteH   int
}

// InsideBoard reports whether a note at origin (x, y) lies completely
// within the board.
func (g Geometry) InsideBoard(x, y int) bool {
	return x >= 0 && y >= 0 && x+g.NoteW <= g.BoardW && y+g.NoteH <= g.BoardH
}

// ContainsPoint reports whether the point lies inside the note's
// rectangle. Intervals are half-open on both axes: a point on the right
// or bottom edge is outside.
func (g Geometry) ContainsPoint(n models.Note, px, py int) bool {
	return px >= n.X && px < n.X+g.NoteW && py >= n.Y && py < n.Y+g.NoteH
}

// RectContains reports whether rectangle A contains rectangle B; edges
// may coincide.
func RectContains(ax, ay, aw, ah, bx, by, bw, bh int) bool {
	return bx >= ax && by >= ay && bx+bw <= ax+aw && by+bh <= ay+ah
}

// CompleteOverlap reports whether two same-size notes at the given origins
// completely overlap: either rectangle contains the other. With uniform
// note dimensions this reduces to equal origins, but the general
// containment test is the definition.
func (g Geometry) CompleteOverlap(ax, ay, bx, by int) bool {
	return RectContains(ax, ay, g.NoteW, g.NoteH, bx, by, g.NoteW, g.NoteH) ||
		RectContains(bx, by, g.NoteW, g.NoteH, ax, ay, g.NoteW, g.NoteH)
}
