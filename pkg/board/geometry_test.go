package board

import (
	"testing"

	"pinboard/pkg/models"
)

func TestInsideBoard(t *testing.T) {
	g := Geometry{BoardW: 10, BoardH: 10, NoteW: 2, NoteH: 2}

	cases := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{8, 8, true},  // flush with the bottom-right corner
		{9, 0, false}, // 9+2 > 10
		{0, 9, false},
		{-1, 0, false},
		{0, -1, false},
		{10, 10, false},
	}
	for _, c := range cases {
		if got := g.InsideBoard(c.x, c.y); got != c.want {
			t.Errorf("InsideBoard(%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestContainsPointHalfOpen(t *testing.T) {
	g := Geometry{BoardW: 10, BoardH: 10, NoteW: 2, NoteH: 2}
	n := models.Note{X: 4, Y: 4}

	if !g.ContainsPoint(n, 4, 4) {
		t.Fatalf("origin corner must be inside")
	}
	if !g.ContainsPoint(n, 5, 5) {
		t.Fatalf("interior point must be inside")
	}
	// right/bottom edges are exclusive
	if g.ContainsPoint(n, 6, 4) {
		t.Fatalf("x == x+w must be outside")
	}
	if g.ContainsPoint(n, 4, 6) {
		t.Fatalf("y == y+h must be outside")
	}
	if g.ContainsPoint(n, 3, 4) || g.ContainsPoint(n, 4, 3) {
		t.Fatalf("points before origin must be outside")
	}
}

func TestRectContains(t *testing.T) {
	// coincident edges count as contained
	if !RectContains(0, 0, 4, 4, 0, 0, 4, 4) {
		t.Fatalf("identical rects must contain each other")
	}
	if !RectContains(0, 0, 4, 4, 1, 1, 2, 2) {
		t.Fatalf("strictly inner rect must be contained")
	}
	if RectContains(0, 0, 4, 4, 3, 3, 2, 2) {
		t.Fatalf("partially overlapping rect is not contained")
	}
	if RectContains(1, 1, 2, 2, 0, 0, 4, 4) {
		t.Fatalf("larger rect is not contained by smaller")
	}
}

func TestCompleteOverlapUniformSize(t *testing.T) {
	g := Geometry{BoardW: 10, BoardH: 10, NoteW: 2, NoteH: 2}

	if !g.CompleteOverlap(3, 3, 3, 3) {
		t.Fatalf("equal origins must completely overlap")
	}
	// with uniform note size, any origin shift breaks complete overlap
	if g.CompleteOverlap(3, 3, 4, 3) {
		t.Fatalf("shifted same-size notes must not completely overlap")
	}
	if g.CompleteOverlap(0, 0, 1, 1) {
		t.Fatalf("diagonal partial overlap is not complete overlap")
	}
}
