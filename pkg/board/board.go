package board

import (
	"sort"
	"strings"
	"sync"
	"time"

	"pinboard/pkg/models"
	"pinboard/pkg/protocol"
)

// Board is the single shared in-memory store. Mutators take the write
// lock and are atomic with respect to every other operation; queries take
// the read lock and may proceed in parallel. Pinned-ness is derived from
// the pins set on every read, never stored.
type Board struct {
	mu  sync.RWMutex
	geo Geometry

	colorSet  map[string]struct{}
	colorList []string // canonical upper case, ascending

	notes  map[int]models.Note
	pins   map[models.Point]struct{}
	nextID int
}

// New builds an empty board. Colors are canonicalized to upper case;
// duplicates collapse. Ids start at 1 and never reset for the process
// lifetime, even across CLEAR.
func New(boardW, boardH, noteW, noteH int, colors []string) *Board {
	set := make(map[string]struct{}, len(colors))
	for _, c := range colors {
		set[strings.ToUpper(c)] = struct{}{}
	}
	list := make([]string, 0, len(set))
	for c := range set {
		list = append(list, c)
	}
	sort.Strings(list)
	return &Board{
		geo:       Geometry{BoardW: boardW, BoardH: boardH, NoteW: noteW, NoteH: noteH},
		colorSet:  set,
		colorList: list,
		notes:     make(map[int]models.Note),
		pins:      make(map[models.Point]struct{}),
		nextID:    1,
	}
}

// Geometry returns the immutable dimensions.
func (b *Board) Geometry() Geometry { return b.geo }

// Colors returns the configured colors in canonical ascending order.
func (b *Board) Colors() []string {
	out := make([]string, len(b.colorList))
	copy(out, b.colorList)
	return out
}

// Post validates and inserts a new note, returning its id. Checks run in
// order: color, bounds, overlap; the first failure aborts before any
// mutation.
func (b *Board) Post(x, y int, colorRaw, message string) (int, error) {
	color := strings.ToUpper(colorRaw)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.colorSet[color]; !ok {
		return 0, protocol.Errorf(protocol.InvalidColor, "Invalid color: %s", color)
	}
	if !b.geo.InsideBoard(x, y) {
		return 0, protocol.Errorf(protocol.OutOfBounds, "Note out of bounds")
	}
	for _, ex := range b.notes {
		if b.geo.CompleteOverlap(x, y, ex.X, ex.Y) {
			return 0, protocol.Errorf(protocol.OverlapError, "Complete overlap not allowed with note id=%d", ex.ID)
		}
	}

	id := b.nextID
	b.nextID++
	b.notes[id] = models.Note{ID: id, X: x, Y: y, Color: color, Message: message, CreatedAt: time.Now()}
	return id, nil
}

// Pin places a pin at (x, y). The coordinate must fall inside at least
// one existing note. Re-pinning a present coordinate succeeds silently.
func (b *Board) Pin(x, y int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	hit := false
	for _, n := range b.notes {
		if b.geo.ContainsPoint(n, x, y) {
			hit = true
			break
		}
	}
	if !hit {
		return protocol.Errorf(protocol.PinMiss, "PIN hit no notes at (%d,%d)", x, y)
	}
	b.pins[models.Point{X: x, Y: y}] = struct{}{}
	return nil
}

// Unpin removes the pin at exactly (x, y).
func (b *Board) Unpin(x, y int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := models.Point{X: x, Y: y}
	if _, ok := b.pins[p]; !ok {
		return protocol.Errorf(protocol.NoPin, "No pin at (%d,%d)", x, y)
	}
	delete(b.pins, p)
	return nil
}

// Shake atomically removes every note that is not currently pinned and
// returns the removed count. Pins are retained; a pin whose covering
// notes all disappear stays in place as an orphan until UNPIN or CLEAR.
func (b *Board) Shake() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	for id, n := range b.notes {
		if !b.pinnedLocked(n) {
			delete(b.notes, id)
			removed++
		}
	}
	return removed
}

// Clear removes all notes and all pins. The id counter does not reset.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.notes = make(map[int]models.Note)
	b.pins = make(map[models.Point]struct{})
}

// Pins returns a snapshot of the pin set sorted ascending by (y, x).
func (b *Board) Pins() []models.Point {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Point, 0, len(b.pins))
	for p := range b.pins {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// NoteStatus pairs a note with its derived pinned state at snapshot time.
type NoteStatus struct {
	models.Note
	Pinned bool
}

// Notes returns the notes matching the query, pinned first then newest
// first. The returned slice is a snapshot independent of later mutations.
// A query color outside the configured set is an INVALID_COLOR failure.
func (b *Board) Notes(q protocol.NoteQuery) ([]NoteStatus, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if q.Color != "" {
		if _, ok := b.colorSet[q.Color]; !ok {
			return nil, protocol.Errorf(protocol.InvalidColor, "Invalid color: %s", q.Color)
		}
	}
	ref := strings.ToLower(q.RefersTo)

	out := make([]NoteStatus, 0, len(b.notes))
	for _, n := range b.notes {
		if q.Color != "" && n.Color != q.Color {
			continue
		}
		if q.Contains != nil && !b.geo.ContainsPoint(n, q.Contains.X, q.Contains.Y) {
			continue
		}
		if ref != "" && !strings.Contains(strings.ToLower(n.Message), ref) {
			continue
		}
		out = append(out, NoteStatus{Note: n, Pinned: b.pinnedLocked(n)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Stats reports the current note and pin counts.
func (b *Board) Stats() (notes, pins int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.notes), len(b.pins)
}

// pinnedLocked reports whether any pin falls inside the note. Callers
// hold at least the read lock.
func (b *Board) pinnedLocked(n models.Note) bool {
	for p := range b.pins {
		if b.geo.ContainsPoint(n, p.X, p.Y) {
			return true
		}
	}
	return false
}
