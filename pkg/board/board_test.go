package board

import (
	"errors"
	"sync"
	"testing"

	"pinboard/pkg/models"
	"pinboard/pkg/protocol"
)

func newTestBoard() *Board {
	return New(10, 10, 2, 2, []string{"red", "BLUE", "White"})
}

func protoCat(t *testing.T, err error, want protocol.Category) {
	t.Helper()
	var pe *protocol.Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected protocol error, got %v", err)
	}
	if pe.Cat != want {
		t.Fatalf("expected category %s, got %s (%s)", want, pe.Cat, pe.Msg)
	}
}

func TestColorsCanonicalSorted(t *testing.T) {
	b := newTestBoard()
	got := b.Colors()
	want := []string{"BLUE", "RED", "WHITE"}
	if len(got) != len(want) {
		t.Fatalf("colors = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("colors = %v, want %v", got, want)
		}
	}
}

func TestPostAssignsMonotonicIDs(t *testing.T) {
	b := newTestBoard()
	id1, err := b.Post(0, 0, "red", "first")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	id2, err := b.Post(4, 4, "blue", "second")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if id1 != 1 || id2 != 2 {
		t.Fatalf("expected ids 1,2, got %d,%d", id1, id2)
	}
}

func TestPostValidationOrder(t *testing.T) {
	b := newTestBoard()
	if _, err := b.Post(0, 0, "red", "base"); err != nil {
		t.Fatalf("post: %v", err)
	}

	// color is checked before bounds: bad color at a bad position
	_, err := b.Post(99, 99, "green", "x")
	protoCat(t, err, protocol.InvalidColor)

	_, err = b.Post(9, 0, "blue", "x")
	protoCat(t, err, protocol.OutOfBounds)

	_, err = b.Post(0, 0, "blue", "again")
	protoCat(t, err, protocol.OverlapError)
	if got, want := err.Error(), "OVERLAP_ERROR Complete overlap not allowed with note id=1"; got != want {
		t.Fatalf("overlap error = %q, want %q", got, want)
	}

	// failed posts must not burn ids
	id, err := b.Post(4, 4, "white", "ok")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if id != 2 {
		t.Fatalf("expected id 2 after failed posts, got %d", id)
	}
}

func TestPostColorCaseInsensitive(t *testing.T) {
	b := newTestBoard()
	if _, err := b.Post(0, 0, "rEd", "mixed case"); err != nil {
		t.Fatalf("post: %v", err)
	}
	notes, err := b.Notes(protocol.NoteQuery{})
	if err != nil {
		t.Fatalf("notes: %v", err)
	}
	if len(notes) != 1 || notes[0].Color != "RED" {
		t.Fatalf("expected one RED note, got %+v", notes)
	}
}

func TestPinRequiresCoveringNote(t *testing.T) {
	b := newTestBoard()
	err := b.Pin(5, 5)
	protoCat(t, err, protocol.PinMiss)

	if _, err := b.Post(4, 4, "white", "keep"); err != nil {
		t.Fatalf("post: %v", err)
	}
	if err := b.Pin(5, 5); err != nil {
		t.Fatalf("pin: %v", err)
	}
	// half-open: the far edge of the note is not coverable
	err = b.Pin(6, 6)
	protoCat(t, err, protocol.PinMiss)
}

func TestPinIdempotent(t *testing.T) {
	b := newTestBoard()
	if _, err := b.Post(4, 4, "white", "keep"); err != nil {
		t.Fatalf("post: %v", err)
	}
	if err := b.Pin(5, 5); err != nil {
		t.Fatalf("pin: %v", err)
	}
	if err := b.Pin(5, 5); err != nil {
		t.Fatalf("re-pin must succeed silently: %v", err)
	}
	if pins := b.Pins(); len(pins) != 1 {
		t.Fatalf("expected 1 pin, got %v", pins)
	}
}

func TestUnpinRoundTrip(t *testing.T) {
	b := newTestBoard()
	if _, err := b.Post(4, 4, "white", "keep"); err != nil {
		t.Fatalf("post: %v", err)
	}
	if err := b.Pin(5, 5); err != nil {
		t.Fatalf("pin: %v", err)
	}
	if err := b.Unpin(5, 5); err != nil {
		t.Fatalf("unpin: %v", err)
	}
	if pins := b.Pins(); len(pins) != 0 {
		t.Fatalf("expected no pins after unpin, got %v", pins)
	}
	err := b.Unpin(5, 5)
	protoCat(t, err, protocol.NoPin)
}

func TestShakeRemovesOnlyUnpinned(t *testing.T) {
	b := newTestBoard()
	if _, err := b.Post(4, 4, "white", "Keep me"); err != nil {
		t.Fatalf("post: %v", err)
	}
	if err := b.Pin(5, 5); err != nil {
		t.Fatalf("pin: %v", err)
	}
	if _, err := b.Post(0, 0, "red", "Drop me"); err != nil {
		t.Fatalf("post: %v", err)
	}

	if removed := b.Shake(); removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	notes, err := b.Notes(protocol.NoteQuery{})
	if err != nil {
		t.Fatalf("notes: %v", err)
	}
	if len(notes) != 1 || notes[0].X != 4 || notes[0].Y != 4 || !notes[0].Pinned {
		t.Fatalf("expected only the pinned note at (4,4), got %+v", notes)
	}
}

func TestShakeRetainsPins(t *testing.T) {
	b := New(10, 10, 2, 2, []string{"RED"})
	if _, err := b.Post(0, 0, "red", "a"); err != nil {
		t.Fatalf("post: %v", err)
	}
	if err := b.Pin(1, 1); err != nil {
		t.Fatalf("pin: %v", err)
	}
	if _, err := b.Post(4, 4, "red", "b"); err != nil {
		t.Fatalf("post: %v", err)
	}

	if removed := b.Shake(); removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if pins := b.Pins(); len(pins) != 1 || (pins[0] != models.Point{X: 1, Y: 1}) {
		t.Fatalf("pins must survive shake, got %v", pins)
	}
}

func TestNewNoteOverExistingPinIsBornPinned(t *testing.T) {
	b := New(10, 10, 2, 2, []string{"RED"})
	if _, err := b.Post(4, 4, "red", "anchor"); err != nil {
		t.Fatalf("post: %v", err)
	}
	if err := b.Pin(5, 5); err != nil {
		t.Fatalf("pin: %v", err)
	}
	// partial overlap with the anchor is allowed and covers the pin too
	if _, err := b.Post(5, 5, "red", "late arrival"); err != nil {
		t.Fatalf("post: %v", err)
	}

	notes, err := b.Notes(protocol.NoteQuery{Contains: &models.Point{X: 5, Y: 5}})
	if err != nil {
		t.Fatalf("notes: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected both notes to cover (5,5), got %+v", notes)
	}
	for _, n := range notes {
		if !n.Pinned {
			t.Fatalf("note %d over the pin must be pinned", n.ID)
		}
	}
}

func TestClearKeepsIDCounter(t *testing.T) {
	b := newTestBoard()
	if _, err := b.Post(0, 0, "red", "a"); err != nil {
		t.Fatalf("post: %v", err)
	}
	if _, err := b.Post(4, 4, "blue", "b"); err != nil {
		t.Fatalf("post: %v", err)
	}
	b.Clear()

	notes, pins := b.Stats()
	if notes != 0 || pins != 0 {
		t.Fatalf("expected empty board after clear, got %d notes %d pins", notes, pins)
	}
	id, err := b.Post(0, 0, "red", "c")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if id != 3 {
		t.Fatalf("id counter must not reset on clear; got %d", id)
	}
}

func TestPinsSortedByYThenX(t *testing.T) {
	b := New(20, 20, 2, 2, []string{"RED"})
	for _, o := range []models.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 4}, {X: 8, Y: 0}} {
		if _, err := b.Post(o.X, o.Y, "red", "n"); err != nil {
			t.Fatalf("post: %v", err)
		}
	}
	for _, p := range []models.Point{{X: 8, Y: 0}, {X: 0, Y: 4}, {X: 0, Y: 0}, {X: 4, Y: 0}} {
		if err := b.Pin(p.X, p.Y); err != nil {
			t.Fatalf("pin %v: %v", p, err)
		}
	}
	got := b.Pins()
	want := []models.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 8, Y: 0}, {X: 0, Y: 4}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pins = %v, want %v", got, want)
		}
	}
}

func TestNotesFilters(t *testing.T) {
	b := newTestBoard()
	if _, err := b.Post(0, 0, "red", "Hello world"); err != nil {
		t.Fatalf("post: %v", err)
	}
	if _, err := b.Post(4, 4, "blue", "meeting at noon"); err != nil {
		t.Fatalf("post: %v", err)
	}
	if _, err := b.Post(8, 8, "red", "World Cup"); err != nil {
		t.Fatalf("post: %v", err)
	}

	// color filter
	notes, err := b.Notes(protocol.NoteQuery{Color: "RED"})
	if err != nil {
		t.Fatalf("notes: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 red notes, got %+v", notes)
	}

	// unknown filter color
	_, err = b.Notes(protocol.NoteQuery{Color: "GREEN"})
	protoCat(t, err, protocol.InvalidColor)

	// contains filter, half-open
	notes, err = b.Notes(protocol.NoteQuery{Contains: &models.Point{X: 5, Y: 5}})
	if err != nil {
		t.Fatalf("notes: %v", err)
	}
	if len(notes) != 1 || notes[0].X != 4 {
		t.Fatalf("contains filter mismatch: %+v", notes)
	}

	// refersTo is case-insensitive substring, ANDed with color
	notes, err = b.Notes(protocol.NoteQuery{Color: "RED", RefersTo: "world"})
	if err != nil {
		t.Fatalf("notes: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected both world notes, got %+v", notes)
	}
	notes, err = b.Notes(protocol.NoteQuery{Color: "BLUE", RefersTo: "world"})
	if err != nil {
		t.Fatalf("notes: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("expected no blue world notes, got %+v", notes)
	}
}

func TestNotesOrderingPinnedFirstThenNewest(t *testing.T) {
	b := New(20, 20, 2, 2, []string{"RED"})
	for i := 0; i < 4; i++ {
		if _, err := b.Post(i*4, 0, "red", "n"); err != nil {
			t.Fatalf("post: %v", err)
		}
	}
	// pin the oldest and the third
	if err := b.Pin(0, 0); err != nil {
		t.Fatalf("pin: %v", err)
	}
	if err := b.Pin(8, 0); err != nil {
		t.Fatalf("pin: %v", err)
	}

	notes, err := b.Notes(protocol.NoteQuery{})
	if err != nil {
		t.Fatalf("notes: %v", err)
	}
	gotIDs := []int{notes[0].ID, notes[1].ID, notes[2].ID, notes[3].ID}
	// pinned (3, 1) newest-first, then unpinned (4, 2) newest-first
	want := []int{3, 1, 4, 2}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("order = %v, want %v", gotIDs, want)
		}
	}
	if !notes[0].Pinned || !notes[1].Pinned || notes[2].Pinned || notes[3].Pinned {
		t.Fatalf("pinned flags wrong: %+v", notes)
	}
}

func TestNotesSnapshotIndependent(t *testing.T) {
	b := newTestBoard()
	if _, err := b.Post(0, 0, "red", "a"); err != nil {
		t.Fatalf("post: %v", err)
	}
	notes, err := b.Notes(protocol.NoteQuery{})
	if err != nil {
		t.Fatalf("notes: %v", err)
	}
	b.Clear()
	if len(notes) != 1 {
		t.Fatalf("snapshot must survive later mutations, got %+v", notes)
	}
}

func TestConcurrentPostAndShake(t *testing.T) {
	b := New(100, 100, 2, 2, []string{"RED"})

	var wg sync.WaitGroup
	wg.Add(3)

	// one session posts across the board, one shakes, one reads
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			for j := 0; j < 10; j++ {
				_, _ = b.Post(j*4, (i%10)*4, "red", "bulk")
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			b.Shake()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			notes, err := b.Notes(protocol.NoteQuery{})
			if err != nil {
				t.Errorf("notes: %v", err)
				return
			}
			seen := map[int]bool{}
			for _, n := range notes {
				if seen[n.ID] {
					t.Errorf("duplicate id %d in snapshot", n.ID)
					return
				}
				seen[n.ID] = true
			}
		}
	}()
	wg.Wait()

	// with no pins, a final shake leaves the board empty
	b.Shake()
	notes, _ := b.Stats()
	if notes != 0 {
		t.Fatalf("expected empty board after final shake, got %d notes", notes)
	}
}
