package models

import "time"

// Point is a board coordinate. Used both as a note origin and as a pin
// location; equality is componentwise.
type Point struct {
	X int
	Y int
}

// Note is an immutable record created by POST. All notes share the board's
// configured dimensions, so only the origin is stored.
type Note struct {
	ID int
	X  int
	Y  int
	// Color is stored normalized to upper case.
	Color string
	// Message is the raw remainder of the POST line; may contain spaces.
	Message   string
	CreatedAt time.Time
}
