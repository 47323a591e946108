package protocol

import (
	"fmt"
	"strings"

	"pinboard/pkg/models"
)

// Reply vocabulary. Every server->client line is produced here so the
// session handler, the board and the tests agree on the exact forms.

const (
	LineReady     = "OK READY"
	LineCleared   = "OK CLEARED"
	LineBye       = "OK BYE"
	LineDataBegin = "DATA BEGIN"
	LineDataEnd   = "DATA END"
)

// BoardLine is the first handshake line: board dimensions.
func BoardLine(w, h int) string {
	return fmt.Sprintf("BOARD %d %d", w, h)
}

// NoteSizeLine is the second handshake line: shared note dimensions.
func NoteSizeLine(w, h int) string {
	return fmt.Sprintf("NOTE %d %d", w, h)
}

// ColorsLine lists the configured colors. Callers pass the canonical
// sorted list so the handshake is deterministic.
func ColorsLine(colors []string) string {
	return "COLORS " + strings.Join(colors, " ")
}

func PostedLine(id int) string {
	return fmt.Sprintf("OK POSTED %d", id)
}

func PinnedLine(x, y int) string {
	return fmt.Sprintf("OK PINNED %d %d", x, y)
}

func UnpinnedLine(x, y int) string {
	return fmt.Sprintf("OK UNPINNED %d %d", x, y)
}

func ShakenLine(removed int) string {
	return fmt.Sprintf("OK SHAKEN REMOVED %d", removed)
}

// PinLine is one entry inside a GET PINS data block.
func PinLine(p models.Point) string {
	return fmt.Sprintf("PIN %d %d", p.X, p.Y)
}

// NoteLine is one entry inside a filtered GET data block. The message is
// the final field and keeps its embedded spaces verbatim; clients parse up
// to five fields and treat the remainder as the message.
func NoteLine(n models.Note, pinned bool) string {
	status := "UNPINNED"
	if pinned {
		status = "PINNED"
	}
	return fmt.Sprintf("NOTE %d %d %d %s %s %s", n.ID, n.X, n.Y, n.Color, status, n.Message)
}

// ErrorLine renders any failure as a single ERROR line. Non-protocol
// errors are reported as SERVER_ERROR.
func ErrorLine(err error) string {
	if pe, ok := err.(*Error); ok {
		return "ERROR " + string(pe.Cat) + " " + pe.Msg
	}
	return "ERROR " + string(ServerError) + " " + err.Error()
}
