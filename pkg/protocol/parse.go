package protocol

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"pinboard/pkg/models"
)

// Parse translates a single trimmed inbound line into a typed command.
// Keywords and criterion names are case-insensitive; color values are
// upper-cased here and validated against the configured set by the board.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, Errorf(InvalidFormat, "Empty command")
	}
	if !utf8.ValidString(line) {
		return Command{}, Errorf(InvalidFormat, "Line is not valid UTF-8")
	}

	parts := splitWords(line, 2)
	verb := parts[0]
	rest := ""
	if len(parts) == 2 {
		rest = parts[1]
	}

	switch {
	case strings.EqualFold(verb, "POST"):
		return parsePost(rest)
	case strings.EqualFold(verb, "PIN"):
		return parsePinArgs(KindPin, "PIN", rest)
	case strings.EqualFold(verb, "UNPIN"):
		return parsePinArgs(KindUnpin, "UNPIN", rest)
	case strings.EqualFold(line, "SHAKE"):
		return Command{Kind: KindShake}, nil
	case strings.EqualFold(line, "CLEAR"):
		return Command{Kind: KindClear}, nil
	case strings.EqualFold(line, "DISCONNECT"):
		return Command{Kind: KindDisconnect}, nil
	case strings.EqualFold(verb, "GET"):
		return parseGet(rest)
	}
	return Command{}, Errorf(InvalidFormat, "Unknown command")
}

// POST <x> <y> <color> <message...>; the message is the raw remainder and
// may contain spaces.
func parsePost(rest string) (Command, error) {
	args := splitWords(rest, 4)
	if len(args) < 4 {
		return Command{}, Errorf(InvalidFormat, "Usage: POST <x> <y> <color> <message>")
	}
	x, err := parseNonNegInt(args[0], "x")
	if err != nil {
		return Command{}, err
	}
	y, err := parseNonNegInt(args[1], "y")
	if err != nil {
		return Command{}, err
	}
	return Command{
		Kind:    KindPost,
		X:       x,
		Y:       y,
		Color:   strings.ToUpper(args[2]),
		Message: args[3],
	}, nil
}

// PIN <x> <y> and UNPIN <x> <y>.
func parsePinArgs(kind Kind, verb, rest string) (Command, error) {
	args := splitWords(rest, 3)
	if len(args) != 2 {
		return Command{}, Errorf(InvalidFormat, "Usage: %s <x> <y>", verb)
	}
	x, err := parseNonNegInt(args[0], "x")
	if err != nil {
		return Command{}, err
	}
	y, err := parseNonNegInt(args[1], "y")
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: kind, X: x, Y: y}, nil
}

// GET PINS, or GET with optional color= / contains= / refersTo= criteria
// in any order. A bare GET returns every note. contains= accepts its value
// either attached ("contains=4 6") or on the following tokens
// ("contains= 4 6").
func parseGet(rest string) (Command, error) {
	if rest == "" {
		return Command{Kind: KindGet}, nil
	}
	if strings.EqualFold(rest, "PINS") {
		return Command{Kind: KindGetPins}, nil
	}

	var q NoteQuery
	seen := map[string]bool{}
	tokens := strings.Fields(rest)
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch {
		case foldHasPrefix(t, "color="):
			if seen["color"] {
				return Command{}, Errorf(InvalidFormat, "Duplicate GET criterion: color=")
			}
			seen["color"] = true
			v := t[len("color="):]
			if v == "" {
				return Command{}, Errorf(InvalidFormat, "color=<color> missing value")
			}
			q.Color = strings.ToUpper(v)

		case foldHasPrefix(t, "contains="):
			if seen["contains"] {
				return Command{}, Errorf(InvalidFormat, "Duplicate GET criterion: contains=")
			}
			seen["contains"] = true
			after := t[len("contains="):]
			var xs, ys string
			if after != "" {
				xs = after
				if i+1 >= len(tokens) {
					return Command{}, Errorf(InvalidFormat, "contains=<x> <y> missing y")
				}
				i++
				ys = tokens[i]
			} else {
				if i+2 >= len(tokens) {
					return Command{}, Errorf(InvalidFormat, "contains=<x> <y> missing coords")
				}
				xs = tokens[i+1]
				ys = tokens[i+2]
				i += 2
			}
			x, err := parseNonNegInt(xs, "contains.x")
			if err != nil {
				return Command{}, err
			}
			y, err := parseNonNegInt(ys, "contains.y")
			if err != nil {
				return Command{}, err
			}
			q.Contains = &models.Point{X: x, Y: y}

		case foldHasPrefix(t, "refersTo="):
			if seen["refersTo"] {
				return Command{}, Errorf(InvalidFormat, "Duplicate GET criterion: refersTo=")
			}
			seen["refersTo"] = true
			v := t[len("refersTo="):]
			if v == "" {
				return Command{}, Errorf(InvalidFormat, "refersTo=<substring> missing value")
			}
			q.RefersTo = v

		default:
			return Command{}, Errorf(InvalidFormat, "Unknown GET criterion: %s", t)
		}
	}
	return Command{Kind: KindGet, Query: q}, nil
}

// parseNonNegInt parses a base-10 non-negative integer; the field name is
// included in the error so clients can see which argument was bad.
func parseNonNegInt(s, field string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, Errorf(InvalidFormat, "Invalid integer for %s", field)
	}
	if v < 0 {
		return 0, Errorf(InvalidFormat, "Negative value for %s", field)
	}
	return v, nil
}

// splitWords splits on runs of whitespace into at most n fields; the last
// field is the raw remainder with internal spacing preserved.
func splitWords(s string, n int) []string {
	var out []string
	s = strings.TrimSpace(s)
	for s != "" && len(out) < n-1 {
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			break
		}
		out = append(out, s[:i])
		s = strings.TrimLeftFunc(s[i:], unicode.IsSpace)
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

func foldHasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
