package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	spaceRe  = regexp.MustCompile(`\s+`)
	prefixRe = regexp.MustCompile(`(?i)^block\s*`)
	labelRe  = regexp.MustCompile(`^([A-Za-z]+)?\s*-?\s*(\d+)([A-Za-z]?)$`)
)

// RoomLabel holds the structured data parsed from a room label such as "B-204".
type RoomLabel struct {
	Block  string
	Number string
	Floor  int
}

// String renders the label in canonical "Block-Number" form.
func (l RoomLabel) String() string {
	if l.Block == "" {
		return l.Number
	}
	return l.Block + "-" + l.Number
}

// ParseRoomLabel extracts block, room number and floor from a raw label.
// Accepted forms: "B-204", "B204", "b 204", "Block C-12", "C#3", "101A", "12".
// The floor is the room number divided by 100, so "B-204" is on floor 2 and "C-12" on floor 0.
func ParseRoomLabel(raw string) (RoomLabel, error) {
	// '#' acts as a separator, not a character of the label
	s := strings.ReplaceAll(strings.TrimSpace(raw), "#", " ")
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
	s = prefixRe.ReplaceAllString(s, "")

	m := labelRe.FindStringSubmatch(s)
	if m == nil {
		return RoomLabel{}, fmt.Errorf("unable to parse room label: %q", raw)
	}

	n, err := strconv.Atoi(m[2])
	if err != nil {
		return RoomLabel{}, fmt.Errorf("unable to parse room number from label %q: %w", raw, err)
	}

	return RoomLabel{
		Block:  strings.ToUpper(m[1]),
		Number: m[2] + strings.ToUpper(m[3]),
		Floor:  n / 100,
	}, nil
}
