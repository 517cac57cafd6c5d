package lang

import (
	"sort"
	"strconv"
	"strings"
)

// Offsets is a byte range [start, end) into a document's text.
type Offsets [2]int

// Position is a zero-based line and column (in bytes).
type Position struct {
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String returns the one-based "line:column" form.
func (p Position) String() string {
	return strconv.Itoa(p.Line+1) + ":" + strconv.Itoa(p.Column+1)
}

// lineStarts returns the offset of the first byte of every line.
func lineStarts(text string) []int {
	starts := []int{0}

	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return starts
}

// PositionAt converts an offset into text to a line and column. Offsets out
// of range are clamped.
func PositionAt(text string, offset int) Position {
	offset = max(0, min(offset, len(text)))
	starts := lineStarts(text)

	line := sort.Search(len(starts), func(i int) bool {
		return starts[i] > offset
	}) - 1

	return Position{Line: line, Column: offset - starts[line]}
}

// OffsetAt converts a line and column into an offset into text. A column
// past the end of its line is clamped to the line end, and a line past the
// end of text yields len(text).
func OffsetAt(text string, pos Position) int {
	starts := lineStarts(text)

	if pos.Line < 0 {
		return 0
	}

	if pos.Line >= len(starts) {
		return len(text)
	}

	start := starts[pos.Line]
	end := len(text)

	if pos.Line+1 < len(starts) {
		end = starts[pos.Line+1]
	}

	return max(start, min(start+max(0, pos.Column), end))
}

// Snippet renders the line containing pos with a caret under its start.
func Snippet(text string, pos Offsets) string {
	at := PositionAt(text, pos[0])
	lines := strings.Split(text, "\n")

	if at.Line >= len(lines) {
		return ""
	}

	num := strconv.Itoa(at.Line + 1)

	var buf strings.Builder

	buf.WriteString("  ")
	buf.WriteString(num)
	buf.WriteString(" | ")
	buf.WriteString(strings.TrimRight(lines[at.Line], "\r"))
	buf.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	buf.WriteString(strings.Repeat(" ", len(num)+5+at.Column))

	start := max(0, min(pos[0], len(text)))
	end := max(start, min(pos[1], len(text)))

	width := max(1, end-start)
	if nl := strings.IndexByte(text[start:end], '\n'); nl >= 0 {
		width = max(1, nl)
	}

	buf.WriteString(strings.Repeat("^", width))
	buf.WriteRune('\n')

	return buf.String()
}
