package lang

import (
	"regexp"
	"strings"
)

// Comment markers recognized inside comments.
const (
	MarkerIgnoreAuthoringMeta          = "ignore-authoring-meta"
	MarkerIgnoreUndefinedAuthoringMeta = "ignore-undefined-authoring-meta"
	MarkerIgnoreNextLine               = "ignore-next-line"
)

var commentPattern = regexp.MustCompile(`/\*[\s\S]*?(?:\*/|$)`)

// Comment is a block comment and its position.
type Comment struct {
	Text     string  `json:"text"     yaml:"text"`
	Position Offsets `json:"position" yaml:"position"`
}

// Flags are the document-wide settings declared by comment markers.
type Flags struct {
	IgnoreAuthoringMeta          bool
	IgnoreUndefinedAuthoringMeta bool

	// IgnoredLines holds the zero-based lines whose problems are dropped.
	IgnoredLines map[int]bool
}

// ignores reports whether p starts on an ignored line of text.
func (f Flags) ignores(text string, p Problem) bool {
	if len(f.IgnoredLines) == 0 {
		return false
	}

	return f.IgnoredLines[PositionAt(text, p.Position[0]).Line]
}

// span is a raw statement claimed by the segmenter. The marker byte ('@' or
// '#') is at start; Text excludes it.
type span struct {
	Text  string
	Start int
	End   int
}

type segments struct {
	comments []Comment
	imports  []span
	bindings []span
	problems []Problem
	flags    Flags
}

// segment splits text into comments, import statements and bindings. Claimed
// text is blanked before the next scan so offsets always refer to text.
func segment(text string) segments {
	var seg segments

	work := []byte(text)

	for _, m := range commentPattern.FindAllStringIndex(text, -1) {
		body := text[m[0]:m[1]]

		seg.comments = append(seg.comments, Comment{
			Text:     body,
			Position: Offsets{m[0], m[1]},
		})

		if !strings.HasSuffix(body, "*/") || len(body) < 4 {
			seg.problems = append(seg.problems,
				UnexpectedEndOfComment.At(Offsets{m[0], m[1]}))
		}

		seg.flags.mark(text, body, m[1])
		blank(work, m[0], m[1])
	}

	seg.imports = claim(work, '@', "@#")
	seg.bindings = claim(work, '#', "#")

	for _, m := range residual.FindAllIndex(work, -1) {
		seg.problems = append(seg.problems, UnexpectedToken.At(Offsets{m[0], m[1]}))
	}

	return seg
}

var residual = regexp.MustCompile(`\S+`)

func (f *Flags) mark(text, comment string, end int) {
	if strings.Contains(comment, MarkerIgnoreUndefinedAuthoringMeta) {
		f.IgnoreUndefinedAuthoringMeta = true
	}

	if strings.Contains(comment, MarkerIgnoreAuthoringMeta) {
		f.IgnoreAuthoringMeta = true
	}

	if strings.Contains(comment, MarkerIgnoreNextLine) {
		if f.IgnoredLines == nil {
			f.IgnoredLines = make(map[int]bool)
		}

		f.IgnoredLines[PositionAt(text, end-1).Line+1] = true
	}
}

// claim extracts every statement starting with marker and ending before the
// next byte in stops (or at the end of work), blanking each one in work.
func claim(work []byte, marker byte, stops string) []span {
	var spans []span

	for i := 0; i < len(work); i++ {
		if work[i] != marker {
			continue
		}

		end := len(work)

		for j := i + 1; j < len(work); j++ {
			if strings.IndexByte(stops, work[j]) >= 0 {
				end = j

				break
			}
		}

		spans = append(spans, span{
			Text:  string(work[i+1 : end]),
			Start: i,
			End:   end,
		})

		blank(work, i, end)
		i = end - 1
	}

	return spans
}

// blank replaces every non-whitespace byte of work[start:end] with a space.
func blank(work []byte, start, end int) {
	for i := start; i < end; i++ {
		switch work[i] {
		case ' ', '\t', '\n', '\r', '\f':
		default:
			work[i] = ' '
		}
	}
}
