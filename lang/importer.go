package lang

import (
	"regexp"
	"strings"

	"github.com/ardnew/raindoc/meta"
)

// DirectiveKind is the action of a reconfiguration directive.
type DirectiveKind int

// Directive kinds.
const (
	Elide DirectiveKind = iota
	Rebind
	Rename
)

// String returns the name of the kind.
func (k DirectiveKind) String() string {
	switch k {
	case Elide:
		return "elide"
	case Rebind:
		return "rebind"
	case Rename:
		return "rename"
	default:
		return "unknown"
	}
}

// Directive reconfigures one entry of an imported namespace. Value is the
// numeric literal of a rebind or the new name of a rename.
type Directive struct {
	Kind          DirectiveKind
	Key           string
	KeyPosition   Offsets
	Value         string
	ValuePosition Offsets
}

// Import is an '@' statement.
type Import struct {
	Name         string
	NamePosition Offsets
	Hash         string
	HashPosition Offsets
	Position     Offsets
	Directives   []Directive
	Problems     []Problem
	Sequence     Sequence
}

// Sequence holds the resolved payloads of an import. Each field is nil when
// the meta carries no payload of that kind.
type Sequence struct {
	Words    *WordSet
	Aliases  []meta.ContextAlias
	Document *Document
}

// Empty reports whether no payload was resolved.
func (s Sequence) Empty() bool {
	return s.Words == nil && s.Aliases == nil && s.Document == nil
}

// Root reports whether the import merges into the document root.
func (imp *Import) Root() bool { return imp.Name == "." }

type token struct {
	text string
	pos  Offsets
}

var tokenPattern = regexp.MustCompile(`\S+`)

func tokenize(text string, base int) []token {
	var toks []token

	for _, m := range tokenPattern.FindAllStringIndex(text, -1) {
		toks = append(toks, token{
			text: text[m[0]:m[1]],
			pos:  Offsets{base + m[0], base + m[1]},
		})
	}

	return toks
}

// looksLikeHash reports whether a token is meant as a hash rather than a
// name, well-formed or not.
func looksLikeHash(s string) bool {
	return strings.HasPrefix(s, "0x")
}

// parseImport tokenizes an '@' statement. Malformed parts are reported on
// the import and skipped.
func parseImport(s span) *Import {
	imp := &Import{Position: Offsets{s.Start, s.End}}

	toks := tokenize(s.Text, s.Start+1)
	at := Offsets{s.Start, s.Start + 1}

	if len(toks) == 0 {
		imp.Name = "."
		imp.NamePosition = at
		imp.Problems = append(imp.Problems, ExpectedHash.At(at))

		return imp
	}

	var hash token

	if looksLikeHash(toks[0].text) {
		imp.Name = "."
		imp.NamePosition = at
		hash, toks = toks[0], toks[1:]
	} else {
		name := toks[0]
		imp.Name = name.text
		imp.NamePosition = name.pos

		if name.text != "." && !wordPattern.MatchString(name.text) {
			imp.Problems = append(imp.Problems,
				InvalidWordPattern.At(name.pos, name.text))
		}

		if len(toks) < 2 {
			imp.HashPosition = Offsets{name.pos[1], name.pos[1]}
			imp.Problems = append(imp.Problems, ExpectedHash.At(name.pos))

			return imp
		}

		hash, toks = toks[1], toks[2:]
	}

	imp.Hash = hash.text
	imp.HashPosition = hash.pos

	if !meta.IsHash(hash.text) {
		imp.Problems = append(imp.Problems, InvalidHash.At(hash.pos))
	} else {
		imp.Hash = meta.NormalizeHash(hash.text)
	}

	imp.parseDirectives(toks)

	return imp
}

// directiveShape parses one directive starting at toks[0]. It returns the
// number of tokens consumed, and either a directive or a problem.
type directiveShape struct {
	match func(tok string) bool
	parse func(toks []token) (int, *Directive, *Problem)
}

var directiveShapes = []directiveShape{
	{match: isRenameKey, parse: parseRename},
	{match: isBareAction, parse: parseStray},
	{match: func(string) bool { return true }, parse: parseKeyAction},
}

func isRenameKey(tok string) bool { return strings.HasPrefix(tok, "'") }

func isBareAction(tok string) bool { return tok == "!" || IsNumeric(tok) }

func parseRename(toks []token) (int, *Directive, *Problem) {
	key := toks[0]
	name := key.text[1:]

	if !wordPattern.MatchString(name) {
		p := InvalidWordPattern.At(key.pos, name)

		return 1, nil, &p
	}

	if len(toks) < 2 || isRenameKey(toks[1].text) {
		p := ExpectedName.At(key.pos)

		return 1, nil, &p
	}

	value := toks[1]
	if !wordPattern.MatchString(value.text) {
		p := InvalidWordPattern.At(value.pos, value.text)

		return 2, nil, &p
	}

	return 2, &Directive{
		Kind:          Rename,
		Key:           name,
		KeyPosition:   key.pos,
		Value:         value.text,
		ValuePosition: value.pos,
	}, nil
}

func parseStray(toks []token) (int, *Directive, *Problem) {
	p := UnexpectedToken.At(toks[0].pos)

	return 1, nil, &p
}

func parseKeyAction(toks []token) (int, *Directive, *Problem) {
	key := toks[0]

	if key.text != "." && !wordPattern.MatchString(key.text) {
		p := InvalidWordPattern.At(key.pos, key.text)

		return 1, nil, &p
	}

	if len(toks) < 2 {
		p := ExpectedElisionOrRebinding.At(key.pos)

		return 1, nil, &p
	}

	action := toks[1]

	switch {
	case action.text == "!":
		return 2, &Directive{
			Kind:          Elide,
			Key:           key.text,
			KeyPosition:   key.pos,
			ValuePosition: action.pos,
		}, nil

	case IsNumeric(action.text):
		if key.text == "." {
			p := UnexpectedRebinding.At(key.pos)

			return 2, nil, &p
		}

		if _, ok := ParseNumeric(action.text); !ok {
			p := OutOfRangeValue.At(action.pos)

			return 2, nil, &p
		}

		return 2, &Directive{
			Kind:          Rebind,
			Key:           key.text,
			KeyPosition:   key.pos,
			Value:         action.text,
			ValuePosition: action.pos,
		}, nil

	default:
		p := ExpectedElisionOrRebinding.At(key.pos)

		return 1, nil, &p
	}
}

func (imp *Import) parseDirectives(toks []token) {
	seen := make(map[string]bool)

	for len(toks) > 0 {
		var (
			n int
			d *Directive
			p *Problem
		)

		for _, shape := range directiveShapes {
			if shape.match(toks[0].text) {
				n, d, p = shape.parse(toks)

				break
			}
		}

		toks = toks[n:]

		switch {
		case p != nil:
			imp.Problems = append(imp.Problems, *p)
		case seen[d.Key]:
			imp.Problems = append(imp.Problems, DuplicateImportStatement.At(d.KeyPosition))
		default:
			seen[d.Key] = true
			imp.Directives = append(imp.Directives, *d)
		}
	}
}
