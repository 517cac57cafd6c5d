package lang

import (
	"regexp"
	"slices"
	"strings"
)

// BindingKind tells which of a binding's value fields is meaningful.
type BindingKind int

// Binding kinds.
const (
	ExpressionBinding BindingKind = iota
	ConstantBinding
	ElidedBinding
)

// String returns the name of the kind.
func (k BindingKind) String() string {
	switch k {
	case ConstantBinding:
		return "constant"
	case ElidedBinding:
		return "elided"
	default:
		return "expression"
	}
}

// DefaultElisionReason is the reason of an elided binding that gives none.
const DefaultElisionReason = "elided binding, requires rebinding"

// Binding is a named fragment of a document.
type Binding struct {
	Name            string
	NamePosition    Offsets
	Content         string
	ContentPosition Offsets
	Position        Offsets
	Problems        []Problem
	Dependencies    []string

	Kind BindingKind
	// Constant is the numeric literal of a constant binding.
	Constant string
	// Elided is the reason given by an elided binding.
	Elided string
	// Expression is the parser result of an expression binding at depth 0.
	Expression Expression
}

func (b *Binding) clone() *Binding {
	c := *b
	c.Problems = slices.Clone(b.Problems)
	c.Dependencies = slices.Clone(b.Dependencies)

	return &c
}

// rebind returns a copy of b turned into a constant binding.
func (b *Binding) rebind(value string) *Binding {
	c := b.clone()
	c.Kind = ConstantBinding
	c.Constant = value
	c.Elided = ""
	c.Expression = nil
	c.Dependencies = nil

	return c
}

var leadingSpace = regexp.MustCompile(`^\s*`)

// parseBinding builds a binding from a '#' statement.
func parseBinding(s span) *Binding {
	b := &Binding{Position: Offsets{s.Start, s.End}}

	text := s.Text
	base := s.Start + 1

	name := text
	if i := strings.IndexAny(text, " \t\r\n\f"); i >= 0 {
		name = text[:i]
	}

	b.Name = name
	b.NamePosition = Offsets{base, base + len(name)}

	if name == "" {
		b.NamePosition = Offsets{s.Start, s.Start + 1}
		b.Problems = append(b.Problems,
			InvalidBindingIdentifier.At(b.NamePosition, "expected a name"))
	} else if !wordPattern.MatchString(name) {
		b.Problems = append(b.Problems,
			InvalidBindingIdentifier.At(b.NamePosition, name))
	}

	rest := text[len(name):]
	lead := len(leadingSpace.FindString(rest))
	content := strings.TrimSpace(rest)
	start := b.NamePosition[1] + lead

	if name == "" {
		start = base + lead
	}

	b.Content = content
	b.ContentPosition = Offsets{start, start + len(content)}

	switch {
	case content == "":
		b.Problems = append(b.Problems, InvalidEmptyBinding.At(b.NamePosition))

	case strings.HasPrefix(content, "!"):
		b.Kind = ElidedBinding
		b.Elided = strings.TrimSpace(content[1:])

		if b.Elided == "" {
			b.Elided = DefaultElisionReason
		}

	case IsNumeric(content):
		b.Kind = ConstantBinding
		b.Constant = content

		if _, ok := ParseNumeric(content); !ok {
			b.Problems = append(b.Problems, OutOfRangeValue.At(b.ContentPosition))
		}
	}

	return b
}

// valid reports whether b can be placed in a namespace.
func (b *Binding) valid() bool {
	return b.Name != "" && wordPattern.MatchString(b.Name)
}

// parseable reports whether b needs an expression parser.
func (b *Binding) parseable() bool {
	return b.valid() && b.Kind == ExpressionBinding && b.Content != ""
}
