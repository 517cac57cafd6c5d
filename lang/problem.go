package lang

import (
	"fmt"
	"log/slog"
	"strconv"
)

// Code classifies a [Problem].
type Code int

// Problem codes.
const (
	RuntimeError             Code = 1
	CircularDependency       Code = 2
	DeepImport               Code = 4
	CorruptMeta              Code = 6
	SingletonWords           Code = 8
	MultipleWords            Code = 9
	SingleWordModify         Code = 10
	InconsumableMeta         Code = 11
	NamespaceOccupied        Code = 12
	UnresolvableDependencies Code = 13
	NoWords                  Code = 14

	UndefinedWord          Code = 0x101
	UndefinedAuthoringMeta Code = 0x102
	UndefinedMeta          Code = 0x103
	UndefinedQuote         Code = 0x104
	UndefinedIdentifier    Code = 0x106

	InvalidWordPattern       Code = 0x201
	InvalidHash              Code = 0x205
	ExpectedHash             Code = 0x206
	InvalidEmptyBinding      Code = 0x209
	InvalidBindingIdentifier Code = 0x210
	InvalidRainDocument      Code = 0x214

	UnexpectedToken        Code = 0x301
	UnexpectedRebinding    Code = 0x304
	UnexpectedEndOfComment Code = 0x306

	ExpectedElisionOrRebinding Code = 0x403
	ExpectedName               Code = 0x407

	OutOfRangeValue Code = 0x603

	DuplicateIdentifier      Code = 0x702
	DuplicateImportStatement Code = 0x703
	DuplicateImport          Code = 0x704
)

var codeInfo = map[Code]struct{ name, msg string }{
	RuntimeError:               {"RuntimeError", "%s"},
	CircularDependency:         {"CircularDependency", "circular dependency"},
	DeepImport:                 {"DeepImport", "import too deep"},
	CorruptMeta:                {"CorruptMeta", "corrupt meta"},
	SingletonWords:             {"SingletonWords", "words must be singleton, but namespaces include %d sets of words"},
	MultipleWords:              {"MultipleWords", "namespace already contains a set of words"},
	SingleWordModify:           {"SingleWordModify", "cannot elide or rename a single word, only the whole set: %s"},
	InconsumableMeta:           {"InconsumableMeta", "inconsumable meta"},
	NamespaceOccupied:          {"NamespaceOccupied", "cannot import into an occupied namespace"},
	UnresolvableDependencies:   {"UnresolvableDependencies", "cannot resolve dependencies"},
	NoWords:                    {"NoWords", "cannot find any set of words"},
	UndefinedWord:              {"UndefinedWord", "undefined word: %s"},
	UndefinedAuthoringMeta:     {"UndefinedAuthoringMeta", "cannot find any authoring meta"},
	UndefinedMeta:              {"UndefinedMeta", "cannot find any settlement for hash"},
	UndefinedQuote:             {"UndefinedQuote", "undefined quote: %s"},
	UndefinedIdentifier:        {"UndefinedIdentifier", "undefined identifier: %s"},
	InvalidWordPattern:         {"InvalidWordPattern", "invalid word pattern: %s"},
	InvalidHash:                {"InvalidHash", "invalid hash, must be 32 bytes"},
	ExpectedHash:               {"ExpectedHash", "expected import hash"},
	InvalidEmptyBinding:        {"InvalidEmptyBinding", "invalid empty binding"},
	InvalidBindingIdentifier:   {"InvalidBindingIdentifier", "invalid binding identifier: %s"},
	InvalidRainDocument:        {"InvalidRainDocument", "imported document contains errors"},
	UnexpectedToken:            {"UnexpectedToken", "unexpected token"},
	UnexpectedRebinding:        {"UnexpectedRebinding", "unexpected rebinding"},
	UnexpectedEndOfComment:     {"UnexpectedEndOfComment", "unexpected end of comment"},
	ExpectedElisionOrRebinding: {"ExpectedElisionOrRebinding", "expected elision or rebinding"},
	ExpectedName:               {"ExpectedName", "expected a name"},
	OutOfRangeValue:            {"OutOfRangeValue", "value out of range"},
	DuplicateIdentifier:        {"DuplicateIdentifier", "duplicate identifier: %s"},
	DuplicateImportStatement:   {"DuplicateImportStatement", "duplicate statement"},
	DuplicateImport:            {"DuplicateImport", "duplicate import"},
}

// String returns the name of the code.
func (c Code) String() string {
	if info, ok := codeInfo[c]; ok {
		return info.name
	}

	return "Code(" + strconv.Itoa(int(c)) + ")"
}

// At returns a problem with this code at pos. Codes whose message has a
// placeholder take the detail from args.
func (c Code) At(pos Offsets, args ...any) Problem {
	msg := codeInfo[c].msg

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	return Problem{Msg: msg, Position: pos, Code: c}
}

// Problem is a diagnostic attached to a document, an import or a binding.
type Problem struct {
	Msg      string  `json:"msg"      yaml:"msg"`
	Position Offsets `json:"position" yaml:"position"`
	Code     Code    `json:"code"     yaml:"code"`
}

// Error implements the error interface.
func (p Problem) Error() string {
	return p.Msg
}

// LogValue implements slog.LogValuer.
func (p Problem) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("code", p.Code.String()),
		slog.String("msg", p.Msg),
		slog.Int("start", p.Position[0]),
		slog.Int("end", p.Position[1]),
	)
}

func (p Problem) shift(n int) Problem {
	p.Position = Offsets{p.Position[0] + n, p.Position[1] + n}

	return p
}

// MarshalText encodes the code by name.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
