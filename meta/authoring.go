package meta

import (
	"log/slog"

	"github.com/fxamacker/cbor/v2"
)

// Word describes one opcode available to expressions.
type Word struct {
	Name                string `cbor:"word"                json:"word"                yaml:"word"`
	Description         string `cbor:"description"         json:"description"         yaml:"description"`
	OperandParserOffset uint8  `cbor:"operandParserOffset" json:"operandParserOffset" yaml:"operandParserOffset"`
}

// AuthoringMeta is the decoded list of words a deployer supports.
type AuthoringMeta []Word

// Lookup returns the word with the given name.
func (m AuthoringMeta) Lookup(name string) (Word, bool) {
	for _, w := range m {
		if w.Name == name {
			return w, true
		}
	}

	return Word{}, false
}

// Names returns the word names in declaration order.
func (m AuthoringMeta) Names() []string {
	names := make([]string, len(m))
	for i, w := range m {
		names[i] = w.Name
	}

	return names
}

// EncodeAuthoringMeta serializes words as an authoring-meta payload.
func EncodeAuthoringMeta(words AuthoringMeta) ([]byte, error) {
	if err := words.validate(); err != nil {
		return nil, err
	}

	data, err := cbor.Marshal([]Word(words))
	if err != nil {
		return nil, ErrMalformedPayload.Wrap(err)
	}

	return data, nil
}

// DecodeAuthoringMeta parses an authoring-meta payload. Word names must be
// non-empty and unique.
func DecodeAuthoringMeta(data []byte) (AuthoringMeta, error) {
	var words []Word

	if err := cbor.Unmarshal(data, &words); err != nil {
		return nil, ErrMalformedPayload.Wrap(err).
			With(slog.String("magic", AuthoringMetaV1.String()))
	}

	meta := AuthoringMeta(words)
	if err := meta.validate(); err != nil {
		return nil, err
	}

	return meta, nil
}

func (m AuthoringMeta) validate() error {
	seen := make(map[string]struct{}, len(m))

	for i, w := range m {
		if w.Name == "" {
			return ErrMalformedPayload.With(slog.Int("word", i))
		}

		if _, ok := seen[w.Name]; ok {
			return ErrDuplicateWord.With(slog.String("word", w.Name))
		}

		seen[w.Name] = struct{}{}
	}

	return nil
}
