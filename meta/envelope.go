package meta

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"

	"github.com/fxamacker/cbor/v2"
)

// Content types and encodings used by known items.
const (
	ContentTypeCBOR  = "application/cbor"
	ContentTypeJSON  = "application/json"
	ContentTypeText  = "text/plain"
	ContentTypeOctet = "application/octet-stream"

	EncodingDeflate = "deflate"
)

// Item is a single entry of a meta document.
type Item struct {
	Payload         []byte `cbor:"0,keyasint"`
	Magic           Magic  `cbor:"1,keyasint"`
	ContentType     string `cbor:"2,keyasint"`
	ContentEncoding string `cbor:"3,keyasint,omitempty"`
	ContentLanguage string `cbor:"4,keyasint,omitempty"`
}

const magicSize = 8

// Encode serializes items as a meta document. Payloads of items with
// content-encoding "deflate" are compressed.
func Encode(items ...Item) ([]byte, error) {
	var buf bytes.Buffer

	var prefix [magicSize]byte

	binary.BigEndian.PutUint64(prefix[:], uint64(RainMetaDocumentV1))
	buf.Write(prefix[:])

	for _, item := range items {
		if item.ContentEncoding == EncodingDeflate {
			payload, err := deflate(item.Payload)
			if err != nil {
				return nil, err
			}

			item.Payload = payload
		}

		data, err := cbor.Marshal(item)
		if err != nil {
			return nil, ErrMalformedPayload.Wrap(err).
				With(slog.String("magic", item.Magic.String()))
		}

		buf.Write(data)
	}

	return buf.Bytes(), nil
}

// Decode parses a meta document into its items. Every item must carry a known
// magic number and a supported content encoding; anything else is reported as
// [ErrCorruptMeta].
func Decode(data []byte) ([]Item, error) {
	if len(data) < magicSize ||
		Magic(binary.BigEndian.Uint64(data[:magicSize])) != RainMetaDocumentV1 {
		return nil, ErrCorruptMeta.Wrap(ErrUnknownMagic).
			With(slog.Int("size", len(data)))
	}

	dec := cbor.NewDecoder(bytes.NewReader(data[magicSize:]))

	var items []Item

	for {
		var item Item

		err := dec.Decode(&item)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, ErrCorruptMeta.Wrap(err).
				With(slog.Int("item", len(items)))
		}

		if !item.Magic.Known() {
			return nil, ErrCorruptMeta.Wrap(ErrUnknownMagic).
				With(slog.String("magic", item.Magic.String()))
		}

		switch item.ContentEncoding {
		case "", "identity":

		case EncodingDeflate:
			payload, err := inflate(item.Payload)
			if err != nil {
				return nil, ErrCorruptMeta.Wrap(err).
					With(slog.String("magic", item.Magic.String()))
			}

			item.Payload = payload
			item.ContentEncoding = ""

		default:
			return nil, ErrCorruptMeta.Wrap(ErrContentEncoding).
				With(slog.String("encoding", item.ContentEncoding))
		}

		items = append(items, item)
	}

	return items, nil
}

// Consumable reports whether items can be resolved by an import: at most one
// each of dotrain, caller meta and deployer bytecode, and at least one of
// them overall.
func Consumable(items []Item) bool {
	var dotrain, caller, deployer int

	for _, item := range items {
		switch item.Magic {
		case DotrainV1:
			dotrain++
		case InterpreterCallerMetaV1:
			caller++
		case ExpressionDeployerV2BytecodeV1:
			deployer++
		}
	}

	if dotrain > 1 || caller > 1 || deployer > 1 {
		return false
	}

	return dotrain+caller+deployer > 0
}

// Find returns the first item with the given magic number.
func Find(items []Item, magic Magic) (Item, bool) {
	for _, item := range items {
		if item.Magic == magic {
			return item, true
		}
	}

	return Item{}, false
}

func deflate(payload []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := zlib.NewWriter(&buf)

	if _, err := w.Write(payload); err != nil {
		return nil, ErrMalformedPayload.Wrap(err)
	}

	if err := w.Close(); err != nil {
		return nil, ErrMalformedPayload.Wrap(err)
	}

	return buf.Bytes(), nil
}

func inflate(payload []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}
