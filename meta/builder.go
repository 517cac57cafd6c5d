package meta

import (
	"encoding/json"
	"log/slog"
)

// Builder assembles meta documents item by item. The first error stops the
// build and is returned by [Builder.Bytes].
type Builder struct {
	items []Item
	err   error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Dotrain adds a nested document.
func (b *Builder) Dotrain(text string) *Builder {
	return b.Raw(Item{
		Payload:         []byte(text),
		Magic:           DotrainV1,
		ContentType:     ContentTypeText,
		ContentLanguage: "en",
	})
}

// Deployer adds a deployer bytecode declaring words, together with the
// authoring meta it declares.
func (b *Builder) Deployer(words AuthoringMeta) *Builder {
	if b.err != nil {
		return b
	}

	payload, err := EncodeAuthoringMeta(words)
	if err != nil {
		b.err = err

		return b
	}

	code, err := DeployerBytecode(Hash(payload))
	if err != nil {
		b.err = err

		return b
	}

	return b.
		Raw(Item{
			Payload:     code,
			Magic:       ExpressionDeployerV2BytecodeV1,
			ContentType: ContentTypeOctet,
		}).
		Raw(Item{
			Payload:         payload,
			Magic:           AuthoringMetaV1,
			ContentType:     ContentTypeCBOR,
			ContentEncoding: EncodingDeflate,
		})
}

// Contract adds an interpreter caller meta.
func (b *Builder) Contract(cm ContractMeta) *Builder {
	if b.err != nil {
		return b
	}

	payload, err := json.Marshal(cm)
	if err != nil {
		b.err = ErrMalformedPayload.Wrap(err).
			With(slog.String("contract", cm.Name))

		return b
	}

	return b.Raw(Item{
		Payload:         payload,
		Magic:           InterpreterCallerMetaV1,
		ContentType:     ContentTypeJSON,
		ContentEncoding: EncodingDeflate,
	})
}

// Raw adds item as is.
func (b *Builder) Raw(item Item) *Builder {
	if b.err == nil {
		b.items = append(b.items, item)
	}

	return b
}

// Bytes encodes the meta document.
func (b *Builder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}

	return Encode(b.items...)
}
