package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/raindoc/meta"
)

// Meta groups the metadata inspection commands.
type Meta struct {
	Hash  MetaHash  `cmd:"" help:"Print the hash of every meta in a fixture file."`
	Items MetaItems `cmd:"" help:"List the items of a stored meta."`
}

// MetaHash builds the metas of a fixture file and prints their hashes.
type MetaHash struct {
	File string `arg:"" help:"YAML fixture file." type:"existingfile"`
}

// Run executes the meta hash command.
func (m *MetaHash) Run(ctx context.Context) error {
	hashes, err := meta.LoadFile(m.File, meta.NewMemStore(nil))
	if err != nil {
		return ErrLoadMeta.With(slog.String("file", m.File)).Wrap(err)
	}

	w := outputFrom(ctx)

	for _, h := range hashes {
		if _, err := fmt.Fprintln(w, h); err != nil {
			return err
		}
	}

	return nil
}

// MetaItems decodes a meta from the store and lists its items.
type MetaItems struct {
	Hash   string `arg:""                          help:"Hash of the meta."`
	Format string `default:"yaml" enum:"yaml,json" help:"Output format."    short:"f"`
}

// itemReport is the serialized summary of a meta item.
type itemReport struct {
	Magic    string `json:"magic"              yaml:"magic"`
	Type     string `json:"type"               yaml:"type"`
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Size     int    `json:"size"               yaml:"size"`
}

// Run executes the meta items command. Payload sizes are those after any
// content encoding is removed.
func (m *MetaItems) Run(ctx context.Context) error {
	store := storeFrom(ctx)

	if err := store.Update(ctx, m.Hash); err != nil {
		return err
	}

	raw, ok := store.Get(m.Hash)
	if !ok {
		return meta.ErrNotFound.With(slog.String("hash", m.Hash))
	}

	items, err := meta.DecodeCached(raw)
	if err != nil {
		return err
	}

	out := make([]itemReport, len(items))

	for i, item := range items {
		out[i] = itemReport{
			Magic:    item.Magic.String(),
			Type:     item.ContentType,
			Encoding: item.ContentEncoding,
			Language: item.ContentLanguage,
			Size:     len(item.Payload),
		}
	}

	return write(ctx, outputFrom(ctx), m.Format, out, 2)
}
