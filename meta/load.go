package meta

import (
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
)

// Fixture describes one meta document in a YAML fixture file.
type Fixture struct {
	// Hash overrides the content hash the meta is stored under.
	Hash     string        `yaml:"hash,omitempty"`
	Dotrain  *string       `yaml:"dotrain,omitempty"`
	Words    []Word        `yaml:"words,omitempty"`
	Deployer bool          `yaml:"deployer,omitempty"`
	Contract *ContractMeta `yaml:"contract,omitempty"`
}

// FixtureFile is the top-level layout of a YAML fixture file.
type FixtureFile struct {
	Metas []Fixture `yaml:"metas"`
}

// Build encodes the fixture as a meta document. A deployer is added when
// Deployer is set or any words are listed.
func (f Fixture) Build() ([]byte, error) {
	b := NewBuilder()

	if f.Dotrain != nil {
		b.Dotrain(*f.Dotrain)
	}

	if f.Deployer || len(f.Words) > 0 {
		b.Deployer(f.Words)
	}

	if f.Contract != nil {
		b.Contract(*f.Contract)
	}

	return b.Bytes()
}

// LoadYAML reads fixtures from r into store and returns the hash of each meta
// in file order.
func LoadYAML(r io.Reader, store *MemStore) ([]string, error) {
	var file FixtureFile

	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, ErrInvalidFixture.Wrap(err)
	}

	hashes := make([]string, 0, len(file.Metas))

	for i, f := range file.Metas {
		raw, err := f.Build()
		if err != nil {
			return nil, ErrInvalidFixture.Wrap(err).With(slog.Int("meta", i))
		}

		if f.Hash == "" {
			hashes = append(hashes, store.Add(raw))

			continue
		}

		if !IsHash(f.Hash) {
			return nil, ErrInvalidFixture.Wrap(ErrInvalidHash).With(
				slog.Int("meta", i),
				slog.String("hash", f.Hash),
			)
		}

		store.Set(f.Hash, raw)
		hashes = append(hashes, NormalizeHash(f.Hash))
	}

	return hashes, nil
}

// LoadFile reads a YAML fixture file into store.
func LoadFile(path string, store *MemStore) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrInvalidFixture.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	return LoadYAML(f, store)
}
