package meta

import (
	"slices"
	"sync"

	"github.com/zeebo/xxh3"
)

// decoded stores decode results keyed by the xxh3 digest of the raw meta.
var decoded sync.Map

type decodeEntry struct {
	once  sync.Once
	items []Item
	err   error
}

// DecodeCached is [Decode] with results memoized by content. The returned
// slice is a fresh copy, but item payloads are shared and must not be
// modified.
func DecodeCached(data []byte) ([]Item, error) {
	value, _ := decoded.LoadOrStore(xxh3.Hash128(data), new(decodeEntry))

	entry, ok := value.(*decodeEntry)
	if !ok {
		return Decode(data)
	}

	entry.once.Do(func() {
		entry.items, entry.err = Decode(data)
	})

	if entry.err != nil {
		return nil, entry.err
	}

	return slices.Clone(entry.items), nil
}

// ClearCache removes all memoized decode results.
func ClearCache() {
	decoded.Clear()
}
