package meta

import (
	"context"
	"log/slog"
	"sync"
)

// KeyKind selects how [Store.AuthoringMeta] interprets its key.
type KeyKind int

const (
	// KeyAuthoringHash is the hash of the authoring-meta payload itself, as
	// declared by a deployer bytecode.
	KeyAuthoringHash KeyKind = iota
	// KeyMetaHash is the hash of the meta document containing the payload.
	KeyMetaHash
)

// String returns the name of the key kind.
func (k KeyKind) String() string {
	switch k {
	case KeyAuthoringHash:
		return "authoring-hash"
	case KeyMetaHash:
		return "meta-hash"
	default:
		return "unknown"
	}
}

// Store provides hash-addressed metadata. Implementations must be safe for
// concurrent use.
type Store interface {
	// Update ensures the raw meta for hash is available to Get.
	Update(ctx context.Context, hash string) error
	// Get returns the raw meta document stored under hash.
	Get(hash string) ([]byte, bool)
	// AuthoringMeta returns an authoring-meta payload.
	AuthoringMeta(key string, kind KeyKind) ([]byte, bool)
}

// Fetcher retrieves raw meta that a [MemStore] does not hold yet.
type Fetcher func(ctx context.Context, hash string) ([]byte, error)

// MemStore is an in-memory [Store].
type MemStore struct {
	mu        sync.RWMutex
	metas     map[string][]byte
	authoring map[string][]byte
	byMeta    map[string][]byte
	fetch     Fetcher
}

// NewMemStore returns an empty store. A nil fetch makes Update fail for every
// hash not already stored.
func NewMemStore(fetch Fetcher) *MemStore {
	return &MemStore{
		metas:     make(map[string][]byte),
		authoring: make(map[string][]byte),
		byMeta:    make(map[string][]byte),
		fetch:     fetch,
	}
}

// Add stores raw under its own content hash and returns that hash.
func (s *MemStore) Add(raw []byte) string {
	hash := Hash(raw)
	s.Set(hash, raw)

	return hash
}

// Set stores raw under hash without verifying it. Authoring-meta items found
// in raw are indexed under both [KeyAuthoringHash] and [KeyMetaHash]; raw that
// does not decode is still stored.
func (s *MemStore) Set(hash string, raw []byte) {
	hash = NormalizeHash(hash)

	var found []byte

	if items, err := DecodeCached(raw); err == nil {
		if item, ok := Find(items, AuthoringMetaV1); ok {
			found = item.Payload
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.metas[hash] = raw

	if found != nil {
		s.authoring[Hash(found)] = found
		s.byMeta[hash] = found
		s.byMeta[Hash(raw)] = found
	}
}

// Update implements [Store].
func (s *MemStore) Update(ctx context.Context, hash string) error {
	hash = NormalizeHash(hash)

	if _, ok := s.Get(hash); ok {
		return nil
	}

	if s.fetch == nil {
		return ErrNotFound.With(slog.String("hash", hash))
	}

	raw, err := s.fetch(ctx, hash)
	if err != nil {
		return ErrNotFound.Wrap(err).With(slog.String("hash", hash))
	}

	if got := Hash(raw); got != hash {
		return ErrInvalidHash.With(
			slog.String("want", hash),
			slog.String("got", got),
		)
	}

	s.Set(hash, raw)

	return nil
}

// Get implements [Store].
func (s *MemStore) Get(hash string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.metas[NormalizeHash(hash)]

	return raw, ok
}

// AuthoringMeta implements [Store].
func (s *MemStore) AuthoringMeta(key string, kind KeyKind) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		payload []byte
		ok      bool
	)

	switch kind {
	case KeyAuthoringHash:
		payload, ok = s.authoring[NormalizeHash(key)]
	case KeyMetaHash:
		payload, ok = s.byMeta[NormalizeHash(key)]
	}

	return payload, ok
}

// Hashes returns the hashes of every stored meta document.
func (s *MemStore) Hashes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hashes := make([]string, 0, len(s.metas))
	for h := range s.metas {
		hashes = append(hashes, h)
	}

	return hashes
}
