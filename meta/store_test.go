package meta

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestMemStoreAuthoringIndex(t *testing.T) {
	store := NewMemStore(nil)

	raw, err := NewBuilder().Deployer(AuthoringMeta{{Name: "add"}}).Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	hash := store.Add(raw)

	if got, ok := store.Get(strings.ToUpper(hash[2:])); ok {
		t.Errorf("Get() without prefix = %v, want absent", got)
	}

	if _, ok := store.Get("0x" + strings.ToUpper(hash[2:])); !ok {
		t.Error("Get() is not case-insensitive")
	}

	byMeta, ok := store.AuthoringMeta(hash, KeyMetaHash)
	if !ok {
		t.Fatal("AuthoringMeta(KeyMetaHash) missing")
	}

	byHash, ok := store.AuthoringMeta(Hash(byMeta), KeyAuthoringHash)
	if !ok {
		t.Fatal("AuthoringMeta(KeyAuthoringHash) missing")
	}

	words, err := DecodeAuthoringMeta(byHash)
	if err != nil {
		t.Fatalf("DecodeAuthoringMeta() error = %v", err)
	}

	if _, ok := words.Lookup("add"); !ok {
		t.Errorf("words = %v", words.Names())
	}
}

func TestMemStoreSetCorrupt(t *testing.T) {
	store := NewMemStore(nil)
	hash := Hash([]byte("key"))

	store.Set(hash, []byte("not a meta"))

	raw, ok := store.Get(hash)
	if !ok || string(raw) != "not a meta" {
		t.Errorf("Get() = %q, %v", raw, ok)
	}

	if _, ok := store.AuthoringMeta(hash, KeyMetaHash); ok {
		t.Error("corrupt meta should not index authoring meta")
	}
}

func TestMemStoreUpdate(t *testing.T) {
	raw, err := NewBuilder().Dotrain("#a 1").Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	good := Hash(raw)

	var (
		mu    sync.Mutex
		calls int
	)

	store := NewMemStore(func(_ context.Context, hash string) ([]byte, error) {
		mu.Lock()
		calls++
		mu.Unlock()

		if hash == good {
			return raw, nil
		}

		return []byte("other"), nil
	})

	ctx := context.Background()

	if err := store.Update(ctx, good); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if err := store.Update(ctx, good); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1", calls)
	}

	bad := Hash([]byte("missing"))
	if err := store.Update(ctx, bad); !errors.Is(err, ErrInvalidHash) {
		t.Errorf("Update(mismatch) error = %v, want %v", err, ErrInvalidHash)
	}

	if _, ok := store.Get(bad); ok {
		t.Error("mismatched content was stored")
	}
}

func TestMemStoreUpdateWithoutFetcher(t *testing.T) {
	err := NewMemStore(nil).Update(context.Background(), Hash(nil))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want %v", err, ErrNotFound)
	}
}

func TestMemStoreConcurrent(t *testing.T) {
	store := NewMemStore(nil)

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			raw, err := NewBuilder().Dotrain(strings.Repeat("#a 1 ", i+1)).Bytes()
			if err != nil {
				t.Error(err)

				return
			}

			hash := store.Add(raw)
			if _, ok := store.Get(hash); !ok {
				t.Errorf("Get(%s) missing", hash)
			}
		}()
	}

	wg.Wait()

	if got := len(store.Hashes()); got != 16 {
		t.Errorf("Hashes() = %d, want 16", got)
	}
}
