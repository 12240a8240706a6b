package history

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jonwraymond/guidesearch/store"
)

func TestRecord_RepeatReplacesAndMovesToFront(t *testing.T) {
	ctx := context.Background()
	h := New(store.NewMemoryStore())

	h.Record(ctx, "flexbox", 3)
	h.Record(ctx, "grid", 1)
	h.Record(ctx, "flexbox", 5)

	entries := h.Recent(0)
	if len(entries) != 2 {
		t.Fatalf("repeat must replace, not append: got %d entries", len(entries))
	}
	if entries[0].Query != "flexbox" || entries[0].Results != 5 {
		t.Errorf("expected head {flexbox 5}, got {%s %d}", entries[0].Query, entries[0].Results)
	}
	if entries[1].Query != "grid" {
		t.Errorf("expected 'grid' second, got %q", entries[1].Query)
	}
}

func TestRecord_CaseSensitiveDedupe(t *testing.T) {
	ctx := context.Background()
	h := New(store.NewMemoryStore())

	h.Record(ctx, "Flexbox", 3)
	h.Record(ctx, "flexbox", 5)

	if h.Len() != 2 {
		t.Errorf("dedupe is case-sensitive on the raw query, got %d entries", h.Len())
	}
}

func TestRecord_Bounded(t *testing.T) {
	ctx := context.Background()
	h := New(store.NewMemoryStore())

	for i := 0; i < DefaultMaxEntries+5; i++ {
		h.Record(ctx, fmt.Sprintf("query-%d", i), i)
	}

	if h.Len() != DefaultMaxEntries {
		t.Fatalf("expected %d entries, got %d", DefaultMaxEntries, h.Len())
	}
	// Oldest beyond the bound are dropped; newest survives at the head.
	entries := h.Recent(1)
	if entries[0].Query != fmt.Sprintf("query-%d", DefaultMaxEntries+4) {
		t.Errorf("unexpected head %q", entries[0].Query)
	}
}

func TestRecent_Limit(t *testing.T) {
	ctx := context.Background()
	h := New(store.NewMemoryStore())

	h.Record(ctx, "one", 1)
	h.Record(ctx, "two", 2)
	h.Record(ctx, "three", 3)

	got := h.Recent(2)
	if len(got) != 2 || got[0].Query != "three" || got[1].Query != "two" {
		t.Errorf("unexpected Recent(2): %+v", got)
	}
}

func TestTop_MostRecentFirstOnTies(t *testing.T) {
	ctx := context.Background()
	h := New(store.NewMemoryStore())

	h.Record(ctx, "older", 1)
	h.Record(ctx, "newer", 1)

	top := h.Top(5)
	if len(top) != 2 {
		t.Fatalf("expected 2 top queries, got %d", len(top))
	}
	if top[0].Query != "newer" {
		t.Errorf("equal counts must order most-recent-first, got %q", top[0].Query)
	}
	if top[0].Count != 1 {
		t.Errorf("expected count 1, got %d", top[0].Count)
	}

	if got := h.Top(1); len(got) != 1 {
		t.Errorf("Top must honor its limit, got %d", len(got))
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()

	h := New(kv)
	h.Record(ctx, "flexbox", 3)
	h.Record(ctx, "grid", 1)

	// A new History over the same store sees the same entries.
	reloaded := New(kv)
	reloaded.Load(ctx)

	entries := reloaded.Recent(0)
	if len(entries) != 2 || entries[0].Query != "grid" {
		t.Errorf("reload mismatch: %+v", entries)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()

	h := New(kv)
	h.Record(ctx, "flexbox", 3)
	h.Clear(ctx)

	if h.Len() != 0 {
		t.Errorf("expected empty history, got %d", h.Len())
	}

	reloaded := New(kv)
	reloaded.Load(ctx)
	if reloaded.Len() != 0 {
		t.Error("Clear must also clear the persisted log")
	}
}

// failStore always errors, to exercise the degrade-gracefully policy.
type failStore struct{}

func (failStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("quota exceeded")
}
func (failStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("quota exceeded")
}
func (failStore) Delete(ctx context.Context, key string) error { return nil }
func (failStore) Keys(ctx context.Context) ([]string, error)   { return nil, nil }
func (failStore) Clear(ctx context.Context) error              { return nil }

func TestStorageFailureKeepsInMemoryHistory(t *testing.T) {
	ctx := context.Background()
	h := New(failStore{})

	h.Load(ctx)
	h.Record(ctx, "flexbox", 3)

	if h.Len() != 1 {
		t.Error("history must keep working in memory when the store fails")
	}
}
