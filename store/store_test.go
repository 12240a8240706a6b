package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// backends returns each Store implementation under a fresh state.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	boltStore, err := OpenBolt(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}
	t.Cleanup(func() { _ = boltStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"bolt":   boltStore,
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Set(ctx, "bookmarks", []byte(`["a","b"]`)); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			got, err := s.Get(ctx, "bookmarks")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(got) != `["a","b"]` {
				t.Errorf("unexpected value %q", got)
			}

			// Overwrite wins.
			if err := s.Set(ctx, "bookmarks", []byte(`[]`)); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			got, _ = s.Get(ctx, "bookmarks")
			if string(got) != `[]` {
				t.Errorf("expected overwrite, got %q", got)
			}
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "nope")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStore_DeleteAbsentIsNoOp(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Delete(ctx, "nope"); err != nil {
				t.Errorf("Delete of absent key should be nil, got %v", err)
			}
		})
	}
}

func TestStore_KeysAndClear(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_ = s.Set(ctx, "a", []byte("1"))
			_ = s.Set(ctx, "b", []byte("2"))

			keys, err := s.Keys(ctx)
			if err != nil {
				t.Fatalf("Keys failed: %v", err)
			}
			if len(keys) != 2 {
				t.Errorf("expected 2 keys, got %v", keys)
			}

			if err := s.Clear(ctx); err != nil {
				t.Fatalf("Clear failed: %v", err)
			}
			keys, _ = s.Keys(ctx)
			if len(keys) != 0 {
				t.Errorf("expected empty store after Clear, got %v", keys)
			}
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type note struct {
		Title string `json:"title"`
	}

	if err := SetJSON(ctx, s, "note", note{Title: "Flexbox"}); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	var got note
	if err := GetJSON(ctx, s, "note", &got); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if got.Title != "Flexbox" {
		t.Errorf("expected title 'Flexbox', got %q", got.Title)
	}
}

func TestTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := SetWithTTL(ctx, s, "cached", "fresh", time.Hour); err != nil {
		t.Fatalf("SetWithTTL failed: %v", err)
	}
	var v string
	if err := GetWithTTL(ctx, s, "cached", &v); err != nil {
		t.Fatalf("GetWithTTL failed: %v", err)
	}
	if v != "fresh" {
		t.Errorf("expected 'fresh', got %q", v)
	}

	// Already-expired entry reads as absent and is removed.
	if err := SetWithTTL(ctx, s, "stale", "old", -time.Second); err != nil {
		t.Fatalf("SetWithTTL failed: %v", err)
	}
	if err := GetWithTTL(ctx, s, "stale", &v); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for expired entry, got %v", err)
	}
	if _, err := s.Get(ctx, "stale"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired entry should be deleted on read, got %v", err)
	}
}

func TestCleanupExpired(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_ = SetWithTTL(ctx, s, "stale", "old", -time.Second)
	_ = SetWithTTL(ctx, s, "fresh", "new", time.Hour)
	_ = s.Set(ctx, "plain", []byte(`"untouched"`))

	removed, err := CleanupExpired(ctx, s)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if _, err := s.Get(ctx, "plain"); err != nil {
		t.Errorf("plain entry should survive cleanup: %v", err)
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := NewMemoryStore()
	_ = src.Set(ctx, "notes", []byte(`[{"title":"a"}]`))
	_ = src.Set(ctx, "searchHistory", []byte(`[]`))

	data, err := Export(ctx, src)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := NewMemoryStore()
	_ = dst.Set(ctx, "leftover", []byte("x"))

	n, err := Import(ctx, dst, data)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported, got %d", n)
	}
	if _, err := dst.Get(ctx, "leftover"); !errors.Is(err, ErrNotFound) {
		t.Error("Import should clear existing data first")
	}
	got, err := dst.Get(ctx, "notes")
	if err != nil || string(got) != `[{"title":"a"}]` {
		t.Errorf("round-trip mismatch: %q, %v", got, err)
	}
}

func TestImport_InvalidFormat(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := Import(ctx, s, []byte(`{"version":"1.0"}`)); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestStat(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Set(ctx, "k", []byte("value"))

	info, err := Stat(ctx, s, "memory")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.ItemCount != 1 || info.SizeBytes != len("k")+len("value") {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.Type != "memory" {
		t.Errorf("unexpected type %q", info.Type)
	}
}
