package index

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonwraymond/guidesearch/item"
)

// Error values for consistent error handling by callers.
var (
	ErrRebuildInProgress = errors.New("rebuild already in progress")
)

// Record is an indexed item together with its derived search fields.
// Keywords and SearchableText are always computed from the item by the
// deterministic extraction rules in text.go and are never edited
// independently.
type Record struct {
	item.Item
	SearchableText string
	Keywords       []string
	Indexed        time.Time
}

// NewRecord derives the indexed form of an item.
func NewRecord(it item.Item) Record {
	text := SearchableText(it)
	return Record{
		Item:           it,
		SearchableText: text,
		Keywords:       ExtractKeywords(text),
		Indexed:        time.Now(),
	}
}

// HasKeyword reports whether word is an exact keyword of the record.
func (r Record) HasKeyword(word string) bool {
	for _, kw := range r.Keywords {
		if kw == word {
			return true
		}
	}
	return false
}

// Options configures an InMemoryIndex.
type Options struct {
	// Logger receives source failures and skipped items during
	// Rebuild. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// InMemoryIndex is the authoritative in-memory mapping from item ID to
// indexed record. Records keep their first insertion position, so
// snapshots are stable across updates; search tie-breaking relies on
// that order.
//
// The index is safe for concurrent use. Rebuild is single-flight: a
// rebuild requested while another is running is rejected, not queued.
type InMemoryIndex struct {
	mu      sync.RWMutex
	records map[string]Record
	order   []string
	logger  *slog.Logger

	rebuildMu  sync.Mutex
	rebuilding bool
}

// NewInMemoryIndex creates an empty index.
func NewInMemoryIndex(opts ...Options) *InMemoryIndex {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryIndex{
		records: make(map[string]Record),
		logger:  logger,
	}
}

// Upsert indexes an item, overwriting any existing record with the
// same ID (last write wins). An updated record keeps its original
// insertion position. Invalid items are rejected.
func (idx *InMemoryIndex) Upsert(it item.Item) error {
	if err := it.Validate(); err != nil {
		return err
	}

	rec := NewRecord(it)

	idx.mu.Lock()
	if _, exists := idx.records[it.ID]; !exists {
		idx.order = append(idx.order, it.ID)
	}
	idx.records[it.ID] = rec
	idx.mu.Unlock()
	return nil
}

// Remove deletes the record with the given ID. Removing an absent ID
// is a no-op.
func (idx *InMemoryIndex) Remove(id string) {
	idx.mu.Lock()
	if _, exists := idx.records[id]; exists {
		delete(idx.records, id)
		for i, ordered := range idx.order {
			if ordered == id {
				idx.order = append(idx.order[:i], idx.order[i+1:]...)
				break
			}
		}
	}
	idx.mu.Unlock()
}

// Get returns the record for id, if present.
func (idx *InMemoryIndex) Get(id string) (Record, bool) {
	idx.mu.RLock()
	rec, ok := idx.records[id]
	idx.mu.RUnlock()
	return rec, ok
}

// Len returns the current record count.
func (idx *InMemoryIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records)
}

// Records returns a snapshot of all records in insertion order. A
// record observed here is always fully derived; partially-built
// records are never visible.
func (idx *InMemoryIndex) Records() []Record {
	idx.mu.RLock()
	out := make([]Record, 0, len(idx.order))
	for _, id := range idx.order {
		out = append(out, idx.records[id])
	}
	idx.mu.RUnlock()
	return out
}

// Clear removes every record.
func (idx *InMemoryIndex) Clear() {
	idx.mu.Lock()
	idx.records = make(map[string]Record)
	idx.order = nil
	idx.mu.Unlock()
}

// Rebuild clears the index and re-populates it from the given sources
// in argument order.
//
// Failures are isolated per the adapter-failure policy: a source that
// returns an error is logged and skipped, leaving only its items
// missing; an item that fails validation is skipped without aborting
// the rest of its source. Queries issued while a rebuild is in flight
// observe a partially-rebuilt but never corrupted index.
//
// Only one rebuild may run at a time; overlapping calls return
// ErrRebuildInProgress.
func (idx *InMemoryIndex) Rebuild(ctx context.Context, sources ...item.Source) error {
	idx.rebuildMu.Lock()
	if idx.rebuilding {
		idx.rebuildMu.Unlock()
		return ErrRebuildInProgress
	}
	idx.rebuilding = true
	idx.rebuildMu.Unlock()

	defer func() {
		idx.rebuildMu.Lock()
		idx.rebuilding = false
		idx.rebuildMu.Unlock()
	}()

	idx.Clear()

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		items, err := src.Items(ctx)
		if err != nil {
			idx.logger.Warn("source failed, skipping", "source", src.Name(), "error", err)
			continue
		}

		for _, it := range items {
			if err := idx.Upsert(it); err != nil {
				idx.logger.Debug("skipping malformed item", "source", src.Name(), "id", it.ID, "error", err)
			}
		}
	}

	return nil
}
