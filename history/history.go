package history

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jonwraymond/guidesearch/store"
)

// DefaultMaxEntries bounds the history to the most recent queries.
const DefaultMaxEntries = 20

// storeKey is the persistence key within the backing store.
const storeKey = "searchHistory"

// Entry is one recorded query.
type Entry struct {
	Query     string    `json:"query"`
	Results   int       `json:"results"`
	Timestamp time.Time `json:"timestamp"`
}

// QueryCount is a query with its repeat count, for top-query listings.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// Options configures a History.
type Options struct {
	// MaxEntries bounds the log. If zero, DefaultMaxEntries is used.
	MaxEntries int

	// Logger receives persistence failures. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// History is a bounded, most-recent-first log of past queries and
// their result counts, persisted per installation through a
// key-value store.
//
// Persistence is best-effort: a store failure is logged and the
// history keeps functioning in memory for the session.
type History struct {
	mu      sync.RWMutex
	entries []Entry
	kv      store.Store
	max     int
	logger  *slog.Logger
}

// New creates a History persisting into kv.
func New(kv store.Store, opts ...Options) *History {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	max := o.MaxEntries
	if max == 0 {
		max = DefaultMaxEntries
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &History{kv: kv, max: max, logger: logger}
}

// Load restores previously persisted entries. A missing key yields an
// empty history; a storage failure degrades to empty and is logged.
func (h *History) Load(ctx context.Context) {
	var entries []Entry
	err := store.GetJSON(ctx, h.kv, storeKey, &entries)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Warn("could not load search history", "error", err)
		}
		return
	}

	h.mu.Lock()
	h.entries = entries
	h.truncateLocked()
	h.mu.Unlock()
}

// Record logs a completed query with its result count. An existing
// entry with the exact same query string (case-sensitive, raw) is
// replaced and moved to the front; the log is then truncated to the
// bound and persisted.
func (h *History) Record(ctx context.Context, query string, resultCount int) {
	h.mu.Lock()

	kept := h.entries[:0]
	for _, e := range h.entries {
		if e.Query != query {
			kept = append(kept, e)
		}
	}
	h.entries = append([]Entry{{
		Query:     query,
		Results:   resultCount,
		Timestamp: time.Now(),
	}}, kept...)
	h.truncateLocked()

	snapshot := make([]Entry, len(h.entries))
	copy(snapshot, h.entries)
	h.mu.Unlock()

	h.persist(ctx, snapshot)
}

// Recent returns up to limit entries, most recent first. A
// non-positive limit returns all entries.
func (h *History) Recent(limit int) []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := len(h.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, n)
	copy(out, h.entries[:n])
	return out
}

// Top returns up to limit queries by descending repeat count, ties
// broken by most-recent-first.
func (h *History) Top(limit int) []QueryCount {
	h.mu.RLock()
	counts := make(map[string]int, len(h.entries))
	firstSeen := make(map[string]int, len(h.entries))
	for i, e := range h.entries {
		counts[e.Query]++
		if _, ok := firstSeen[e.Query]; !ok {
			firstSeen[e.Query] = i
		}
	}
	h.mu.RUnlock()

	top := make([]QueryCount, 0, len(counts))
	for query, count := range counts {
		top = append(top, QueryCount{Query: query, Count: count})
	}
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return firstSeen[top[i].Query] < firstSeen[top[j].Query]
	})

	if limit > 0 && limit < len(top) {
		top = top[:limit]
	}
	return top
}

// Len returns the number of entries currently held.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Clear empties the history, in memory and in the store.
func (h *History) Clear(ctx context.Context) {
	h.mu.Lock()
	h.entries = nil
	h.mu.Unlock()

	h.persist(ctx, []Entry{})
}

func (h *History) truncateLocked() {
	if len(h.entries) > h.max {
		h.entries = h.entries[:h.max]
	}
}

func (h *History) persist(ctx context.Context, entries []Entry) {
	if err := store.SetJSON(ctx, h.kv, storeKey, entries); err != nil {
		h.logger.Warn("could not save search history", "error", err)
	}
}
