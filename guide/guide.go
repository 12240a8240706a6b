package guide

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jonwraymond/guidesearch/bookmarks"
	"github.com/jonwraymond/guidesearch/catalog"
	"github.com/jonwraymond/guidesearch/history"
	"github.com/jonwraymond/guidesearch/index"
	"github.com/jonwraymond/guidesearch/item"
	"github.com/jonwraymond/guidesearch/notes"
	"github.com/jonwraymond/guidesearch/search"
	"github.com/jonwraymond/guidesearch/store"
)

// Options configures a Guide. The zero value is usable: an in-memory
// store, the default relevance searcher and no static catalog.
type Options struct {
	// Store persists history, notes and bookmarks. If nil, an
	// in-memory store is used.
	Store store.Store

	// Catalog supplies the static guide content. Optional; without it
	// only user content is searchable.
	Catalog *catalog.Catalog

	// Searcher overrides the ranking strategy, for example a
	// fulltext.BleveSearcher. If nil, search.RelevanceSearcher is used.
	Searcher search.Searcher

	// Extra are additional item sources included in every rebuild.
	Extra []item.Source

	// Limit caps search results. If zero, search.DefaultLimit is used.
	Limit int

	// MinQueryLength overrides the minimum query length in runes. If
	// zero, search.MinQueryLength is used.
	MinQueryLength int

	// HistorySize bounds the search history. If zero,
	// history.DefaultMaxEntries is used.
	HistorySize int

	// Logger is shared by all components. If nil, slog.Default() is
	// used.
	Logger *slog.Logger
}

// Guide wires the catalog, index, engine, history and user content
// into one search facade. All collaborators are reachable through
// accessors so callers can go deeper when the facade is not enough.
type Guide struct {
	kv     store.Store
	cat    *catalog.Catalog
	idx    *index.InMemoryIndex
	engine *search.Engine
	hist   *history.History
	notes  *notes.Collection
	marks  *bookmarks.Collection
	extra  []item.Source
	logger *slog.Logger
}

// Stats summarizes the guide state.
type Stats struct {
	IndexedItems   int                  `json:"indexedItems"`
	Notes          int                  `json:"notes"`
	Bookmarks      int                  `json:"bookmarks"`
	HistoryEntries int                  `json:"historyEntries"`
	TopSearches    []history.QueryCount `json:"topSearches,omitempty"`
}

// New assembles a Guide. Call Load before searching to restore
// persisted state and build the index.
func New(opts Options) *Guide {
	kv := opts.Store
	if kv == nil {
		kv = store.NewMemoryStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	idx := index.NewInMemoryIndex(index.Options{Logger: logger})
	noteColl := notes.NewCollection(kv, notes.Options{Indexer: idx, Logger: logger})
	markColl := bookmarks.NewCollection(kv, bookmarks.Options{Indexer: idx, Logger: logger})
	hist := history.New(kv, history.Options{MaxEntries: opts.HistorySize, Logger: logger})

	// Bookmarks double as a live source so a toggle is searchable
	// even before the collection first reaches the index.
	var live []item.Source
	if opts.Catalog != nil {
		live = append(live, opts.Catalog.SectionSource())
	}
	live = append(live, markColl.Source())
	engine := search.NewEngine(idx, search.EngineOptions{
		Searcher:       opts.Searcher,
		Live:           live,
		Limit:          opts.Limit,
		MinQueryLength: opts.MinQueryLength,
		Logger:         logger,
	})

	return &Guide{
		kv:     kv,
		cat:    opts.Catalog,
		idx:    idx,
		engine: engine,
		hist:   hist,
		notes:  noteColl,
		marks:  markColl,
		extra:  opts.Extra,
		logger: logger,
	}
}

// Load restores persisted history, notes and bookmarks, then builds
// the index from all sources.
func (g *Guide) Load(ctx context.Context) error {
	g.hist.Load(ctx)
	g.notes.Load(ctx)
	g.marks.Load(ctx)
	return g.Rebuild(ctx)
}

// Rebuild reconstructs the index from the catalog, notes, bookmarks
// and any extra sources. A failing source is skipped; see
// index.InMemoryIndex.Rebuild.
func (g *Guide) Rebuild(ctx context.Context) error {
	return g.idx.Rebuild(ctx, g.sources()...)
}

func (g *Guide) sources() []item.Source {
	var srcs []item.Source
	if g.cat != nil {
		srcs = append(srcs,
			g.cat.SectionSource(),
			g.cat.ContentSource(),
			g.cat.SnippetSource(),
		)
	}
	srcs = append(srcs, g.notes.Source(), g.marks.Source())
	return append(srcs, g.extra...)
}

// Search runs the query through the engine and records it in the
// history with its result count. Too-short queries return
// search.ErrQueryTooShort and are not recorded.
func (g *Guide) Search(ctx context.Context, query string) (search.Results, error) {
	results, err := g.engine.Search(ctx, query)
	if err != nil {
		if !errors.Is(err, search.ErrQueryTooShort) {
			g.logger.Warn("search failed", "query", query, "error", err)
		}
		return nil, err
	}
	g.hist.Record(ctx, query, len(results))
	return results, nil
}

// Watch blocks watching the catalog file, rebuilding the index after
// each successful reload. It returns immediately when the guide has
// no file-backed catalog.
func (g *Guide) Watch(ctx context.Context) error {
	if g.cat == nil {
		return nil
	}
	debounced := search.NewDebouncer(0, func(string) {
		if err := g.Rebuild(context.Background()); err != nil {
			g.logger.Warn("rebuild after catalog change failed", "error", err)
		}
	})
	defer debounced.Stop()
	return g.cat.Watch(ctx, g.logger, func() { debounced.Trigger("") })
}

// Stats returns current counts across the guide.
func (g *Guide) Stats() Stats {
	return Stats{
		IndexedItems:   g.idx.Len(),
		Notes:          len(g.notes.List()),
		Bookmarks:      len(g.marks.List()),
		HistoryEntries: g.hist.Len(),
		TopSearches:    g.hist.Top(5),
	}
}

// Notes returns the note collection.
func (g *Guide) Notes() *notes.Collection { return g.notes }

// Bookmarks returns the bookmark collection.
func (g *Guide) Bookmarks() *bookmarks.Collection { return g.marks }

// History returns the search history.
func (g *Guide) History() *history.History { return g.hist }

// Index returns the search index.
func (g *Guide) Index() *index.InMemoryIndex { return g.idx }

// Catalog returns the static catalog, which may be nil.
func (g *Guide) Catalog() *catalog.Catalog { return g.cat }

// Store returns the backing key-value store.
func (g *Guide) Store() store.Store { return g.kv }
