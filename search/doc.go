// Package search implements the query engine of the learning guide:
// scoring, ranking, deduplication and truncation of free-text search
// over an index plus live bypass sources.
//
// # Usage
//
//	engine := search.NewEngine(idx, search.EngineOptions{
//	    Live: []item.Source{sections, bookmarks},
//	})
//
//	results, err := engine.Search(ctx, "flexbox")
//	if errors.Is(err, search.ErrQueryTooShort) {
//	    // no search performed; show nothing
//	}
//
// # Ranking
//
// The default [RelevanceSearcher] combines exact, partial, keyword and
// fuzzy matches, each scaled by the item's weight. Results are capped
// at [DefaultLimit] after full scoring and sorting, so truncation
// never changes relative order. Equal scores keep input order, making
// repeated searches over the same index state deterministic.
//
// Alternative ranking strategies implement [Searcher]; the fulltext
// package provides a Bleve-backed one.
//
// # Debouncing
//
// [Debouncer] provides the ~150ms trailing-edge gate used in front of
// keystroke-driven search. It is purely a UX/perf control; programmatic
// callers invoke [Engine.Search] directly.
package search
