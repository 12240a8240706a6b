// Package index maintains the in-memory search index of a learning
// guide: the authoritative mapping from item ID to indexed record.
//
// # Usage
//
// Create and populate an index:
//
//	idx := index.NewInMemoryIndex()
//
//	err := idx.Upsert(item.Item{
//	    ID:          "section_html",
//	    Type:        item.TypeSection,
//	    Title:       "HTML Alapok",
//	    Description: "HTML struktúra és elemek",
//	    Weight:      10,
//	})
//
// Or rebuild it wholesale from content sources:
//
//	err := idx.Rebuild(ctx, catalogSections, catalogContent, notes, bookmarks)
//
// # Derived fields
//
// Each record carries searchable text (lowercase concatenation of the
// item's text fields) and a keyword list (stop-word-filtered tokens),
// both computed by the pure functions [SearchableText] and
// [ExtractKeywords]. Re-indexing the same item always yields identical
// derived fields.
//
// # Incremental maintenance
//
// User content changes call [InMemoryIndex.Upsert] and
// [InMemoryIndex.Remove] directly, in the same logical operation that
// persists the mutation, so a record never outlives its source item.
//
// # Rebuild semantics
//
// Rebuild is single-flight: an overlapping request returns
// [ErrRebuildInProgress]. A failing source is logged and skipped so
// one bad adapter cannot empty the whole index.
package index
