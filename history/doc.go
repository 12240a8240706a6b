// Package history keeps the bounded, most-recent-first log of search
// queries a guide installation has run.
//
// Re-searching a query replaces its earlier entry and moves it to the
// front rather than appending a duplicate. The log holds at most
// [DefaultMaxEntries] entries and is persisted through the store
// package; persistence failures degrade to in-memory operation for
// the session and are never surfaced to callers.
package history
