// Package notes manages user-authored notes backed by a key-value
// store. Mutations persist the whole collection and feed the search
// index incrementally through the Indexer interface, keeping searches
// consistent with the latest edit.
package notes
