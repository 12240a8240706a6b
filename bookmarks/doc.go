// Package bookmarks manages user bookmarks of guide items, backed by
// a key-value store. Toggle flips the bookmarked state of an item;
// mutations persist and reindex in the same call.
package bookmarks
