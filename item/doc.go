// Package item defines the unified indexable item schema shared by all
// content sources of a learning guide.
//
// Every source (navigation sections, static content, code snippets,
// user notes, user bookmarks) emits [Item] values through the
// [Source] capability. The index package derives searchable text and
// keywords from these; the search package ranks them.
//
// Optional fields (Description, Content, SectionID) are plain strings
// where absent means empty: downstream text extraction treats them as
// "", never as a literal placeholder.
package item
