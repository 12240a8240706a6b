package item

import (
	"context"
	"errors"
	"fmt"
)

// Error values for consistent error handling by callers.
var (
	ErrInvalidItem = errors.New("invalid item")
)

// Type categorizes the origin of an indexable item. It drives result
// icon selection and type-scoped filtering in consumers.
type Type string

const (
	TypeSection  Type = "section"
	TypeContent  Type = "content"
	TypeCode     Type = "code"
	TypeNote     Type = "note"
	TypeBookmark Type = "bookmark"
)

// Item is the unified record shape every content source produces for
// inclusion in the search index.
//
// IDs are globally unique within an index and stable across rebuilds
// for the same logical item (e.g. "section_html", "note_<uuid>").
// Weight is a source-defined importance multiplier that scales every
// match-type score uniformly; it must be positive.
type Item struct {
	ID          string `json:"id"`
	Type        Type   `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
	SectionID   string `json:"sectionId,omitempty"`
	Weight      int    `json:"weight"`
}

// Validate checks the minimal schema contract. Content sources are not
// fully trusted to be schema-clean, so indexers reject invalid items
// one at a time rather than aborting a whole source.
func (it Item) Validate() error {
	if it.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidItem)
	}
	if it.Title == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidItem)
	}
	if it.Weight <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrInvalidItem)
	}
	return nil
}

// Source enumerates indexable items from one content domain
// (sections, static content, code snippets, notes, bookmarks).
// Implementations that read persisted state may block on I/O and
// should honor ctx cancellation.
type Source interface {
	// Name identifies the source in logs and diagnostics.
	Name() string

	// Items returns the current items of this domain.
	Items(ctx context.Context) ([]Item, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc struct {
	SourceName string
	Fn         func(ctx context.Context) ([]Item, error)
}

// Name implements Source.
func (s SourceFunc) Name() string { return s.SourceName }

// Items implements Source.
func (s SourceFunc) Items(ctx context.Context) ([]Item, error) { return s.Fn(ctx) }
