package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/guidesearch/item"
	"github.com/jonwraymond/guidesearch/store"
)

// Error values for consistent error handling by callers.
var (
	ErrNotFound     = errors.New("note not found")
	ErrMissingTitle = errors.New("note title is required")
)

// Weight is the search weight of note items.
const Weight = 6

// storeKey is the persistence key within the backing store.
const storeKey = "notes"

// descriptionLen bounds the derived search description, in runes.
const descriptionLen = 100

// Note is one user note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	SectionID string    `json:"sectionId,omitempty"`
	Created   time.Time `json:"created"`
	Updated   time.Time `json:"updated"`
}

// Indexer receives incremental index updates. *index.InMemoryIndex
// satisfies it.
type Indexer interface {
	Upsert(it item.Item) error
	Remove(id string)
}

// Options configures a Collection.
type Options struct {
	// Indexer, when set, is kept in sync with every mutation so a
	// search issued immediately after a change observes it.
	Indexer Indexer

	// Logger receives persistence failures. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Collection is the store-backed set of user notes. Every mutation
// persists the collection and updates the search index in the same
// call, so a search issued right after a change observes it.
type Collection struct {
	mu      sync.RWMutex
	notes   []Note
	kv      store.Store
	indexer Indexer
	logger  *slog.Logger
}

// NewCollection creates a Collection persisting into kv.
func NewCollection(kv store.Store, opts ...Options) *Collection {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection{kv: kv, indexer: o.Indexer, logger: logger}
}

// Load restores persisted notes. A missing key or storage failure
// degrades to an empty collection.
func (c *Collection) Load(ctx context.Context) {
	var loaded []Note
	if err := store.GetJSON(ctx, c.kv, storeKey, &loaded); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.logger.Warn("could not load notes", "error", err)
		}
		return
	}

	c.mu.Lock()
	c.notes = loaded
	c.mu.Unlock()
}

// Create adds a new note and returns it.
func (c *Collection) Create(ctx context.Context, title, content, sectionID string, tags []string) (Note, error) {
	if strings.TrimSpace(title) == "" {
		return Note{}, ErrMissingTitle
	}

	now := time.Now()
	note := Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Tags:      tags,
		SectionID: sectionID,
		Created:   now,
		Updated:   now,
	}

	c.mu.Lock()
	c.notes = append(c.notes, note)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.persist(ctx, snapshot)
	c.reindex(note)
	return note, nil
}

// Update modifies an existing note.
func (c *Collection) Update(ctx context.Context, id, title, content string, tags []string) (Note, error) {
	c.mu.Lock()
	pos := -1
	for i := range c.notes {
		if c.notes[i].ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		c.mu.Unlock()
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	note := c.notes[pos]
	if title != "" {
		note.Title = title
	}
	note.Content = content
	if tags != nil {
		note.Tags = tags
	}
	note.Updated = time.Now()
	c.notes[pos] = note
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.persist(ctx, snapshot)
	c.reindex(note)
	return note, nil
}

// Delete removes a note. The indexed record is removed in the same
// operation, so it never outlives the note.
func (c *Collection) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	pos := -1
	for i := range c.notes {
		if c.notes[i].ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.notes = append(c.notes[:pos], c.notes[pos+1:]...)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.persist(ctx, snapshot)
	if c.indexer != nil {
		c.indexer.Remove(indexID(id))
	}
	return nil
}

// Get returns the note with the given ID, if present.
func (c *Collection) Get(id string) (Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, n := range c.notes {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}

// List returns all notes in creation order.
func (c *Collection) List() []Note {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Tags returns the union of all note tags, deduplicated in first-seen
// order.
func (c *Collection) Tags() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var tags []string
	seen := make(map[string]struct{})
	for _, n := range c.notes {
		for _, tag := range n.Tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

// Source exposes the collection as an indexable item source.
func (c *Collection) Source() item.Source {
	return item.SourceFunc{
		SourceName: "notes",
		Fn: func(ctx context.Context) ([]item.Item, error) {
			notes := c.List()
			items := make([]item.Item, 0, len(notes))
			for _, n := range notes {
				items = append(items, IndexItem(n))
			}
			return items, nil
		},
	}
}

// IndexItem derives the indexable form of a note: the description is
// a bounded prefix of the content, the content field folds in title
// and tags for keyword extraction.
func IndexItem(n Note) item.Item {
	return item.Item{
		ID:          indexID(n.ID),
		Type:        item.TypeNote,
		Title:       n.Title,
		Description: prefix(n.Content, descriptionLen),
		Content:     strings.TrimSpace(n.Title + " " + n.Content + " " + strings.Join(n.Tags, " ")),
		SectionID:   n.SectionID,
		Weight:      Weight,
	}
}

func indexID(id string) string { return "note_" + id }

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func (c *Collection) snapshotLocked() []Note {
	out := make([]Note, len(c.notes))
	copy(out, c.notes)
	return out
}

func (c *Collection) persist(ctx context.Context, snapshot []Note) {
	if err := store.SetJSON(ctx, c.kv, storeKey, snapshot); err != nil {
		c.logger.Warn("could not save notes", "error", err)
	}
}

func (c *Collection) reindex(n Note) {
	if c.indexer == nil {
		return
	}
	if err := c.indexer.Upsert(IndexItem(n)); err != nil {
		c.logger.Warn("could not index note", "id", n.ID, "error", err)
	}
}
