package bookmarks

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
	ErrNotFound = errors.New("bookmark not found")
)

// Weight is the search weight of bookmark items.
const Weight = 5

// storeKey is the persistence key within the backing store.
const storeKey = "bookmarks"

// Bookmark marks a guide item the user wants to find again. ItemID
// and ItemType reference the bookmarked target; Pinned bookmarks are
// listed first.
type Bookmark struct {
	ID       string    `json:"id"`
	ItemID   string    `json:"itemId"`
	ItemType string    `json:"itemType"`
	Title    string    `json:"title"`
	Note     string    `json:"note,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
	Pinned   bool      `json:"pinned,omitempty"`
	Created  time.Time `json:"created"`
}

// Indexer receives incremental index updates. *index.InMemoryIndex
// satisfies it.
type Indexer interface {
	Upsert(it item.Item) error
	Remove(id string)
}

// Options configures a Collection.
type Options struct {
	Indexer Indexer
	Logger  *slog.Logger
}

// Collection is the store-backed set of bookmarks. Like notes, every
// mutation persists and reindexes in the same call.
type Collection struct {
	mu      sync.RWMutex
	marks   []Bookmark
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

// Load restores persisted bookmarks. A missing key or storage failure
// degrades to an empty collection.
func (c *Collection) Load(ctx context.Context) {
	var loaded []Bookmark
	if err := store.GetJSON(ctx, c.kv, storeKey, &loaded); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.logger.Warn("could not load bookmarks", "error", err)
		}
		return
	}

	c.mu.Lock()
	c.marks = loaded
	c.mu.Unlock()
}

// Toggle flips the bookmarked state of the referenced item. It
// returns the resulting state: true when the call created a bookmark,
// false when it removed one.
func (c *Collection) Toggle(ctx context.Context, itemID, itemType, title string) (bool, error) {
	c.mu.Lock()
	for i := range c.marks {
		if c.marks[i].ItemID == itemID {
			removed := c.marks[i]
			c.marks = append(c.marks[:i], c.marks[i+1:]...)
			snapshot := c.snapshotLocked()
			c.mu.Unlock()

			c.persist(ctx, snapshot)
			if c.indexer != nil {
				c.indexer.Remove(indexID(removed.ID))
			}
			return false, nil
		}
	}

	mark := Bookmark{
		ID:       uuid.NewString(),
		ItemID:   itemID,
		ItemType: itemType,
		Title:    title,
		Created:  time.Now(),
	}
	c.marks = append(c.marks, mark)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.persist(ctx, snapshot)
	c.reindex(mark)
	return true, nil
}

// SetNote attaches a free-form note to a bookmark.
func (c *Collection) SetNote(ctx context.Context, id, note string) (Bookmark, error) {
	return c.update(ctx, id, func(b *Bookmark) { b.Note = note })
}

// SetTags replaces the tags of a bookmark.
func (c *Collection) SetTags(ctx context.Context, id string, tags []string) (Bookmark, error) {
	return c.update(ctx, id, func(b *Bookmark) { b.Tags = tags })
}

// TogglePin flips the pinned flag and returns the updated bookmark.
func (c *Collection) TogglePin(ctx context.Context, id string) (Bookmark, error) {
	return c.update(ctx, id, func(b *Bookmark) { b.Pinned = !b.Pinned })
}

func (c *Collection) update(ctx context.Context, id string, apply func(*Bookmark)) (Bookmark, error) {
	c.mu.Lock()
	pos := -1
	for i := range c.marks {
		if c.marks[i].ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		c.mu.Unlock()
		return Bookmark{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	apply(&c.marks[pos])
	mark := c.marks[pos]
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	c.persist(ctx, snapshot)
	c.reindex(mark)
	return mark, nil
}

// IsBookmarked reports whether the referenced item has a bookmark.
func (c *Collection) IsBookmarked(itemID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.marks {
		if b.ItemID == itemID {
			return true
		}
	}
	return false
}

// Get returns the bookmark with the given ID, if present.
func (c *Collection) Get(id string) (Bookmark, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.marks {
		if b.ID == id {
			return b, true
		}
	}
	return Bookmark{}, false
}

// List returns all bookmarks, pinned entries first, otherwise in
// creation order.
func (c *Collection) List() []Bookmark {
	c.mu.RLock()
	snapshot := c.snapshotLocked()
	c.mu.RUnlock()

	var out []Bookmark
	for _, b := range snapshot {
		if b.Pinned {
			out = append(out, b)
		}
	}
	for _, b := range snapshot {
		if !b.Pinned {
			out = append(out, b)
		}
	}
	return out
}

// Source exposes the collection as an indexable item source.
func (c *Collection) Source() item.Source {
	return item.SourceFunc{
		SourceName: "bookmarks",
		Fn: func(ctx context.Context) ([]item.Item, error) {
			marks := c.List()
			items := make([]item.Item, 0, len(marks))
			for _, b := range marks {
				items = append(items, IndexItem(b))
			}
			return items, nil
		},
	}
}

// IndexItem derives the indexable form of a bookmark.
func IndexItem(b Bookmark) item.Item {
	return item.Item{
		ID:          indexID(b.ID),
		Type:        item.TypeBookmark,
		Title:       b.Title,
		Description: b.Note,
		Content:     strings.TrimSpace(b.Title + " " + b.Note + " " + strings.Join(b.Tags, " ")),
		Weight:      Weight,
	}
}

func indexID(id string) string { return "bookmark_" + id }

func (c *Collection) snapshotLocked() []Bookmark {
	out := make([]Bookmark, len(c.marks))
	copy(out, c.marks)
	return out
}

func (c *Collection) persist(ctx context.Context, snapshot []Bookmark) {
	if err := store.SetJSON(ctx, c.kv, storeKey, snapshot); err != nil {
		c.logger.Warn("could not save bookmarks", "error", err)
	}
}

func (c *Collection) reindex(b Bookmark) {
	if c.indexer == nil {
		return
	}
	if err := c.indexer.Upsert(IndexItem(b)); err != nil {
		c.logger.Warn("could not index bookmark", "id", b.ID, "error", err)
	}
}
