package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/jonwraymond/guidesearch/item"
)

// Error values for consistent error handling by callers.
var (
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Weights assigned to catalog-sourced items. Sections carry the most
// importance; snippets the least.
const (
	SectionWeight = 10
	ContentWeight = 8
	SnippetWeight = 7
)

// Section is a navigation section of the guide.
type Section struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Icon        string `yaml:"icon"`
}

// Content is a static content blurb belonging to a section.
type Content struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Body        string `yaml:"body"`
	Section     string `yaml:"section"`
}

// Snippet is an indexed code example.
type Snippet struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Code        string `yaml:"code"`
	Language    string `yaml:"language"`
	Section     string `yaml:"section"`
}

// document is the on-disk YAML shape.
type document struct {
	Sections []Section `yaml:"sections"`
	Content  []Content `yaml:"content"`
	Snippets []Snippet `yaml:"snippets"`
}

// Catalog holds the static content of a guide: sections, content
// blurbs and code snippets, loaded from a YAML document. It is safe
// for concurrent use; Reload swaps the content atomically.
type Catalog struct {
	mu   sync.RWMutex
	doc  document
	path string
}

// Parse builds a Catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return &Catalog{doc: doc}, nil
}

// Load reads and parses the catalog file at path. The returned
// Catalog remembers the path so it can Reload and Watch.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	c.path = path
	return c, nil
}

// Reload re-reads the catalog file. On failure the previous content
// is kept.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return fmt.Errorf("%w: catalog not loaded from a file", ErrInvalidCatalog)
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c.mu.Lock()
	c.doc = doc
	c.mu.Unlock()
	return nil
}

// Sections returns a snapshot of all sections.
func (c *Catalog) Sections() []Section {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Section, len(c.doc.Sections))
	copy(out, c.doc.Sections)
	return out
}

// Section returns the section with the given ID, if present.
func (c *Catalog) Section(id string) (Section, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.doc.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// SectionMatch is a live section lookup hit. Title matches rank above
// description-only matches.
type SectionMatch struct {
	Section   Section
	Relevance int
}

// SearchSections performs a live case-insensitive lookup over section
// titles and descriptions, bypassing the search index.
func (c *Catalog) SearchSections(query string) []SectionMatch {
	lower := strings.ToLower(query)

	c.mu.RLock()
	defer c.mu.RUnlock()

	var matches []SectionMatch
	for _, s := range c.doc.Sections {
		titleMatch := strings.Contains(strings.ToLower(s.Title), lower)
		descMatch := strings.Contains(strings.ToLower(s.Description), lower)
		switch {
		case titleMatch:
			matches = append(matches, SectionMatch{Section: s, Relevance: 2})
		case descMatch:
			matches = append(matches, SectionMatch{Section: s, Relevance: 1})
		}
	}

	// Title hits first; otherwise keep catalog order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Relevance > matches[j].Relevance
	})
	return matches
}

// SectionSource returns the sections as an indexable item source.
func (c *Catalog) SectionSource() item.Source {
	return item.SourceFunc{
		SourceName: "sections",
		Fn: func(ctx context.Context) ([]item.Item, error) {
			sections := c.Sections()
			items := make([]item.Item, 0, len(sections))
			for _, s := range sections {
				items = append(items, item.Item{
					ID:          "section_" + s.ID,
					Type:        item.TypeSection,
					Title:       s.Title,
					Description: s.Description,
					Content:     s.Category,
					SectionID:   s.ID,
					Weight:      SectionWeight,
				})
			}
			return items, nil
		},
	}
}

// ContentSource returns the content blurbs as an indexable item source.
func (c *Catalog) ContentSource() item.Source {
	return item.SourceFunc{
		SourceName: "content",
		Fn: func(ctx context.Context) ([]item.Item, error) {
			c.mu.RLock()
			content := make([]Content, len(c.doc.Content))
			copy(content, c.doc.Content)
			c.mu.RUnlock()

			items := make([]item.Item, 0, len(content))
			for _, entry := range content {
				items = append(items, item.Item{
					ID:          entry.ID,
					Type:        item.TypeContent,
					Title:       entry.Title,
					Description: entry.Description,
					Content:     entry.Body,
					SectionID:   entry.Section,
					Weight:      ContentWeight,
				})
			}
			return items, nil
		},
	}
}

// SnippetSource returns the code snippets as an indexable item source.
func (c *Catalog) SnippetSource() item.Source {
	return item.SourceFunc{
		SourceName: "snippets",
		Fn: func(ctx context.Context) ([]item.Item, error) {
			c.mu.RLock()
			snippets := make([]Snippet, len(c.doc.Snippets))
			copy(snippets, c.doc.Snippets)
			c.mu.RUnlock()

			items := make([]item.Item, 0, len(snippets))
			for _, s := range snippets {
				items = append(items, item.Item{
					ID:          s.ID,
					Type:        item.TypeCode,
					Title:       s.Title,
					Description: s.Description,
					Content:     strings.TrimSpace(s.Code + " " + s.Language),
					SectionID:   s.Section,
					Weight:      SnippetWeight,
				})
			}
			return items, nil
		},
	}
}
