package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jonwraymond/guidesearch/index"
	"github.com/jonwraymond/guidesearch/item"
)

// Error values for consistent error handling by callers.
var (
	// ErrQueryTooShort signals that no search was performed. It is
	// distinct from an empty result list: callers suppress result UI
	// entirely instead of showing "no matches".
	ErrQueryTooShort = errors.New("query too short")
)

const (
	// DefaultLimit is the hard cap on returned results.
	DefaultLimit = 20

	// MinQueryLength is the minimum trimmed query length, in runes.
	MinQueryLength = 2
)

// EngineOptions configures an Engine.
type EngineOptions struct {
	// Searcher ranks candidate records. If nil, RelevanceSearcher
	// is used.
	Searcher Searcher

	// Live are sources queried at search time, bypassing the index,
	// so freshly created content is searchable before the next
	// rebuild. Index records win over live items with the same ID.
	Live []item.Source

	// Limit caps the result list. If zero, DefaultLimit is used.
	Limit int

	// MinQueryLength overrides the minimum query length. If zero,
	// MinQueryLength is used.
	MinQueryLength int

	// Logger receives live-source failures. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Engine answers free-text queries over an index plus optional live
// bypass sources. Scoring is synchronous and CPU-only; the only
// suspension points are the live sources' reads.
type Engine struct {
	idx      *index.InMemoryIndex
	searcher Searcher
	live     []item.Source
	limit    int
	minLen   int
	logger   *slog.Logger
}

// NewEngine creates an Engine over idx.
func NewEngine(idx *index.InMemoryIndex, opts EngineOptions) *Engine {
	searcher := opts.Searcher
	if searcher == nil {
		searcher = RelevanceSearcher{}
	}
	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	minLen := opts.MinQueryLength
	if minLen == 0 {
		minLen = MinQueryLength
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		idx:      idx,
		searcher: searcher,
		live:     opts.Live,
		limit:    limit,
		minLen:   minLen,
		logger:   logger,
	}
}

// Search returns the ranked, deduplicated, size-bounded results for
// query. Queries shorter than the minimum length after trimming
// return ErrQueryTooShort.
//
// Candidates come from the index snapshot first, then from each live
// source in order; the first occurrence of an ID wins, so scores are
// never summed across sources. For a fixed index state and query the
// returned ordering is deterministic.
func (e *Engine) Search(ctx context.Context, query string) (Results, error) {
	trimmed := strings.TrimSpace(query)
	if len([]rune(trimmed)) < e.minLen {
		return nil, ErrQueryTooShort
	}

	candidates := e.idx.Records()
	seen := make(map[string]struct{}, len(candidates))
	for _, rec := range candidates {
		seen[rec.ID] = struct{}{}
	}

	for _, src := range e.live {
		items, err := src.Items(ctx)
		if err != nil {
			e.logger.Warn("live source failed, skipping", "source", src.Name(), "error", err)
			continue
		}
		for _, it := range items {
			if _, dup := seen[it.ID]; dup {
				continue
			}
			if it.Validate() != nil {
				continue
			}
			seen[it.ID] = struct{}{}
			candidates = append(candidates, index.NewRecord(it))
		}
	}

	return e.searcher.Search(trimmed, e.limit, candidates)
}
