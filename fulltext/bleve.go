package fulltext

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/jonwraymond/guidesearch/index"
	"github.com/jonwraymond/guidesearch/search"
)

// Field boosts applied by the disjunction query. They mirror the
// relative importance the relevance searcher gives title, description
// and keyword matches.
const (
	titleBoost       = 3.0
	descriptionBoost = 2.0
	keywordBoost     = 2.0
	textBoost        = 1.0
	fuzzyBoost       = 0.3
)

// document is the shape indexed into bleve for each record.
type document struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	Text        string `json:"text"`
}

// Options configures a BleveSearcher.
type Options struct {
	// Logger receives index rebuild events. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// BleveSearcher implements search.Searcher on top of an in-memory
// bleve full-text index. The bleve index is derived lazily from the
// record set handed to Search: a fingerprint of the records decides
// whether the previous index can be reused, so repeated searches over
// an unchanged index pay the analysis cost only once.
type BleveSearcher struct {
	mu          sync.Mutex
	idx         bleve.Index
	fingerprint [sha256.Size]byte
	logger      *slog.Logger
}

// NewBleveSearcher creates an empty BleveSearcher. The underlying
// bleve index is built on first use.
func NewBleveSearcher(opts ...Options) *BleveSearcher {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BleveSearcher{logger: logger}
}

// Search implements search.Searcher. Scores are bleve's TF-IDF scores
// and are not comparable with the relevance searcher's scale; ties are
// broken by record ID so result order is deterministic.
func (b *BleveSearcher) Search(query string, limit int, recs []index.Record) (search.Results, error) {
	if limit <= 0 || strings.TrimSpace(query) == "" {
		return search.Results{}, nil
	}

	byID := make(map[string]index.Record, len(recs))
	for _, rec := range recs {
		byID[rec.ID] = rec
	}

	idx, err := b.ensureIndex(recs)
	if err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequestOptions(buildQuery(query), limit, 0, false)
	res, err := idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("fulltext search: %w", err)
	}

	results := make(search.Results, 0, len(res.Hits))
	for _, hit := range res.Hits {
		rec, ok := byID[hit.ID]
		if !ok {
			continue
		}
		results = append(results, search.Result{Record: rec, Score: hit.Score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Record.ID < results[j].Record.ID
	})
	return results, nil
}

// buildQuery combines boosted per-field match queries with a fuzzy
// fallback over the full search text.
func buildQuery(q string) query.Query {
	title := bleve.NewMatchQuery(q)
	title.SetField("title")
	title.SetBoost(titleBoost)

	desc := bleve.NewMatchQuery(q)
	desc.SetField("description")
	desc.SetBoost(descriptionBoost)

	keywords := bleve.NewMatchQuery(q)
	keywords.SetField("keywords")
	keywords.SetBoost(keywordBoost)

	text := bleve.NewMatchQuery(q)
	text.SetField("text")
	text.SetBoost(textBoost)

	fuzzy := bleve.NewMatchQuery(q)
	fuzzy.SetField("text")
	fuzzy.SetFuzziness(1)
	fuzzy.SetBoost(fuzzyBoost)

	return bleve.NewDisjunctionQuery(title, desc, keywords, text, fuzzy)
}

func (b *BleveSearcher) ensureIndex(recs []index.Record) (bleve.Index, error) {
	fp := fingerprint(recs)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.idx != nil && fp == b.fingerprint {
		return b.idx, nil
	}

	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create fulltext index: %w", err)
	}

	batch := idx.NewBatch()
	for _, rec := range recs {
		doc := document{
			Title:       rec.Title,
			Description: rec.Description,
			Keywords:    strings.Join(rec.Keywords, " "),
			Text:        rec.SearchableText,
		}
		if err := batch.Index(rec.ID, doc); err != nil {
			return nil, fmt.Errorf("index record %s: %w", rec.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("apply fulltext batch: %w", err)
	}

	if b.idx != nil {
		b.idx.Close()
	}
	b.idx = idx
	b.fingerprint = fp
	b.logger.Debug("fulltext index rebuilt", "records", len(recs))
	return idx, nil
}

// Close releases the underlying bleve index.
func (b *BleveSearcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.idx == nil {
		return nil
	}
	err := b.idx.Close()
	b.idx = nil
	return err
}

// fingerprint hashes record identity and search text so an unchanged
// record set maps to the same digest regardless of search order.
func fingerprint(recs []index.Record) [sha256.Size]byte {
	h := sha256.New()
	for _, rec := range recs {
		h.Write([]byte(rec.ID))
		h.Write([]byte{0})
		h.Write([]byte(rec.SearchableText))
		h.Write([]byte{0})
	}
	var out [sha256.Size]byte
	h.Sum(out[:0])
	return out
}
