package search

import (
	"sort"
	"strings"

	"github.com/jonwraymond/guidesearch/index"
)

// Searcher ranks indexed records against a query. The index-backed
// engine uses [RelevanceSearcher] by default; alternative strategies
// (such as the Bleve-backed searcher in the fulltext package) plug in
// through this interface.
type Searcher interface {
	// Search scores records against query and returns at most limit
	// results, highest score first. The limit is a hard truncation
	// applied after full scoring and sorting.
	Search(query string, limit int, recs []index.Record) (Results, error)
}

// RelevanceSearcher scores records with a weighted combination of
// exact, partial, keyword and fuzzy matches. Each contribution is
// scaled by the item's weight:
//
//	full query substring of title        3.0
//	each query word substring of title   2.0
//	full query substring of description  2.0
//	full query substring of search text  1.0
//	each query word as exact keyword     0.5
//	fuzzy subsequence ratio              0.3
//
// Records scoring zero are excluded. Equal scores keep the input
// order, so repeated searches over the same records are byte-stable.
type RelevanceSearcher struct{}

// Search implements Searcher.
func (RelevanceSearcher) Search(query string, limit int, recs []index.Record) (Results, error) {
	if limit <= 0 {
		return Results{}, nil
	}

	lower := strings.ToLower(query)
	words := strings.Fields(lower)

	scored := make(Results, 0, len(recs))
	for _, rec := range recs {
		score := relevanceScore(rec, lower, words)
		if score > 0 {
			scored = append(scored, Result{Record: rec, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func relevanceScore(rec index.Record, query string, queryWords []string) float64 {
	weight := float64(rec.Weight)
	title := strings.ToLower(rec.Title)
	text := rec.SearchableText

	var score float64

	// Exact title match
	if strings.Contains(title, query) {
		score += weight * 3
	}

	// Partial title match, additive per query word
	for _, word := range queryWords {
		if strings.Contains(title, word) {
			score += weight * 2
		}
	}

	// Description match
	if rec.Description != "" && strings.Contains(strings.ToLower(rec.Description), query) {
		score += weight * 2
	}

	// Content match
	if strings.Contains(text, query) {
		score += weight
	}

	// Keyword matches, exact token only
	for _, word := range queryWords {
		if rec.HasKeyword(word) {
			score += weight * 0.5
		}
	}

	// Fuzzy bonus for typo tolerance
	score += FuzzyScore(query, text) * weight * 0.3

	return score
}

// FuzzyScore returns 1.0 when text contains query as a substring,
// otherwise the ratio of query runes matched by a greedy in-order
// subsequence scan of text. A rune that cannot be found leaves the
// cursor in place so later runes may still match.
//
// Both arguments are compared as-is; callers normalize case.
func FuzzyScore(query, text string) float64 {
	if query == "" {
		return 0
	}
	if strings.Contains(text, query) {
		return 1
	}

	textRunes := []rune(text)
	queryRunes := []rune(query)

	matches := 0
	cursor := 0
	for _, qr := range queryRunes {
		if found := indexOfRune(textRunes, qr, cursor); found >= 0 {
			matches++
			cursor = found + 1
		}
	}

	return float64(matches) / float64(len(queryRunes))
}

// indexOfRune returns the first position of r in runes at or after
// from, or -1.
func indexOfRune(runes []rune, r rune, from int) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
