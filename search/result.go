package search

import (
	"github.com/jonwraymond/guidesearch/index"
	"github.com/jonwraymond/guidesearch/item"
)

// Result is a scored search hit.
type Result struct {
	// Record is the indexed record that matched.
	Record index.Record

	// Score is the relevance score; higher ranks earlier.
	Score float64
}

// Results is an ordered slice of Result with helper methods.
type Results []Result

// IDs returns just the item IDs, in rank order.
func (r Results) IDs() []string {
	ids := make([]string, len(r))
	for i, result := range r {
		ids[i] = result.Record.ID
	}
	return ids
}

// Items returns just the underlying items, in rank order.
func (r Results) Items() []item.Item {
	items := make([]item.Item, len(r))
	for i, result := range r {
		items[i] = result.Record.Item
	}
	return items
}

// FilterByType returns results whose item type matches t.
func (r Results) FilterByType(t item.Type) Results {
	var filtered Results
	for _, result := range r {
		if result.Record.Type == t {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

// FilterBySection returns results associated with the given section.
func (r Results) FilterBySection(sectionID string) Results {
	var filtered Results
	for _, result := range r {
		if result.Record.SectionID == sectionID {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

// FilterByMinScore returns results with score >= minScore.
func (r Results) FilterByMinScore(minScore float64) Results {
	var filtered Results
	for _, result := range r {
		if result.Score >= minScore {
			filtered = append(filtered, result)
		}
	}
	return filtered
}
