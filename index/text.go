package index

import (
	"strings"
	"unicode"

	"github.com/jonwraymond/guidesearch/item"
)

// stopWords are never indexed as keywords. The set covers common
// English and Hungarian function words since guide content mixes both
// languages.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "will": {},
	"with": {},
	// Hungarian
	"és": {}, "egy": {}, "az": {}, "vagy": {}, "de": {},
}

// SearchableText builds the lowercase concatenation of an item's text
// fields used for substring and fuzzy matching. Absent optional
// fields contribute an empty segment, never a placeholder.
func SearchableText(it item.Item) string {
	parts := []string{
		it.Title,
		it.Description,
		it.Content,
		string(it.Type),
		it.SectionID,
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// ExtractKeywords tokenizes text into deduplicated lowercase keywords:
// whitespace-split tokens with non-word runes stripped, tokens of
// length <= 2 and stop words dropped, first-seen order preserved.
//
// The function is idempotent: re-extracting from its own output joined
// by spaces yields the same keywords.
func ExtractKeywords(text string) []string {
	fields := strings.Fields(text)

	keywords := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))

	for _, field := range fields {
		word := stripNonWord(strings.ToLower(field))
		if len([]rune(word)) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}

	return keywords
}

// stripNonWord removes every rune that is not a letter, digit or
// underscore. Letters are kept per codepoint so accented Hungarian
// words survive intact.
func stripNonWord(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
