package fulltext

import (
	"testing"

	"github.com/jonwraymond/guidesearch/index"
	"github.com/jonwraymond/guidesearch/item"
)

func testRecords(t *testing.T) []index.Record {
	t.Helper()
	items := []item.Item{
		{ID: "css_flexbox", Type: item.TypeContent, Title: "Flexbox Layout", Description: "CSS Flexbox használata", Content: "display flex justify-content align-items", SectionID: "css", Weight: 8},
		{ID: "css_grid", Type: item.TypeContent, Title: "Grid Layout", Description: "CSS Grid rendszer", Content: "display grid template columns rows", SectionID: "css", Weight: 8},
		{ID: "section_html", Type: item.TypeSection, Title: "HTML Alapok", Description: "HTML struktúra és elemek", Content: "alapok", SectionID: "html", Weight: 10},
	}
	recs := make([]index.Record, 0, len(items))
	for _, it := range items {
		recs = append(recs, index.NewRecord(it))
	}
	return recs
}

func TestSearch(t *testing.T) {
	s := NewBleveSearcher()
	defer s.Close()
	recs := testRecords(t)

	results, err := s.Search("flexbox", 10, recs)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one hit for flexbox")
	}
	if results[0].Record.ID != "css_flexbox" {
		t.Errorf("expected css_flexbox first, got %s", results[0].Record.ID)
	}
	for _, r := range results {
		if r.Score <= 0 {
			t.Errorf("hit %s has non-positive score %v", r.Record.ID, r.Score)
		}
	}
}

func TestSearch_NoMatch(t *testing.T) {
	s := NewBleveSearcher()
	defer s.Close()

	results, err := s.Search("kvantummechanika", 10, testRecords(t))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no hits, got %d", len(results))
	}
}

func TestSearch_Limit(t *testing.T) {
	s := NewBleveSearcher()
	defer s.Close()

	results, err := s.Search("layout", 1, testRecords(t))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) > 1 {
		t.Errorf("expected at most 1 hit, got %d", len(results))
	}
}

func TestSearch_ZeroLimitAndBlankQuery(t *testing.T) {
	s := NewBleveSearcher()
	defer s.Close()
	recs := testRecords(t)

	if results, err := s.Search("layout", 0, recs); err != nil || len(results) != 0 {
		t.Errorf("zero limit: got %d results, err %v", len(results), err)
	}
	if results, err := s.Search("   ", 10, recs); err != nil || len(results) != 0 {
		t.Errorf("blank query: got %d results, err %v", len(results), err)
	}
}

func TestIndexReuseAndRebuild(t *testing.T) {
	s := NewBleveSearcher()
	defer s.Close()
	recs := testRecords(t)

	if _, err := s.Search("layout", 10, recs); err != nil {
		t.Fatalf("first search failed: %v", err)
	}
	first := s.idx

	// Unchanged record set keeps the same underlying index.
	if _, err := s.Search("html", 10, recs); err != nil {
		t.Fatalf("second search failed: %v", err)
	}
	if s.idx != first {
		t.Error("unchanged records should reuse the bleve index")
	}

	// A changed record set triggers a rebuild and finds new content.
	extra := append(recs, index.NewRecord(item.Item{
		ID: "js_basics", Type: item.TypeContent, Title: "JavaScript Alapok",
		Description: "Változók és típusok", Content: "var let const typeof", Weight: 8,
	}))
	results, err := s.Search("javascript", 10, extra)
	if err != nil {
		t.Fatalf("search after change failed: %v", err)
	}
	if s.idx == first {
		t.Error("changed records should rebuild the bleve index")
	}
	if len(results) == 0 || results[0].Record.ID != "js_basics" {
		t.Errorf("expected js_basics hit, got %+v", results.IDs())
	}
}
