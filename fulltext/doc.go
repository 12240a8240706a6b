// Package fulltext provides a bleve-backed implementation of the
// search.Searcher interface. It trades the lightweight weighted
// scorer for real full-text analysis (stemming, TF-IDF ranking and
// typo-tolerant fuzzy matching) at the cost of an analysis pass over
// the record set.
//
// The bleve index lives in memory and is rebuilt lazily whenever the
// record set handed to Search changes, detected by fingerprinting the
// records.
package fulltext
