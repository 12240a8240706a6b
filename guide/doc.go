// Package guide assembles the search subsystem of a learning guide:
// a YAML catalog of static content, an in-memory search index, the
// query engine, a bounded search history and store-backed user notes
// and bookmarks, all behind one facade.
//
// Typical use:
//
//	cat, _ := catalog.Load("catalog.yaml")
//	g := guide.New(guide.Options{Catalog: cat})
//	if err := g.Load(ctx); err != nil { ... }
//	results, err := g.Search(ctx, "flexbox")
package guide
