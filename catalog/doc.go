// Package catalog loads the static content of a learning guide
// (navigation sections, content blurbs and code snippets) from a YAML
// document and exposes each domain as an indexable item source.
//
// A catalog loaded from a file can Reload itself and Watch for
// changes, reloading and notifying the caller so the search index can
// be rebuilt.
//
// # Catalog format
//
//	sections:
//	  - id: html
//	    title: HTML Alapok
//	    description: HTML struktúra és elemek
//	    category: alapok
//	content:
//	  - id: html_structure
//	    title: HTML Dokumentum Struktúra
//	    description: A HTML dokumentum alapvető felépítése
//	    body: DOCTYPE html head body meta title
//	    section: html
//	snippets:
//	  - id: margin_padding
//	    title: Margin vs Padding
//	    code: margin padding border box-model spacing
//	    language: css
//	    section: css
package catalog
