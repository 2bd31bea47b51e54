// Package catalog implements spec.md §4.3's Table Catalog (C3): per-table
// page management, the free-space priority queue, and per-column hash
// indexes, all exposed through an explicit Engine value (spec.md §9's
// redesign flag replacing a process-wide singleton).
//
// Grounded on the teacher's storage backends (internal/storage/*): one
// package per storage concern, table-like types exposing CRUD plus a
// handful of query primitives, errors returned rather than logged inline.
package catalog

import "github.com/Rototu/recursiveSQLDatabase/internal/storage/page"

// Locator is a durable address of a record within a table: the page that
// holds it and its slot within that page. Stable until the table is
// cleared (spec.md's GLOSSARY).
type Locator struct {
	Page page.ID
	Slot int
}
