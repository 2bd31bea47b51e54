// Package page implements spec.md §4.1's Page (C1): a fixed-capacity,
// append-only record container with stable slot indices.
//
// Grounded on the teacher's storage-backend file layout (one small,
// single-purpose file per concern, e.g. internal/storage/batch.go); Page
// itself has no teacher analogue since the teacher's backends delegate
// physical layout to sqlite/dolt, but its "one page id per unit of storage"
// shape follows the same id-per-resource pattern as the teacher's
// google/uuid-keyed resources.
package page

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Rototu/recursiveSQLDatabase/internal/record"
)

// ID is a page's opaque unique identifier.
type ID string

// NewID mints a fresh, opaque page id.
func NewID() ID {
	return ID(uuid.NewString())
}

// Page holds an ordered sequence of at most capacity records. Appends beyond
// capacity fail; the caller (the table catalog) is responsible for
// consulting SpacesLeft before calling Append, per spec.md §4.1: "Failure to
// insert when full is reported as an error and is a programmer bug."
type Page struct {
	id       ID
	capacity int
	records  []record.Record
}

// New creates an empty page with the given capacity.
func New(id ID, capacity int) *Page {
	return &Page{id: id, capacity: capacity, records: make([]record.Record, 0, capacity)}
}

// ID returns the page's identifier.
func (p *Page) ID() ID { return p.id }

// Len returns the number of records currently held.
func (p *Page) Len() int { return len(p.records) }

// SpacesLeft returns how many more records the page can hold.
func (p *Page) SpacesLeft() int { return p.capacity - len(p.records) }

// Full reports whether the page has no remaining capacity.
func (p *Page) Full() bool { return p.SpacesLeft() == 0 }

// Append adds rec to the page and returns its slot index. Returns an error
// if the page is full; callers must consult SpacesLeft first, as this is a
// programmer error per spec.md §4.1, not a recoverable condition.
func (p *Page) Append(rec record.Record) (int, error) {
	if p.Full() {
		return 0, fmt.Errorf("page %s: append on full page (capacity %d)", p.id, p.capacity)
	}
	p.records = append(p.records, rec)
	return len(p.records) - 1, nil
}

// At returns a shallow copy of the record at slot: the caller's mutation of
// the returned Record's columns never reaches storage.
func (p *Page) At(slot int) (record.Record, error) {
	if slot < 0 || slot >= len(p.records) {
		return nil, fmt.Errorf("page %s: slot %d out of bounds (len %d)", p.id, slot, len(p.records))
	}
	return p.records[slot].Clone(), nil
}

// Snapshot returns a stable copy of the page's current contents: appends to
// this page after Snapshot is called do not affect the returned slice, so
// callers may safely insert into the same table while iterating a snapshot
// of another page (spec.md §4.1). Each record is a shallow copy, so mutating
// one never reaches storage.
func (p *Page) Snapshot() []record.Record {
	out := make([]record.Record, len(p.records))
	for i, rec := range p.records {
		out[i] = rec.Clone()
	}
	return out
}

// Clear resets the page to empty, freeing no memory (per spec.md §4.1's
// "clear resets length to zero, freeing no memory").
func (p *Page) Clear() {
	p.records = p.records[:0]
}
