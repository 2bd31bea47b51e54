package catalog

import "github.com/Rototu/recursiveSQLDatabase/internal/record"

// indexBucket groups every locator sharing a normalized value, keeping the
// original Value around so '>' lookups can use its scalar ordering rather
// than a string comparison (spec.md §3: "ordering for > uses the underlying
// scalar comparison").
type indexBucket struct {
	value     record.Value
	locators  []Locator
}

// hashIndex maps a column's normalized values to the locators holding them.
// Equality is the loose equality of record.Value.String — string "3" and
// integer 3 collide (spec.md §3).
type hashIndex struct {
	buckets map[string]*indexBucket
}

func newHashIndex() *hashIndex {
	return &hashIndex{buckets: make(map[string]*indexBucket)}
}

func (h *hashIndex) add(v record.Value, loc Locator) {
	key := v.String()
	b, ok := h.buckets[key]
	if !ok {
		b = &indexBucket{value: v}
		h.buckets[key] = b
	}
	b.locators = append(b.locators, loc)
}

func (h *hashIndex) has(v record.Value) bool {
	_, ok := h.buckets[v.String()]
	return ok
}

func (h *hashIndex) get(v record.Value) []Locator {
	b, ok := h.buckets[v.String()]
	if !ok {
		return nil
	}
	return b.locators
}

// greaterThan returns the concatenated locator lists of every bucket whose
// value compares greater than rhs, in unspecified order (spec.md §5: "Hash
// index key iteration order is unspecified").
func (h *hashIndex) greaterThan(rhs record.Value) []Locator {
	var out []Locator
	for _, b := range h.buckets {
		if b.value.Compare(rhs) > 0 {
			out = append(out, b.locators...)
		}
	}
	return out
}

// values returns every distinct value currently indexed, unordered.
func (h *hashIndex) values() []record.Value {
	out := make([]record.Value, 0, len(h.buckets))
	for _, b := range h.buckets {
		out = append(out, b.value)
	}
	return out
}
