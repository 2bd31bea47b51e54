package catalog

import (
	"fmt"
	"iter"

	"github.com/Rototu/recursiveSQLDatabase/internal/idgen"
	"github.com/Rototu/recursiveSQLDatabase/internal/record"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/buffer"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/page"
)

// table is a named collection of pages plus the catalog metadata described
// in spec.md §3: a column list, an insertion-ordered page set, a free-space
// max-heap, and per-column hash indexes.
type table struct {
	name     string
	cols     []string
	capacity int

	pages    []*page.Page
	byID     map[page.ID]*page.Page
	free     *freeSpaceHeap
	indexes  map[string]*hashIndex
}

func newTable(name string, cols []string, capacity int) *table {
	t := &table{
		name:     name,
		cols:     append([]string(nil), cols...),
		capacity: capacity,
		byID:     make(map[page.ID]*page.Page),
		free:     newFreeSpaceHeap(),
		indexes:  make(map[string]*hashIndex),
	}
	t.addPage()
	return t
}

func (t *table) addPage() *page.Page {
	p := page.New(page.NewID(), t.capacity)
	t.pages = append(t.pages, p)
	t.byID[p.ID()] = p
	t.free.push(heapEntry{pageID: p.ID(), spacesLeft: p.SpacesLeft()})
	return p
}

// mostFreePage returns a non-full page to write into, repairing stale
// free-space entries lazily as it pops them (spec.md §9: "repair lazily at
// the top on read, not eagerly").
func (t *table) mostFreePage() *page.Page {
	for t.free.len() > 0 {
		top := t.free.peek()
		p := t.byID[top.pageID]
		if p.SpacesLeft() != top.spacesLeft || p.Full() {
			t.free.pop()
			continue
		}
		return p
	}
	return t.addPage()
}

func ensureID(tableName string, rec record.Record) record.Record {
	if _, ok := rec[record.IDColumn]; ok {
		return rec
	}
	out := rec.Clone()
	out[record.IDColumn] = record.Str(tableName + ":" + idgen.NanoID())
	return out
}

// insert places recs into the table, assigning "{t}:{nanoid}" ids to any
// record missing one. Does not touch hash indexes or enforce _id
// uniqueness (spec.md §4.3, §9: "index maintenance on insert_records").
func (t *table) insert(recs []record.Record) {
	for _, rec := range recs {
		rec = ensureID(t.name, rec)
		p := t.mostFreePage()
		if _, err := p.Append(rec); err != nil {
			panic(fmt.Errorf("catalog: table %s: %w", t.name, err))
		}
		t.free.push(heapEntry{pageID: p.ID(), spacesLeft: p.SpacesLeft()})
	}
}

// insertUniqueByID ensures an _id index exists, skips records whose _id is
// already present, and incrementally maintains the _id index for accepted
// records. Returns the number of records actually inserted.
func (t *table) insertUniqueByID(buf *buffer.Buffer, recs []record.Record) int {
	idx, ok := t.indexes[record.IDColumn]
	if !ok {
		idx = newHashIndex()
		t.indexes[record.IDColumn] = idx
		t.rebuildIndex(buf, record.IDColumn, idx)
	}

	accepted := 0
	for _, rec := range recs {
		rec = ensureID(t.name, rec)
		id := rec[record.IDColumn]
		if idx.has(id) {
			continue
		}
		p := t.mostFreePage()
		slot, err := p.Append(rec)
		if err != nil {
			panic(fmt.Errorf("catalog: table %s: %w", t.name, err))
		}
		t.free.push(heapEntry{pageID: p.ID(), spacesLeft: p.SpacesLeft()})
		idx.add(id, Locator{Page: p.ID(), Slot: slot})
		accepted++
	}
	return accepted
}

// clear empties every page in place, re-heapifies the free-space queue, and
// discards every hash index on the table (spec.md §4.3).
func (t *table) clear() {
	for _, p := range t.pages {
		p.Clear()
	}
	t.free = newFreeSpaceHeap()
	for _, p := range t.pages {
		t.free.push(heapEntry{pageID: p.ID(), spacesLeft: p.SpacesLeft()})
	}
	t.indexes = make(map[string]*hashIndex)
}

// rebuildIndex scans every page of the table via the buffer, recording a
// locator per (page, slot) under its column value.
func (t *table) rebuildIndex(buf *buffer.Buffer, col string, idx *hashIndex) {
	for _, p := range t.pages {
		contents := buf.GetPageContents(p)
		for slot, rec := range contents {
			v, ok := rec[col]
			if !ok {
				continue
			}
			idx.add(v, Locator{Page: p.ID(), Slot: slot})
		}
	}
}

// hashOn builds or reuses the index on col. fresh forces a full rebuild;
// otherwise an existing index is left as-is (spec.md §4.3's "extends" is
// read as "build once, reuse until the caller explicitly asks for fresh").
func (t *table) hashOn(buf *buffer.Buffer, col string, fresh bool) {
	if !fresh {
		if _, ok := t.indexes[col]; ok {
			return
		}
	}
	idx := newHashIndex()
	t.rebuildIndex(buf, col, idx)
	t.indexes[col] = idx
}

func (t *table) isHashed(col string) bool {
	_, ok := t.indexes[col]
	return ok
}

func (t *table) hasValue(col string, v record.Value) (bool, error) {
	idx, ok := t.indexes[col]
	if !ok {
		return false, fmt.Errorf("catalog: table %s has no index on %s", t.name, col)
	}
	return idx.has(v), nil
}

// locatorsFor resolves a hash lookup into locators, without touching the
// buffer.
func (t *table) locatorsFor(col string, op CompareOp, rhs record.Value) ([]Locator, error) {
	idx, ok := t.indexes[col]
	if !ok {
		return nil, fmt.Errorf("catalog: table %s has no index on %s", t.name, col)
	}
	switch op {
	case Eq:
		return idx.get(rhs), nil
	case Gt:
		return idx.greaterThan(rhs), nil
	default:
		return nil, fmt.Errorf("catalog: unsupported operator %v", op)
	}
}

func (t *table) recordAt(buf *buffer.Buffer, loc Locator) (record.Record, error) {
	p, ok := t.byID[loc.Page]
	if !ok {
		return nil, fmt.Errorf("catalog: table %s has no page %s", t.name, loc.Page)
	}
	contents := buf.GetPageContents(p)
	if loc.Slot < 0 || loc.Slot >= len(contents) {
		return nil, fmt.Errorf("catalog: table %s: slot %d out of bounds on page %s", t.name, loc.Slot, loc.Page)
	}
	return contents[loc.Slot], nil
}

// allRecords yields every record in page-insertion then slot order.
func (t *table) allRecords(buf *buffer.Buffer) iter.Seq[record.Record] {
	return func(yield func(record.Record) bool) {
		for _, p := range t.pages {
			for _, rec := range buf.GetPageContents(p) {
				if !yield(rec) {
					return
				}
			}
		}
	}
}

func (t *table) filtered(buf *buffer.Buffer, pred func(record.Record) bool) iter.Seq[record.Record] {
	return func(yield func(record.Record) bool) {
		for rec := range t.allRecords(buf) {
			if pred(rec) && !yield(rec) {
				return
			}
		}
	}
}

func (t *table) fromLocators(buf *buffer.Buffer, locs []Locator) iter.Seq[record.Record] {
	return func(yield func(record.Record) bool) {
		for _, loc := range locs {
			rec, err := t.recordAt(buf, loc)
			if err != nil {
				panic(err)
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// numberOfEntries computes PAGE_CAP * pages - sum(spaces_left) directly
// from live pages, which is always consistent with reality (spec.md §4.3).
func (t *table) numberOfEntries() int {
	total := 0
	for _, p := range t.pages {
		total += p.Len()
	}
	return total
}

func (t *table) keys() []string {
	return append([]string(nil), t.cols...)
}
