package catalog

import (
	"fmt"
	"iter"
	"sort"

	"github.com/Rototu/recursiveSQLDatabase/internal/config"
	"github.com/Rototu/recursiveSQLDatabase/internal/idgen"
	"github.com/Rototu/recursiveSQLDatabase/internal/record"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/buffer"
)

// Engine is the explicit, non-global catalog+buffer value spec.md §9 asks
// for in place of a process-wide singleton: "re-architect as an explicit
// Engine value threaded through the evaluator".
type Engine struct {
	buf          *buffer.Buffer
	tables       map[string]*table
	pageCapacity int
}

// NewEngine constructs an Engine from the process configuration.
func NewEngine(cfg config.Config) *Engine {
	return &Engine{
		buf:          buffer.New(cfg.BufferCapacity, cfg.PageFetchMS),
		tables:       make(map[string]*table),
		pageCapacity: cfg.PageCapacity,
	}
}

func (e *Engine) lookup(name string) (*table, error) {
	t, ok := e.tables[name]
	if !ok {
		return nil, fmt.Errorf("catalog: no such table %q", name)
	}
	return t, nil
}

// AddTable creates an empty table with one empty page. Fails if name exists.
func (e *Engine) AddTable(name string, cols []string) error {
	if _, exists := e.tables[name]; exists {
		return fmt.Errorf("catalog: table %q already exists", name)
	}
	e.tables[name] = newTable(name, cols, e.pageCapacity)
	return nil
}

// HasTable reports whether name currently names a live table.
func (e *Engine) HasTable(name string) bool {
	_, ok := e.tables[name]
	return ok
}

// InsertRecords places recs into t, assigning ids to any record lacking
// one. Does not enforce _id uniqueness or maintain any hash index.
func (e *Engine) InsertRecords(t string, recs []record.Record) error {
	tb, err := e.lookup(t)
	if err != nil {
		return err
	}
	tb.insert(recs)
	return nil
}

// InsertUniqueRecordsByID inserts only records whose _id is not already
// present, maintaining the _id index incrementally. Returns the count of
// records actually inserted.
func (e *Engine) InsertUniqueRecordsByID(t string, recs []record.Record) (int, error) {
	tb, err := e.lookup(t)
	if err != nil {
		return 0, err
	}
	return tb.insertUniqueByID(e.buf, recs), nil
}

// ClearTable clears every page of t in place, re-heapifies its free-space
// queue, and discards all of its hash indexes.
func (e *Engine) ClearTable(t string) error {
	tb, err := e.lookup(t)
	if err != nil {
		return err
	}
	tb.clear()
	return nil
}

// Drop clears then removes all state for t.
func (e *Engine) Drop(t string) error {
	tb, err := e.lookup(t)
	if err != nil {
		return err
	}
	tb.clear()
	delete(e.tables, t)
	return nil
}

// HashTable builds (fresh=true) or reuses (fresh=false) the hash index on
// (t, col).
func (e *Engine) HashTable(t, col string, fresh bool) error {
	tb, err := e.lookup(t)
	if err != nil {
		return err
	}
	tb.hashOn(e.buf, col, fresh)
	return nil
}

// IsTableHashed reports whether (t, col) currently has a hash index.
func (e *Engine) IsTableHashed(t, col string) (bool, error) {
	tb, err := e.lookup(t)
	if err != nil {
		return false, err
	}
	return tb.isHashed(col), nil
}

// HasValue reports whether v is present in the existing (t, col) index.
// Errors if the index does not exist.
func (e *Engine) HasValue(t, col string, v record.Value) (bool, error) {
	tb, err := e.lookup(t)
	if err != nil {
		return false, err
	}
	return tb.hasValue(col, v)
}

// GetRecsFromHash is a lazy stream over the records matching "col op rhs"
// via the existing (t, col) index. Errors eagerly if the table or index is
// missing, or if the operator is unsupported (only Eq and Gt are), since
// that can only happen from a programming mistake in the caller (spec.md §7).
func (e *Engine) GetRecsFromHash(t, col string, op CompareOp, rhs record.Value) (iter.Seq[record.Record], error) {
	tb, err := e.lookup(t)
	if err != nil {
		return nil, err
	}
	locs, err := tb.locatorsFor(col, op, rhs)
	if err != nil {
		return nil, err
	}
	return tb.fromLocators(e.buf, locs), nil
}

// FilterRecords is a lazy full scan of t with a host-supplied predicate.
func (e *Engine) FilterRecords(t string, pred func(record.Record) bool) (iter.Seq[record.Record], error) {
	tb, err := e.lookup(t)
	if err != nil {
		return nil, err
	}
	return tb.filtered(e.buf, pred), nil
}

// GetAllRecords is a lazy full scan of t in page-insertion order.
func (e *Engine) GetAllRecords(t string) (iter.Seq[record.Record], error) {
	tb, err := e.lookup(t)
	if err != nil {
		return nil, err
	}
	return tb.allRecords(e.buf), nil
}

// GetNumberOfEntries returns the count of live records in t.
func (e *Engine) GetNumberOfEntries(t string) (int, error) {
	tb, err := e.lookup(t)
	if err != nil {
		return 0, err
	}
	return tb.numberOfEntries(), nil
}

// GetTableKeys returns a defensive copy of t's column list.
func (e *Engine) GetTableKeys(t string) ([]string, error) {
	tb, err := e.lookup(t)
	if err != nil {
		return nil, err
	}
	return tb.keys(), nil
}

// IndexValues returns the distinct values currently indexed on (t, col),
// unordered. Used by the join engine to drive hash-join's per-value loop.
func (e *Engine) IndexValues(t, col string) ([]record.Value, error) {
	tb, err := e.lookup(t)
	if err != nil {
		return nil, err
	}
	idx, ok := tb.indexes[col]
	if !ok {
		return nil, fmt.Errorf("catalog: table %s has no index on %s", t, col)
	}
	return idx.values(), nil
}

// LocatorsForValue returns the locators stored under v in the (t, col)
// index, or nil if v is absent.
func (e *Engine) LocatorsForValue(t, col string, v record.Value) ([]Locator, error) {
	tb, err := e.lookup(t)
	if err != nil {
		return nil, err
	}
	idx, ok := tb.indexes[col]
	if !ok {
		return nil, fmt.Errorf("catalog: table %s has no index on %s", t, col)
	}
	return idx.get(v), nil
}

// RecordsAt resolves a list of locators against t into a lazy stream,
// through the buffer.
func (e *Engine) RecordsAt(t string, locs []Locator) (iter.Seq[record.Record], error) {
	tb, err := e.lookup(t)
	if err != nil {
		return nil, err
	}
	return tb.fromLocators(e.buf, locs), nil
}

// CopyIntoSortedTable creates a new table with t's column list, (re)hashes
// t on col, and inserts t's records key by key in ascending order. Returns
// the new table's opaque name.
func (e *Engine) CopyIntoSortedTable(t, col string) (string, error) {
	tb, err := e.lookup(t)
	if err != nil {
		return "", err
	}
	tb.hashOn(e.buf, col, true)
	idx := tb.indexes[col]

	values := idx.values()
	sort.Slice(values, func(i, j int) bool { return values[i].Compare(values[j]) < 0 })

	dest := t + "_sorted_" + idgen.NanoID()
	if err := e.AddTable(dest, tb.keys()); err != nil {
		return "", err
	}
	destTable := e.tables[dest]
	for _, v := range values {
		locs := idx.get(v)
		for rec := range tb.fromLocators(e.buf, locs) {
			destTable.insert([]record.Record{rec})
		}
	}
	return dest, nil
}
