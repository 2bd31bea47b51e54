package evaluator

import (
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/catalog"
)

// emit is spec.md §4.5's Phase G. Clears w, inserts every row of the final
// temp into both w and r deduplicated by _id, then drops the final temp and
// every composite pair table built along the way. Returns |r after| - |r
// before|.
func emit(e *catalog.Engine, final string, pairTables map[string]bool, w, r string) (int, error) {
	before, err := e.GetNumberOfEntries(r)
	if err != nil {
		return 0, err
	}

	seq, err := e.GetAllRecords(final)
	if err != nil {
		return 0, err
	}
	rows := materializeSeq(seq)

	if err := e.ClearTable(w); err != nil {
		return 0, err
	}
	if _, err := e.InsertUniqueRecordsByID(w, rows); err != nil {
		return 0, err
	}
	if _, err := e.InsertUniqueRecordsByID(r, rows); err != nil {
		return 0, err
	}

	names := make([]string, 0, len(pairTables)+1)
	names = append(names, final)
	for name := range pairTables {
		names = append(names, name)
	}
	dropAll(e, names...)

	after, err := e.GetNumberOfEntries(r)
	if err != nil {
		return 0, err
	}
	return after - before, nil
}
