package evaluator

import (
	"github.com/Rototu/recursiveSQLDatabase/internal/ir"
	"github.com/Rototu/recursiveSQLDatabase/internal/record"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/catalog"
)

// executeSelectStar is spec.md §4.5's Phase A. Scans the sole table in
// term.Tables, applies a row-local filter compiled from term.Ops,
// content-addresses each accepted row's _id, clears w, and inserts the
// accepted rows into both w and r via insert_unique_records_by_id. Returns
// |r after| - |r before|.
func executeSelectStar(e *catalog.Engine, term ir.Term, w, r string) (int, error) {
	source := term.Tables[0]
	pred := constructFilter(term.Ops, source)

	seq, err := e.GetAllRecords(source)
	if err != nil {
		return 0, err
	}

	var accepted []record.Record
	for rec := range seq {
		if pred(rec) {
			accepted = append(accepted, record.WithContentID(rec))
		}
	}

	before, err := e.GetNumberOfEntries(r)
	if err != nil {
		return 0, err
	}
	if err := e.ClearTable(w); err != nil {
		return 0, err
	}
	if _, err := e.InsertUniqueRecordsByID(w, accepted); err != nil {
		return 0, err
	}
	if _, err := e.InsertUniqueRecordsByID(r, accepted); err != nil {
		return 0, err
	}
	after, err := e.GetNumberOfEntries(r)
	if err != nil {
		return 0, err
	}
	return after - before, nil
}
