package evaluator

import (
	"github.com/Rototu/recursiveSQLDatabase/internal/ir"
	"github.com/Rototu/recursiveSQLDatabase/internal/record"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/catalog"
)

// simplifyTables is spec.md §4.5's Phase C. Returns name_map: every table
// named in term.Tables maps to itself unless it carried simple predicates,
// in which case it maps to a fresh simplification table holding only the
// rows surviving every one of its predicates.
func simplifyTables(e *catalog.Engine, term ir.Term, cls classification) (map[string]string, error) {
	nameMap := make(map[string]string, len(term.Tables))
	for _, t := range term.Tables {
		nameMap[t] = t
	}

	for t, ops := range cls.simple {
		cols, err := e.GetTableKeys(t)
		if err != nil {
			return nil, err
		}

		var temps []string
		for _, op := range ops {
			var recs []record.Record
			if op.RHS.Kind == ir.OperandColumn {
				// Column-vs-column against the same row: no index can help,
				// scan with a row-local predicate instead.
				seq, err := e.FilterRecords(t, constructFilter([]ir.Operation{op}, t))
				if err != nil {
					return nil, err
				}
				recs = materializeSeq(seq)
			} else {
				if err := e.HashTable(t, op.LHS.Col, false); err != nil {
					return nil, err
				}
				seq, err := e.GetRecsFromHash(t, op.LHS.Col, toCompareOp(op.Op), toValue(op.RHS))
				if err != nil {
					return nil, err
				}
				recs = materializeSeq(seq)
			}

			tp := ephemeralName(t + "_pred")
			if err := e.AddTable(tp, cols); err != nil {
				return nil, err
			}
			if _, err := e.InsertUniqueRecordsByID(tp, recs); err != nil {
				return nil, err
			}
			temps = append(temps, tp)
		}

		sName := ephemeralName(t + "_simpl")
		if err := e.AddTable(sName, cols); err != nil {
			return nil, err
		}

		if len(temps) == 1 {
			seq, err := e.GetAllRecords(temps[0])
			if err != nil {
				return nil, err
			}
			if err := e.InsertRecords(sName, materializeSeq(seq)); err != nil {
				return nil, err
			}
		} else {
			survivors, err := intersectByID(e, temps)
			if err != nil {
				return nil, err
			}
			if _, err := e.InsertUniqueRecordsByID(sName, survivors); err != nil {
				return nil, err
			}
		}

		dropAll(e, temps...)
		nameMap[t] = sName
	}
	return nameMap, nil
}

// intersectByID keeps every record of temps[0] whose _id is present in
// every other table of temps, the intersection pattern spec.md §4.5's
// Phase C/D share.
func intersectByID(e *catalog.Engine, temps []string) ([]record.Record, error) {
	seq, err := e.GetAllRecords(temps[0])
	if err != nil {
		return nil, err
	}

	var survivors []record.Record
	for rec := range seq {
		id := rec[record.IDColumn]
		keep := true
		for _, other := range temps[1:] {
			has, err := e.HasValue(other, record.IDColumn, id)
			if err != nil {
				return nil, err
			}
			if !has {
				keep = false
				break
			}
		}
		if keep {
			survivors = append(survivors, rec)
		}
	}
	return survivors, nil
}
