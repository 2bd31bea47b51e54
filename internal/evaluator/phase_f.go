package evaluator

import (
	"github.com/Rototu/recursiveSQLDatabase/internal/ir"
	"github.com/Rototu/recursiveSQLDatabase/internal/record"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/catalog"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/join"
)

// nonSyntheticCols is spec.md's open-question resolution for "getNonIdCols":
// get_table_keys filtered to columns that are not "_id" or "_id<table>"
// provenance markers.
func nonSyntheticCols(e *catalog.Engine, t string) ([]string, error) {
	cols, err := e.GetTableKeys(t)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if !record.IsSynthetic(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// qualifyItem gives an unqualified independent item a "label.col" schema so
// Phase F can merge items pairwise without column-name collisions between
// two source tables sharing a column name (spec.md's dataset convention
// names most base tables' columns "c1", "c2", ...).
func qualifyItem(e *catalog.Engine, it independentItem) (physical string, owned bool, err error) {
	if it.qualified {
		return it.physical, false, nil
	}
	proj, err := qualifiedProjection(e, it.physical, it.table)
	if err != nil {
		return "", false, err
	}
	seq, err := e.GetAllRecords(it.physical)
	if err != nil {
		return "", false, err
	}

	var recs []record.Record
	for rec := range seq {
		out := record.Record{}
		for _, p := range proj {
			out[p.DstCol] = rec[p.SrcCol]
		}
		recs = append(recs, out)
	}

	cols := make([]string, len(proj))
	for i, p := range proj {
		cols[i] = p.DstCol
	}
	dest := ephemeralName(it.table + "_q")
	if err := e.AddTable(dest, cols); err != nil {
		return "", false, err
	}
	if err := e.InsertRecords(dest, recs); err != nil {
		return "", false, err
	}
	return dest, true, nil
}

// crossProduct is spec.md §4.5's Phase F. With a single independent item it
// copies straight into a fresh final table, content-addressing and
// deduplicating by _id. With more than one, it block-joins them pairwise
// left to right, re-deduplicating by content _id between every step and
// dropping the previous left-hand temp, then narrows the final merge to
// term.cols under the working table's declared column names.
func crossProduct(e *catalog.Engine, items []independentItem, term ir.Term, declCols []string, blockSize int) (string, error) {
	var toDrop []string
	physicals := make([]string, len(items))
	for i, it := range items {
		qp, owned, err := qualifyItem(e, it)
		if err != nil {
			return "", err
		}
		physicals[i] = qp
		if owned {
			toDrop = append(toDrop, qp)
		}
	}

	left := physicals[0]
	for i := 1; i < len(physicals); i++ {
		right := physicals[i]
		leftCols, err := nonSyntheticCols(e, left)
		if err != nil {
			return "", err
		}
		rightCols, err := nonSyntheticCols(e, right)
		if err != nil {
			return "", err
		}

		proj := make([]join.Projection, 0, len(leftCols)+len(rightCols))
		for _, c := range leftCols {
			proj = append(proj, join.Col(c, left, c))
		}
		for _, c := range rightCols {
			proj = append(proj, join.Col(c, right, c))
		}

		seq, err := join.BlockJoin(e, join.Self(left), join.Self(right), proj, false, blockSize)
		if err != nil {
			return "", err
		}

		var recs []record.Record
		for rec := range seq {
			recs = append(recs, record.WithContentID(rec))
		}

		mergedCols := append(append([]string{}, leftCols...), rightCols...)
		merged := ephemeralName("cross")
		if err := e.AddTable(merged, mergedCols); err != nil {
			return "", err
		}
		if _, err := e.InsertUniqueRecordsByID(merged, recs); err != nil {
			return "", err
		}
		if i > 1 {
			// left is the previous step's merge temp, now fully consumed.
			_ = e.Drop(left)
		}
		left = merged
	}
	if len(physicals) > 1 {
		toDrop = append(toDrop, left)
	}

	seq, err := e.GetAllRecords(left)
	if err != nil {
		return "", err
	}

	var finalRecs []record.Record
	for rec := range seq {
		out := record.Record{}
		for i, declCol := range declCols {
			sc := term.Cols[i]
			out[declCol] = rec[sc.Table+"."+sc.Col]
		}
		finalRecs = append(finalRecs, record.WithContentID(out))
	}

	dest := ephemeralName("indep_final")
	if err := e.AddTable(dest, declCols); err != nil {
		return "", err
	}
	if _, err := e.InsertUniqueRecordsByID(dest, finalRecs); err != nil {
		return "", err
	}

	dropAll(e, toDrop...)
	return dest, nil
}
