// Package naive implements the "standard" evaluator (SPEC_FULL.md §4.13,
// S1): a deliberately unoptimized baseline for the benchmark CLI to compare
// against the recursive evaluator. It shares C5's block-join primitive
// (internal/storage/join) and its overall Phase-A/semi-naive-fixpoint
// driver shape, but none of its indexing or join-tree machinery: every
// non-trivial term is evaluated by block-joining all of its tables
// pairwise left to right, filtering the merged record, then projecting.
//
// Grounded on the teacher's query evaluator (internal/query/evaluator.go)
// for the driver shape, same as internal/evaluator.
package naive

import (
	"context"
	"fmt"
	"iter"

	"github.com/Rototu/recursiveSQLDatabase/internal/idgen"
	"github.com/Rototu/recursiveSQLDatabase/internal/ir"
	"github.com/Rototu/recursiveSQLDatabase/internal/record"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/catalog"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/join"
)

func materializeSeq(seq iter.Seq[record.Record]) []record.Record {
	var out []record.Record
	for rec := range seq {
		out = append(out, rec)
	}
	return out
}

func toValue(o ir.Operand) record.Value {
	switch o.Kind {
	case ir.OperandInt:
		return record.Int(o.Int)
	case ir.OperandString:
		return record.Str(o.Str)
	default:
		panic(fmt.Sprintf("naive: operand %v is not a constant", o))
	}
}

func toCompareOp(op ir.Op) catalog.CompareOp {
	switch op {
	case ir.OpEq:
		return catalog.Eq
	case ir.OpGt:
		return catalog.Gt
	default:
		panic(fmt.Sprintf("naive: unsupported operator %v", op))
	}
}

// executeSelectStar mirrors internal/evaluator's Phase A: a bare "SELECT *
// FROM t" scans, filters row-locally, content-addresses, and replaces W/R.
func executeSelectStar(e *catalog.Engine, term ir.Term, w, r string) (int, error) {
	source := term.Tables[0]
	pred := rowFilter(term.Ops, source)

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

// rowFilter compiles every op whose lhs names table into a row-local
// predicate over un-qualified columns (used only for Phase A's single-table
// case).
func rowFilter(ops []ir.Operation, table string) func(record.Record) bool {
	var relevant []ir.Operation
	for _, op := range ops {
		if op.LHS.Table == table {
			relevant = append(relevant, op)
		}
	}
	return func(rec record.Record) bool {
		for _, op := range relevant {
			lhsVal, ok := rec[op.LHS.Col]
			if !ok {
				return false
			}
			var rhsVal record.Value
			if op.RHS.Kind == ir.OperandColumn {
				v, ok := rec[op.RHS.Column.Col]
				if !ok {
					return false
				}
				rhsVal = v
			} else {
				rhsVal = toValue(op.RHS)
			}
			if !toCompareOp(op.Op).Matches(lhsVal, rhsVal) {
				return false
			}
		}
		return true
	}
}

// qualifiedRowFilter compiles every op of term against a fully-qualified
// merged record (every column named "table.col"), the shape a multi-table
// naive join produces.
func qualifiedRowFilter(ops []ir.Operation) func(record.Record) bool {
	return func(rec record.Record) bool {
		for _, op := range ops {
			lhsVal, ok := rec[op.LHS.Table+"."+op.LHS.Col]
			if !ok {
				return false
			}
			var rhsVal record.Value
			if op.RHS.Kind == ir.OperandColumn {
				v, ok := rec[op.RHS.Column.Table+"."+op.RHS.Column.Col]
				if !ok {
					return false
				}
				rhsVal = v
			} else {
				rhsVal = toValue(op.RHS)
			}
			if !toCompareOp(op.Op).Matches(lhsVal, rhsVal) {
				return false
			}
		}
		return true
	}
}

func ephemeralName(prefix string) string {
	return prefix + "_" + idgen.NanoID()
}

// executeJoinTerm block-joins every table in term.Tables pairwise left to
// right with no hashing or simplification, applies term.Ops as a single
// row-local predicate over the fully-qualified merged record, projects to
// declCols, content-addresses, clears w, and inserts into both w and r.
func executeJoinTerm(e *catalog.Engine, term ir.Term, w, r string, declCols []string, blockSize int) (int, error) {
	var toDrop []string
	left, owned, err := qualify(e, term.Tables[0])
	if err != nil {
		return 0, err
	}
	if owned {
		toDrop = append(toDrop, left)
	}

	for i := 1; i < len(term.Tables); i++ {
		right, owned, err := qualify(e, term.Tables[i])
		if err != nil {
			return 0, err
		}
		if owned {
			toDrop = append(toDrop, right)
		}

		leftCols, err := e.GetTableKeys(left)
		if err != nil {
			return 0, err
		}
		rightCols, err := e.GetTableKeys(right)
		if err != nil {
			return 0, err
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
			return 0, err
		}
		recs := materializeSeq(seq)

		mergedCols := append(append([]string{}, leftCols...), rightCols...)
		merged := ephemeralName("njoin")
		if err := e.AddTable(merged, mergedCols); err != nil {
			return 0, err
		}
		if err := e.InsertRecords(merged, recs); err != nil {
			return 0, err
		}
		toDrop = append(toDrop, merged)
		left = merged
	}

	pred := qualifiedRowFilter(term.Ops)
	seq, err := e.GetAllRecords(left)
	if err != nil {
		return 0, err
	}

	var finalRecs []record.Record
	for rec := range seq {
		if !pred(rec) {
			continue
		}
		out := record.Record{}
		for i, declCol := range declCols {
			sc := term.Cols[i]
			out[declCol] = rec[sc.Table+"."+sc.Col]
		}
		finalRecs = append(finalRecs, record.WithContentID(out))
	}

	for _, name := range toDrop {
		_ = e.Drop(name)
	}

	before, err := e.GetNumberOfEntries(r)
	if err != nil {
		return 0, err
	}
	if err := e.ClearTable(w); err != nil {
		return 0, err
	}
	if _, err := e.InsertUniqueRecordsByID(w, finalRecs); err != nil {
		return 0, err
	}
	if _, err := e.InsertUniqueRecordsByID(r, finalRecs); err != nil {
		return 0, err
	}
	after, err := e.GetNumberOfEntries(r)
	if err != nil {
		return 0, err
	}
	return after - before, nil
}

// qualify copies t's records into a fresh "t.col"-qualified table so a
// self-referencing join (the recursive table joined with a base table
// sharing its column names) never collides on column name. owned reports
// whether the caller must drop the returned table.
func qualify(e *catalog.Engine, t string) (physical string, owned bool, err error) {
	cols, err := e.GetTableKeys(t)
	if err != nil {
		return "", false, err
	}
	qualCols := make([]string, len(cols))
	for i, c := range cols {
		qualCols[i] = t + "." + c
	}

	seq, err := e.GetAllRecords(t)
	if err != nil {
		return "", false, err
	}
	var recs []record.Record
	for rec := range seq {
		out := record.Record{}
		for _, c := range cols {
			out[t+"."+c] = rec[c]
		}
		recs = append(recs, out)
	}

	dest := ephemeralName(t + "_q")
	if err := e.AddTable(dest, qualCols); err != nil {
		return "", false, err
	}
	if err := e.InsertRecords(dest, recs); err != nil {
		return "", false, err
	}
	return dest, true, nil
}

// executeTerm dispatches a term to Phase A or the naive join path.
func executeTerm(e *catalog.Engine, term ir.Term, w, r string, declCols []string, blockSize int) (int, error) {
	if term.IsSelectStar() {
		return executeSelectStar(e, term, w, r)
	}
	return executeJoinTerm(e, term, w, r, declCols, blockSize)
}

// Run drives q to a fixpoint against e using the naive strategy, the same
// semi-naive shape as internal/evaluator.Run.
func Run(ctx context.Context, e *catalog.Engine, q ir.Query, blockSize int) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("naive: %v", rec)
		}
	}()

	w := q.With.Name
	r := q.ResultTableName

	if err := e.AddTable(w, q.With.Cols); err != nil {
		return err
	}
	if !e.HasTable(r) {
		if err := e.AddTable(r, q.With.Cols); err != nil {
			return err
		}
	}

	if _, err := executeTerm(e, q.NonRecTerm, w, r, q.With.Cols, blockSize); err != nil {
		return err
	}
	recordPass(ctx)

	for {
		delta, err := executeTerm(e, q.RecTerm, w, r, q.With.Cols, blockSize)
		if err != nil {
			return err
		}
		recordPass(ctx)
		if delta == 0 {
			break
		}
	}

	return e.Drop(w)
}
