// Package evaluator implements the recursive query evaluator of spec.md
// §4.5-§4.6 (C5): the Phase A-G pipeline that turns one WITH RECURSIVE
// query into a fixpoint loop over a working table W and a result table R.
// Grounded on the teacher's internal/query/evaluator.go loop shape (plan
// once, iterate to a fixed point, surface a delta count per pass) adapted
// from its dependency-closure semantics to this system's relational one.
package evaluator

import (
	"context"
	"fmt"

	"github.com/Rototu/recursiveSQLDatabase/internal/ir"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/catalog"
)

// Run executes a complete WITH RECURSIVE query against e: it runs the
// non-recursive term once to seed W and R, then re-runs the recursive term
// against the current W until a pass contributes zero new rows to R
// (spec.md §4.6's fixpoint termination), and finally drops W. Programmer
// errors surfaced as panics from within a pass (an out-of-bounds slot, a
// missing page) are converted to errors at this boundary per spec.md §7;
// errors detectable ahead of time (a missing table or index) are still
// returned normally by the phases that detect them.
func Run(ctx context.Context, e *catalog.Engine, q ir.Query, blockSize int) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("evaluator: %v", rec)
		}
	}()

	// W is named exactly q.With.Name: the recursive term's FROM-list
	// references it by that literal name (e.g. "FROM a, t").
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

	seeded, err := executeTerm(e, q.NonRecTerm, w, r, q.With.Cols, blockSize)
	if err != nil {
		return err
	}
	recordPass(ctx, seeded)

	for {
		delta, err := executeTerm(e, q.RecTerm, w, r, q.With.Cols, blockSize)
		if err != nil {
			return err
		}
		recordPass(ctx, delta)
		if delta == 0 {
			break
		}
	}

	return e.Drop(w)
}
