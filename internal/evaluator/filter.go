package evaluator

import (
	"github.com/Rototu/recursiveSQLDatabase/internal/ir"
	"github.com/Rototu/recursiveSQLDatabase/internal/record"
)

// constructFilter compiles the subset of ops whose lhs names table into a
// row-local predicate (spec.md §4.5: "construct_filter(ops, table,
// ctx_record)"). rhs is either a constant or a column resolved from the
// same record being tested (Phase A's column-vs-column-of-the-same-row
// case). Unsupported operators are a construction-time programmer error and
// panic via toCompareOp/toValue. With zero applicable predicates the
// returned predicate always accepts.
func constructFilter(ops []ir.Operation, table string) func(record.Record) bool {
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
