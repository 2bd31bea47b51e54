package evaluator

import (
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
		panic(fmt.Sprintf("evaluator: operand %v is not a constant", o))
	}
}

func toCompareOp(op ir.Op) catalog.CompareOp {
	switch op {
	case ir.OpEq:
		return catalog.Eq
	case ir.OpGt:
		return catalog.Gt
	default:
		panic(fmt.Sprintf("evaluator: unsupported operator %v", op))
	}
}

// ephemeralName mints an opaque name for a temp/simplification/pair table,
// prefixed for readability in logs and traces.
func ephemeralName(prefix string) string {
	return prefix + "_" + idgen.NanoID()
}

// qualifiedProjection builds a projection copying every declared column of
// physical into dst columns namespaced by label (label.col), so two joined
// tables can never collide on column name.
func qualifiedProjection(e *catalog.Engine, physical, label string) ([]join.Projection, error) {
	cols, err := e.GetTableKeys(physical)
	if err != nil {
		return nil, err
	}
	proj := make([]join.Projection, 0, len(cols))
	for _, c := range cols {
		proj = append(proj, join.Col(label+"."+c, label, c))
	}
	return proj, nil
}

// qualifiedCols returns the column names qualifiedProjection would produce,
// without requiring an engine round trip when the caller already has the
// declared column list.
func qualifiedCols(label string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = label + "." + c
	}
	return out
}

func dropAll(e *catalog.Engine, names ...string) {
	for _, n := range names {
		if n == "" {
			continue
		}
		_ = e.Drop(n)
	}
}
