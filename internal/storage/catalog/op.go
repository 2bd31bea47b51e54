package catalog

import (
	"fmt"

	"github.com/Rototu/recursiveSQLDatabase/internal/record"
)

// CompareOp is the restricted comparison vocabulary hash lookups and joins
// support (spec.md §4.3: "unsupported operator (=/> only)... programmer
// error"). Kept distinct from internal/ir's Op so the storage layer has no
// dependency on the query layer; the evaluator translates between them.
type CompareOp int

const (
	Eq CompareOp = iota
	Gt
)

func (op CompareOp) String() string {
	switch op {
	case Eq:
		return "="
	case Gt:
		return ">"
	default:
		return fmt.Sprintf("CompareOp(%d)", int(op))
	}
}

// Matches reports whether lhs op rhs holds, under the loose equality and
// scalar ordering described in spec.md §3.
func (op CompareOp) Matches(lhs, rhs record.Value) bool {
	switch op {
	case Eq:
		return lhs.Equal(rhs)
	case Gt:
		return lhs.Compare(rhs) > 0
	default:
		panic(fmt.Sprintf("catalog: unsupported operator %v", op))
	}
}
