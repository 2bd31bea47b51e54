package evaluator

import (
	"github.com/Rototu/recursiveSQLDatabase/internal/ir"
)

// pairKey canonicalizes an unordered pair of table names as a sorted
// 2-tuple (spec.md §9: "model as an unordered pair type with a derived
// ordered key for map storage" — rather than the source's JSON-of-a-tuple
// trick). A == B is a valid pairKey: the self-join case.
type pairKey struct {
	A, B string
}

func newPairKey(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{A: a, B: b}
}

func (p pairKey) String() string { return p.A + "|" + p.B }

// classification is the result of Phase B: term.ops partitioned into
// per-table simple predicates, per-pair composite predicates, and the
// tables appearing in neither.
type classification struct {
	simple    map[string][]ir.Operation
	composite map[pairKey][]ir.Operation
	noOps     []string
}

// classify partitions term.ops per spec.md §4.5's Phase B.
func classify(term ir.Term) classification {
	cls := classification{
		simple:    make(map[string][]ir.Operation),
		composite: make(map[pairKey][]ir.Operation),
	}

	// The grammar has no table aliasing (§6.2's <tables> is a bare list of
	// distinct names), so a predicate referencing the same table on both
	// sides can only mean "compare two columns of the same row" — it is a
	// per-table (row-local) constraint, not a join between two rows of that
	// table. Only a predicate naming two genuinely distinct tables is a
	// true composite (cross-row) join.
	touched := make(map[string]bool)
	for _, op := range term.Ops {
		lhsTable := op.LHS.Table
		touched[lhsTable] = true
		if op.RHS.Kind == ir.OperandColumn && op.RHS.Column.Table != lhsTable {
			rhsTable := op.RHS.Column.Table
			touched[rhsTable] = true
			pk := newPairKey(lhsTable, rhsTable)
			cls.composite[pk] = append(cls.composite[pk], op)
			continue
		}
		cls.simple[lhsTable] = append(cls.simple[lhsTable], op)
	}

	for _, t := range term.Tables {
		if !touched[t] {
			cls.noOps = append(cls.noOps, t)
		}
	}
	return cls
}

// pairGraph returns, for every composite pair key, the set of adjacent pair
// keys (pairs sharing a source table) plus the source table shared with
// each neighbor, per spec.md Phase E's "undirected pair graph whose nodes
// are pair keys and whose edges connect pair keys sharing a source table."
type pairEdge struct {
	to     pairKey
	source string
}

func buildPairGraph(pairs []pairKey) map[pairKey][]pairEdge {
	bySource := make(map[string][]pairKey)
	for _, pk := range pairs {
		bySource[pk.A] = append(bySource[pk.A], pk)
		if pk.B != pk.A {
			bySource[pk.B] = append(bySource[pk.B], pk)
		}
	}

	graph := make(map[pairKey][]pairEdge)
	for source, sharing := range bySource {
		for i := range sharing {
			for j := range sharing {
				if i == j {
					continue
				}
				graph[sharing[i]] = append(graph[sharing[i]], pairEdge{to: sharing[j], source: source})
			}
		}
	}
	return graph
}
