package evaluator

import (
	"github.com/Rototu/recursiveSQLDatabase/internal/ir"
	"github.com/Rototu/recursiveSQLDatabase/internal/record"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/catalog"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/join"
)

// buildPairTables is spec.md §4.5's Phase D. For every composite pair key,
// hash-joins the two (possibly already-simplified) sides on each of the
// pair's predicates, intersects across predicates by composite _id if
// there is more than one, and leaves the pair table hashed on both
// provenance columns for Phase E.
func buildPairTables(e *catalog.Engine, cls classification, nameMap map[string]string) (map[pairKey]string, error) {
	pairTables := make(map[pairKey]string, len(cls.composite))

	for pk, ops := range cls.composite {
		var temps []string
		for _, op := range ops {
			tmp, err := joinOnePredicate(e, op, nameMap)
			if err != nil {
				return nil, err
			}
			temps = append(temps, tmp)
		}

		var dest string
		if len(temps) == 1 {
			dest = temps[0]
		} else {
			cols, err := e.GetTableKeys(temps[0])
			if err != nil {
				return nil, err
			}
			survivors, err := intersectByID(e, temps)
			if err != nil {
				return nil, err
			}
			dest = ephemeralName("pair_" + pk.String())
			if err := e.AddTable(dest, cols); err != nil {
				return nil, err
			}
			if _, err := e.InsertUniqueRecordsByID(dest, survivors); err != nil {
				return nil, err
			}
			dropAll(e, temps...)
		}

		if err := e.HashTable(dest, record.ProvenanceColumn(pk.A), true); err != nil {
			return nil, err
		}
		if err := e.HashTable(dest, record.ProvenanceColumn(pk.B), true); err != nil {
			return nil, err
		}
		pairTables[pk] = dest
	}
	return pairTables, nil
}

// joinOnePredicate hash-joins the two sides of a single composite predicate
// into a fresh temp table carrying both sides' qualified columns plus
// pair-id provenance.
func joinOnePredicate(e *catalog.Engine, op ir.Operation, nameMap map[string]string) (string, error) {
	leftLabel := op.LHS.Table
	rightLabel := op.RHS.Column.Table
	left := join.TableRef{Physical: nameMap[leftLabel], Label: leftLabel}
	right := join.TableRef{Physical: nameMap[rightLabel], Label: rightLabel}

	leftProj, err := qualifiedProjection(e, left.Physical, left.Label)
	if err != nil {
		return "", err
	}
	rightProj, err := qualifiedProjection(e, right.Physical, right.Label)
	if err != nil {
		return "", err
	}
	proj := append(leftProj, rightProj...)

	seq, err := join.HashJoin(e, left, op.LHS.Col, right, op.RHS.Column.Col, proj, toCompareOp(op.Op), true)
	if err != nil {
		return "", err
	}
	recs := materializeSeq(seq)

	cols := make([]string, 0, len(proj)+2)
	for _, p := range proj {
		cols = append(cols, p.DstCol)
	}
	cols = append(cols, record.ProvenanceColumn(leftLabel), record.ProvenanceColumn(rightLabel))

	tmp := ephemeralName(leftLabel + "_" + rightLabel + "_pred")
	if err := e.AddTable(tmp, cols); err != nil {
		return "", err
	}
	if _, err := e.InsertUniqueRecordsByID(tmp, recs); err != nil {
		return "", err
	}
	return tmp, nil
}
