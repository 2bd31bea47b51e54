package join

import (
	"iter"

	"github.com/Rototu/recursiveSQLDatabase/internal/record"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/catalog"
)

func ensureHashed(e *catalog.Engine, t, col string) error {
	hashed, err := e.IsTableHashed(t, col)
	if err != nil {
		return err
	}
	if hashed {
		return nil
	}
	return e.HashTable(t, col, false)
}

func materialize(seq iter.Seq[record.Record]) []record.Record {
	var out []record.Record
	for rec := range seq {
		out = append(out, rec)
	}
	return out
}

// HashJoin hashes both join columns if not already hashed, then for each
// distinct left value enumerates right values satisfying "left op right",
// emitting the projected Cartesian product of their matching record lists
// (spec.md §4.4). When withPairID, emits a composite _id
// "{left._id}|{right._id}" plus _id<left.Label>/_id<right.Label>
// provenance — the identity C5's Phase D/E intersections key on.
//
// Output is grouped by the left driver's hash iteration order then the
// right side's; no total order is promised (spec.md §4.4).
func HashJoin(e *catalog.Engine, left TableRef, c1 string, right TableRef, c2 string, proj []Projection, op catalog.CompareOp, withPairID bool) (iter.Seq[record.Record], error) {
	if err := ensureHashed(e, left.Physical, c1); err != nil {
		return nil, err
	}
	if err := ensureHashed(e, right.Physical, c2); err != nil {
		return nil, err
	}

	leftValues, err := e.IndexValues(left.Physical, c1)
	if err != nil {
		return nil, err
	}
	rightValues, err := e.IndexValues(right.Physical, c2)
	if err != nil {
		return nil, err
	}

	return func(yield func(record.Record) bool) {
		for _, v1 := range leftValues {
			leftLocs, err := e.LocatorsForValue(left.Physical, c1, v1)
			if err != nil {
				panic(err)
			}
			leftSeq, err := e.RecordsAt(left.Physical, leftLocs)
			if err != nil {
				panic(err)
			}
			leftRecs := materialize(leftSeq)

			for _, v2 := range rightValues {
				if !op.Matches(v1, v2) {
					continue
				}
				rightLocs, err := e.LocatorsForValue(right.Physical, c2, v2)
				if err != nil {
					panic(err)
				}
				rightSeq, err := e.RecordsAt(right.Physical, rightLocs)
				if err != nil {
					panic(err)
				}
				rightRecs := materialize(rightSeq)

				for _, lrec := range leftRecs {
					for _, rrec := range rightRecs {
						out := project(proj, left, right, lrec, rrec)
						if withPairID {
							out[record.IDColumn] = record.PairID(lrec[record.IDColumn], rrec[record.IDColumn])
							out[record.ProvenanceColumn(left.Label)] = lrec[record.IDColumn]
							out[record.ProvenanceColumn(right.Label)] = rrec[record.IDColumn]
						}
						if !yield(out) {
							return
						}
					}
				}
			}
		}
	}, nil
}
