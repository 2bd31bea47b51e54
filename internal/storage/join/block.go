package join

import (
	"iter"

	"github.com/Rototu/recursiveSQLDatabase/internal/record"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/catalog"
)

// BlockJoin produces the projected Cartesian product of left x right,
// driving the outer (left) in contiguous blocks of blockSize and opening a
// fresh scan of the inner (right) per block (spec.md §4.4). When
// withPairID, also emits _id<left.Label> and _id<right.Label> provenance
// columns; no _id is produced for the composite row itself.
func BlockJoin(e *catalog.Engine, left, right TableRef, proj []Projection, withPairID bool, blockSize int) (iter.Seq[record.Record], error) {
	outer, err := e.GetAllRecords(left.Physical)
	if err != nil {
		return nil, err
	}
	if _, err := e.GetAllRecords(right.Physical); err != nil {
		return nil, err
	}

	return func(yield func(record.Record) bool) {
		next, stop := iter.Pull(outer)
		defer stop()

		for {
			block := make([]record.Record, 0, blockSize)
			for len(block) < blockSize {
				rec, ok := next()
				if !ok {
					break
				}
				block = append(block, rec)
			}
			if len(block) == 0 {
				return
			}

			inner, err := e.GetAllRecords(right.Physical)
			if err != nil {
				panic(err)
			}
			for _, outerRec := range block {
				for innerRec := range inner {
					out := project(proj, left, right, outerRec, innerRec)
					if withPairID {
						out[record.ProvenanceColumn(left.Label)] = outerRec[record.IDColumn]
						out[record.ProvenanceColumn(right.Label)] = innerRec[record.IDColumn]
					}
					if !yield(out) {
						return
					}
				}
			}
		}
	}, nil
}
