// Package join implements spec.md §4.4's Join Engine (C4): block
// nested-loop join and hash join, both exposed as lazy pull-iterators over
// the table catalog (spec.md §9: "never as an eager materialization, or P4
// and benchmark validity break").
package join

import (
	"fmt"

	"github.com/Rototu/recursiveSQLDatabase/internal/record"
)

// TableRef names both where to actually read data (Physical, an engine
// table name that may be a simplified or renamed stand-in) and the logical
// name data drawn from it should be attributed to (Label). The two diverge
// whenever the evaluator has swapped in a simplification or pair table for
// an original query table: provenance columns and projections still need
// to read as if the original table were the source.
type TableRef struct {
	Physical string
	Label    string
}

// Self builds a TableRef whose physical and logical names are identical.
func Self(name string) TableRef { return TableRef{Physical: name, Label: name} }

// Projection names a destination column and the (label, column) it is
// drawn from. Labels, not physical engine table names, are what a
// projection matches against, so callers can rename a table mid-query
// without having to rewrite every projection referencing it.
type Projection struct {
	DstCol   string
	SrcTable string
	SrcCol   string
}

// Col builds a Projection that copies srcLabel.srcCol into dstCol.
func Col(dstCol, srcLabel, srcCol string) Projection {
	return Projection{DstCol: dstCol, SrcTable: srcLabel, SrcCol: srcCol}
}

func project(proj []Projection, left, right TableRef, leftRec, rightRec record.Record) record.Record {
	out := make(record.Record, len(proj))
	for _, p := range proj {
		switch p.SrcTable {
		case left.Label:
			out[p.DstCol] = leftRec[p.SrcCol]
		case right.Label:
			out[p.DstCol] = rightRec[p.SrcCol]
		default:
			panic(fmt.Sprintf("join: projection references unknown source table %q", p.SrcTable))
		}
	}
	return out
}
