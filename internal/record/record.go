package record

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// IDColumn is the reserved column holding a record's identity.
const IDColumn = "_id"

// IDPrefix is the reserved prefix for synthetic columns: "_id" itself (the
// record's identity) and "_id<TABLE>" provenance markers injected by joins.
const IDPrefix = "_id"

// Record is an ordered mapping from column name to scalar, per spec.md §3.
// Records are passed by value at API boundaries via Clone; callers must never
// mutate a Record obtained from storage in place.
type Record map[string]Value

// Clone returns a shallow copy of r: mutating the copy's columns never
// affects storage, satisfying spec.md §3's "mutation... must not affect
// storage" invariant.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ID returns the record's "_id" column, or the empty Value if unset.
func (r Record) ID() Value { return r[IDColumn] }

// IsSynthetic reports whether col is a reserved synthetic column: "_id"
// itself or an "_id<TABLE>" provenance marker.
func IsSynthetic(col string) bool { return strings.HasPrefix(col, IDPrefix) }

// DropSynthetic returns a copy of r with every synthetic column removed.
// This is the "drop_ids" operation referenced by spec.md's content-addressed
// identity round-trip (P6): ContentID(r) == ContentID of DropSynthetic(r).
func (r Record) DropSynthetic() Record {
	out := make(Record, len(r))
	for k, v := range r {
		if !IsSynthetic(k) {
			out[k] = v
		}
	}
	return out
}

// canonical is the JSON-marshalable shape of a record's non-synthetic
// content: a sorted slice of [col, kind, value] triples. encoding/json would
// already sort a map[string]Value's keys, but Value itself isn't a JSON
// scalar, so we flatten explicitly to keep the wire form stable regardless of
// future changes to Value's internals.
type canonicalField struct {
	Col  string `json:"c"`
	Kind string `json:"k"`
	Val  string `json:"v"`
}

// ContentID computes the content-addressed identity described in spec.md
// §4.5 Phase A/G: the canonical JSON text of the record with all synthetic
// columns removed. Two records with identical non-synthetic content always
// produce the same ContentID, which is exactly the set semantics Phase A/G
// rely on (insert_unique_records_by_id then dedups structurally-equal rows).
func ContentID(r Record) string {
	stripped := r.DropSynthetic()
	fields := make([]canonicalField, 0, len(stripped))
	for col, v := range stripped {
		kind := "s"
		if v.Kind() == KindInt {
			kind = "i"
		}
		fields = append(fields, canonicalField{Col: col, Kind: kind, Val: v.String()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Col < fields[j].Col })

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fields); err != nil {
		// fields is a slice of plain structs; Encode cannot fail.
		panic(err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// WithContentID returns a copy of r with "_id" set to ContentID(r).
func WithContentID(r Record) Record {
	out := r.Clone()
	out[IDColumn] = Str(ContentID(r))
	return out
}

// PairID builds the composite identity spec.md §4.4 assigns to a hash-join
// output row when with_pair_id is set: "{rec1._id}|{rec2._id}".
func PairID(left, right Value) Value {
	return Str(left.String() + "|" + right.String())
}

// ProvenanceColumn names the "_id<table>" provenance marker for table.
func ProvenanceColumn(table string) string { return IDPrefix + table }
