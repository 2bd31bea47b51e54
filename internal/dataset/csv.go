// Package dataset implements SPEC_FULL.md §4.8's generators: a CSV loader,
// a random graph generator, and a random permutation generator, all
// producing []record.Record ready for Engine.InsertRecords.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"

	"github.com/Rototu/recursiveSQLDatabase/internal/record"
)

// LoadCSV reads UTF-8, comma-separated, unquoted, headerless CSV rows from
// r (spec.md §6.3), naming columns c1..cn positionally. Each row's _id is
// content-addressed from the row before the scale cut is applied, then
// only the first round(n*scalePercent/100) rows (in file order) are
// returned.
func LoadCSV(r io.Reader, scalePercent int) ([]record.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var all []record.Record
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: reading csv: %w", err)
		}

		rec := make(record.Record, len(fields))
		for i, f := range fields {
			rec[fmt.Sprintf("c%d", i+1)] = record.ParseValue(f)
		}
		all = append(all, record.WithContentID(rec))
	}

	n := len(all)
	keep := int(math.Round(float64(n*scalePercent) / 100))
	if keep > n {
		keep = n
	}
	if keep < 0 {
		keep = 0
	}
	return all[:keep], nil
}
