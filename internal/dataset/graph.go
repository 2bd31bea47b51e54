package dataset

import (
	"math/rand/v2"

	"github.com/Rototu/recursiveSQLDatabase/internal/record"
)

// RandomGraph generates edgeCount random directed edges (c1=from, c2=to)
// over the node range [0,n), using math/rand/v2 (no comparable generator
// found anywhere in the example pack; a documented stdlib choice).
func RandomGraph(n, edgeCount int) []record.Record {
	edges := make([]record.Record, edgeCount)
	for i := range edges {
		from := rand.IntN(n)
		to := rand.IntN(n)
		edges[i] = record.Record{
			"c1": record.Int(int64(from)),
			"c2": record.Int(int64(to)),
		}
	}
	return edges
}

// RandomPermutation returns a Fisher-Yates shuffle of [0,n) as (idx, val)
// pairs.
func RandomPermutation(n int) []record.Record {
	vals := make([]int, n)
	for i := range vals {
		vals[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		vals[i], vals[j] = vals[j], vals[i]
	}

	out := make([]record.Record, n)
	for idx, v := range vals {
		out[idx] = record.Record{
			"c1": record.Int(int64(idx)),
			"c2": record.Int(int64(v)),
		}
	}
	return out
}
