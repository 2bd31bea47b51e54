package evaluator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rototu/recursiveSQLDatabase/internal/config"
	"github.com/Rototu/recursiveSQLDatabase/internal/parse"
	"github.com/Rototu/recursiveSQLDatabase/internal/record"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/catalog"
)

func testEngine(t *testing.T) *catalog.Engine {
	t.Helper()
	cfg := config.Default()
	cfg.PageFetchMS = 0
	cfg.PageCapacity = 4
	cfg.BufferCapacity = 8
	return catalog.NewEngine(cfg)
}

func seedTable(t *testing.T, e *catalog.Engine, name string, cols []string, pairs [][2]int64) {
	t.Helper()
	require.NoError(t, e.AddTable(name, cols))
	var recs []record.Record
	for _, p := range pairs {
		recs = append(recs, record.Record{cols[0]: record.Int(p[0]), cols[1]: record.Int(p[1])})
	}
	require.NoError(t, e.InsertRecords(name, recs))
}

func pairSet(t *testing.T, e *catalog.Engine, table string) map[[2]int64]bool {
	t.Helper()
	seq, err := e.GetAllRecords(table)
	require.NoError(t, err)
	out := make(map[[2]int64]bool)
	for rec := range seq {
		c1, _ := rec["c1"].Int()
		c2, _ := rec["c2"].Int()
		out[[2]int64{c1, c2}] = true
	}
	return out
}

// TestRun_S1_TrivialReflexiveClosure is spec.md's scenario S1.
func TestRun_S1_TrivialReflexiveClosure(t *testing.T) {
	e := testEngine(t)
	seedTable(t, e, "a", []string{"c1", "c2"}, [][2]int64{{1, 2}, {2, 3}})

	src := `WITH RECURSIVE t(c1,c2) AS (
		SELECT * FROM a UNION SELECT a.c1, t.c2 FROM a, t WHERE t.c1 = a.c2
	) SELECT * INTO n FROM t;`
	q, err := parse.ParseQuery(src)
	require.NoError(t, err)

	require.NoError(t, Run(context.Background(), e, q, 8))

	got := pairSet(t, e, "n")
	want := map[[2]int64]bool{{1, 2}: true, {2, 3}: true, {1, 3}: true}
	require.Equal(t, want, got)
}

// TestRun_S2_FixpointTerminatesAtZeroDelta feeds a recursive term that can
// never add a new row (no matching predicate), so the loop must terminate
// after exactly one recursive pass contributing zero rows.
func TestRun_S2_FixpointTerminatesAtZeroDelta(t *testing.T) {
	e := testEngine(t)
	seedTable(t, e, "a", []string{"c1", "c2"}, [][2]int64{{1, 2}})

	src := `WITH RECURSIVE t(c1,c2) AS (
		SELECT * FROM a UNION SELECT a.c1, t.c2 FROM a, t WHERE t.c1 = 999
	) SELECT * INTO n FROM t;`
	q, err := parse.ParseQuery(src)
	require.NoError(t, err)

	require.NoError(t, Run(context.Background(), e, q, 8))

	got := pairSet(t, e, "n")
	require.Equal(t, map[[2]int64]bool{{1, 2}: true}, got)
}

// TestRun_PermutationTransitiveClosure chains a permutation's successor
// edges into full transitive closure, exercising a longer fixpoint run.
func TestRun_PermutationTransitiveClosure(t *testing.T) {
	e := testEngine(t)
	seedTable(t, e, "a", []string{"c1", "c2"}, [][2]int64{{1, 2}, {2, 3}, {3, 4}, {4, 1}})

	src := `WITH RECURSIVE t(c1,c2) AS (
		SELECT * FROM a UNION SELECT t.c1, a.c2 FROM a, t WHERE t.c2 = a.c1
	) SELECT * INTO n FROM t;`
	q, err := parse.ParseQuery(src)
	require.NoError(t, err)

	require.NoError(t, Run(context.Background(), e, q, 8))

	got := pairSet(t, e, "n")
	require.Len(t, got, 16) // complete 4-cycle closure: every ordered pair reachable
}

// TestRun_NonRecursiveOnlySelectsMatchingRows exercises Phase A alone (no
// recursive growth at all) with a WHERE clause on the seed term.
func TestRun_NonRecursiveOnlySelectsMatchingRows(t *testing.T) {
	e := testEngine(t)
	seedTable(t, e, "a", []string{"c1", "c2"}, [][2]int64{{1, 2}, {5, 9}})

	src := `WITH RECURSIVE t(c1,c2) AS (
		SELECT * FROM a WHERE a.c1 = 1 UNION SELECT a.c1, t.c2 FROM a, t WHERE t.c1 = 999
	) SELECT * INTO n FROM t;`
	q, err := parse.ParseQuery(src)
	require.NoError(t, err)

	require.NoError(t, Run(context.Background(), e, q, 8))

	got := pairSet(t, e, "n")
	require.Equal(t, map[[2]int64]bool{{1, 2}: true}, got)
}

// TestRun_DropsWorkingTableAtFixpoint confirms spec.md §9's lifecycle rule:
// W is dropped once the loop terminates.
func TestRun_DropsWorkingTableAtFixpoint(t *testing.T) {
	e := testEngine(t)
	seedTable(t, e, "a", []string{"c1", "c2"}, [][2]int64{{1, 2}})

	src := `WITH RECURSIVE t(c1,c2) AS (
		SELECT * FROM a UNION SELECT a.c1, t.c2 FROM a, t WHERE t.c1 = 999
	) SELECT * INTO n FROM t;`
	q, err := parse.ParseQuery(src)
	require.NoError(t, err)

	require.NoError(t, Run(context.Background(), e, q, 8))
	require.False(t, e.HasTable("t"))
}
