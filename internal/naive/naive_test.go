package naive

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

// TestRun_S1_TrivialReflexiveClosure matches internal/evaluator's S1 case;
// the two strategies must agree on the final set.
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

// TestRun_PermutationMatchesOptimized cross-checks against the same
// transitive-closure-of-a-4-cycle scenario internal/evaluator covers,
// confirming both strategies agree (spec.md's S5 "verify by an independent
// naive closure").
func TestRun_PermutationMatchesOptimized(t *testing.T) {
	e := testEngine(t)
	seedTable(t, e, "a", []string{"c1", "c2"}, [][2]int64{{1, 2}, {2, 3}, {3, 4}, {4, 1}})

	src := `WITH RECURSIVE t(c1,c2) AS (
		SELECT * FROM a UNION SELECT t.c1, a.c2 FROM a, t WHERE t.c2 = a.c1
	) SELECT * INTO n FROM t;`
	q, err := parse.ParseQuery(src)
	require.NoError(t, err)

	require.NoError(t, Run(context.Background(), e, q, 8))

	got := pairSet(t, e, "n")
	require.Len(t, got, 16)
}

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
