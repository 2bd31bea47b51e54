package join

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rototu/recursiveSQLDatabase/internal/config"
	"github.com/Rototu/recursiveSQLDatabase/internal/record"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/catalog"
)

func newEngine(t *testing.T) *catalog.Engine {
	t.Helper()
	cfg := config.Default()
	cfg.PageFetchMS = 0
	cfg.PageCapacity = 2
	return catalog.NewEngine(cfg)
}

func collect(seq func(func(record.Record) bool)) []record.Record {
	var out []record.Record
	seq(func(r record.Record) bool {
		out = append(out, r)
		return true
	})
	return out
}

func TestBlockJoin_CartesianProduct(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.AddTable("a", []string{"x"}))
	require.NoError(t, e.AddTable("b", []string{"y"}))
	require.NoError(t, e.InsertRecords("a", []record.Record{{"x": record.Int(1)}, {"x": record.Int(2)}}))
	require.NoError(t, e.InsertRecords("b", []record.Record{{"y": record.Int(10)}, {"y": record.Int(20)}}))

	proj := []Projection{Col("x", "a", "x"), Col("y", "b", "y")}
	seq, err := BlockJoin(e, Self("a"), Self("b"), proj, false, 1)
	require.NoError(t, err)
	recs := collect(seq)
	require.Len(t, recs, 4)
}

func TestBlockJoin_WithPairIDEmitsProvenance(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.AddTable("a", []string{"x"}))
	require.NoError(t, e.AddTable("b", []string{"y"}))
	require.NoError(t, e.InsertRecords("a", []record.Record{{"x": record.Int(1)}}))
	require.NoError(t, e.InsertRecords("b", []record.Record{{"y": record.Int(10)}}))

	seq, err := BlockJoin(e, Self("a"), Self("b"), nil, true, 100)
	require.NoError(t, err)
	recs := collect(seq)
	require.Len(t, recs, 1)
	_, hasA := recs[0][record.ProvenanceColumn("a")]
	_, hasB := recs[0][record.ProvenanceColumn("b")]
	require.True(t, hasA)
	require.True(t, hasB)
	_, hasID := recs[0][record.IDColumn]
	require.False(t, hasID, "block join never produces a composite _id")
}

func TestHashJoin_Equality(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.AddTable("a", []string{"k"}))
	require.NoError(t, e.AddTable("b", []string{"k"}))
	require.NoError(t, e.InsertRecords("a", []record.Record{{"k": record.Int(1)}, {"k": record.Int(2)}}))
	require.NoError(t, e.InsertRecords("b", []record.Record{{"k": record.Str("1")}, {"k": record.Int(3)}}))

	proj := []Projection{Col("ak", "a", "k"), Col("bk", "b", "k")}
	seq, err := HashJoin(e, Self("a"), "k", Self("b"), "k", proj, catalog.Eq, false)
	require.NoError(t, err)
	recs := collect(seq)
	require.Len(t, recs, 1, "loose equality should match int 1 with string \"1\"")
}

func TestHashJoin_GreaterThan(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.AddTable("a", []string{"k"}))
	require.NoError(t, e.AddTable("b", []string{"k"}))
	require.NoError(t, e.InsertRecords("a", []record.Record{{"k": record.Int(5)}}))
	require.NoError(t, e.InsertRecords("b", []record.Record{{"k": record.Int(1)}, {"k": record.Int(10)}}))

	proj := []Projection{Col("ak", "a", "k"), Col("bk", "b", "k")}
	seq, err := HashJoin(e, Self("a"), "k", Self("b"), "k", proj, catalog.Gt, false)
	require.NoError(t, err)
	recs := collect(seq)
	require.Len(t, recs, 1)
	v, _ := recs[0]["bk"].Int()
	require.Equal(t, int64(1), v)
}

// P8: hash_join(A,x,B,y,'=') and hash_join(B,y,A,x,'=') yield equal
// multisets up to a mirrored projection.
func TestHashJoin_Commutative_P8(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.AddTable("a", []string{"k"}))
	require.NoError(t, e.AddTable("b", []string{"k"}))
	require.NoError(t, e.InsertRecords("a", []record.Record{{"k": record.Int(1)}, {"k": record.Int(2)}}))
	require.NoError(t, e.InsertRecords("b", []record.Record{{"k": record.Int(1)}, {"k": record.Int(2)}}))

	forward, err := HashJoin(e, Self("a"), "k", Self("b"), "k", []Projection{Col("ak", "a", "k"), Col("bk", "b", "k")}, catalog.Eq, false)
	require.NoError(t, err)
	mirrored, err := HashJoin(e, Self("b"), "k", Self("a"), "k", []Projection{Col("ak", "a", "k"), Col("bk", "b", "k")}, catalog.Eq, false)
	require.NoError(t, err)

	require.ElementsMatch(t, collect(forward), collect(mirrored))
}

func TestHashJoin_SelfJoinProducesPairID(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.AddTable("a", []string{"k"}))
	require.NoError(t, e.InsertRecords("a", []record.Record{{"k": record.Int(1)}, {"k": record.Int(2)}}))

	seq, err := HashJoin(e, Self("a"), "k", Self("a"), "k", []Projection{Col("lk", "a", "k")}, catalog.Gt, true)
	require.NoError(t, err)
	recs := collect(seq)
	require.Len(t, recs, 1, "only (2,1) satisfies k > k on the self join")
	_, ok := recs[0][record.IDColumn]
	require.True(t, ok, "with_pair_id hash join emits a composite _id")
}
