package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rototu/recursiveSQLDatabase/internal/config"
	"github.com/Rototu/recursiveSQLDatabase/internal/record"
)

func testEngine(t *testing.T, pageCapacity int) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.PageCapacity = pageCapacity
	cfg.PageFetchMS = 0
	return NewEngine(cfg)
}

func row(c1, c2 int64) record.Record {
	return record.Record{"c1": record.Int(c1), "c2": record.Int(c2)}
}

func collect(t *testing.T, seq func(func(record.Record) bool)) []record.Record {
	t.Helper()
	var out []record.Record
	seq(func(r record.Record) bool {
		out = append(out, r)
		return true
	})
	return out
}

func TestEngine_AddTableRejectsDuplicate(t *testing.T) {
	e := testEngine(t, 10)
	require.NoError(t, e.AddTable("a", []string{"c1", "c2"}))
	require.Error(t, e.AddTable("a", []string{"c1", "c2"}))
}

func TestEngine_InsertRecordsAssignsID(t *testing.T) {
	e := testEngine(t, 10)
	require.NoError(t, e.AddTable("a", []string{"c1", "c2"}))
	require.NoError(t, e.InsertRecords("a", []record.Record{row(1, 2)}))

	seq, err := e.GetAllRecords("a")
	require.NoError(t, err)
	recs := collect(t, seq)
	require.Len(t, recs, 1)
	_, ok := recs[0][record.IDColumn]
	require.True(t, ok)
}

func TestEngine_FreeSpaceHeapSpillsAcrossPages(t *testing.T) {
	// P2-adjacent: capacity-1 pages force a new page per insert.
	e := testEngine(t, 1)
	require.NoError(t, e.AddTable("a", []string{"c1"}))
	for i := int64(0); i < 3; i++ {
		require.NoError(t, e.InsertRecords("a", []record.Record{{"c1": record.Int(i)}}))
	}
	n, err := e.GetNumberOfEntries("a")
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestEngine_InsertUniqueRecordsByID_P3(t *testing.T) {
	e := testEngine(t, 10)
	require.NoError(t, e.AddTable("a", []string{"c1"}))

	rec := record.Record{"c1": record.Int(1), record.IDColumn: record.Str("fixed")}
	n1, err := e.InsertUniqueRecordsByID("a", []record.Record{rec})
	require.NoError(t, err)
	require.Equal(t, 1, n1)

	n2, err := e.InsertUniqueRecordsByID("a", []record.Record{rec})
	require.NoError(t, err)
	require.Equal(t, 0, n2, "duplicate _id must not be inserted again")

	count, err := e.GetNumberOfEntries("a")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestEngine_ClearTableDropsIndexesAndData(t *testing.T) {
	e := testEngine(t, 10)
	require.NoError(t, e.AddTable("a", []string{"c1"}))
	require.NoError(t, e.InsertRecords("a", []record.Record{{"c1": record.Int(1)}}))
	require.NoError(t, e.HashTable("a", "c1", true))

	require.NoError(t, e.ClearTable("a"))

	hashed, err := e.IsTableHashed("a", "c1")
	require.NoError(t, err)
	require.False(t, hashed)

	n, err := e.GetNumberOfEntries("a")
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestEngine_DropRemovesTable(t *testing.T) {
	e := testEngine(t, 10)
	require.NoError(t, e.AddTable("a", []string{"c1"}))
	require.NoError(t, e.Drop("a"))
	require.False(t, e.HasTable("a"))
	_, err := e.GetNumberOfEntries("a")
	require.Error(t, err)
}

func TestEngine_GetRecsFromHashEquality(t *testing.T) {
	e := testEngine(t, 10)
	require.NoError(t, e.AddTable("a", []string{"c1"}))
	require.NoError(t, e.InsertRecords("a", []record.Record{
		{"c1": record.Int(3)},
		{"c1": record.Str("3")},
		{"c1": record.Int(4)},
	}))
	require.NoError(t, e.HashTable("a", "c1", true))

	seq, err := e.GetRecsFromHash("a", "c1", Eq, record.Int(3))
	require.NoError(t, err)
	recs := collect(t, seq)
	require.Len(t, recs, 2, "loose equality: string \"3\" and int 3 collide")
}

func TestEngine_GetRecsFromHashGreaterThan(t *testing.T) {
	e := testEngine(t, 10)
	require.NoError(t, e.AddTable("a", []string{"c1"}))
	require.NoError(t, e.InsertRecords("a", []record.Record{
		{"c1": record.Int(1)},
		{"c1": record.Int(2)},
		{"c1": record.Int(3)},
	}))
	require.NoError(t, e.HashTable("a", "c1", true))

	seq, err := e.GetRecsFromHash("a", "c1", Gt, record.Int(1))
	require.NoError(t, err)
	recs := collect(t, seq)
	require.Len(t, recs, 2)
}

func TestEngine_HasValueErrorsWithoutIndex(t *testing.T) {
	e := testEngine(t, 10)
	require.NoError(t, e.AddTable("a", []string{"c1"}))
	_, err := e.HasValue("a", "c1", record.Int(1))
	require.Error(t, err)
}

func TestEngine_FilterRecords(t *testing.T) {
	e := testEngine(t, 10)
	require.NoError(t, e.AddTable("a", []string{"c1"}))
	require.NoError(t, e.InsertRecords("a", []record.Record{
		{"c1": record.Int(1)},
		{"c1": record.Int(5)},
	}))

	seq, err := e.FilterRecords("a", func(r record.Record) bool {
		v, _ := r["c1"].Int()
		return v > 2
	})
	require.NoError(t, err)
	recs := collect(t, seq)
	require.Len(t, recs, 1)
}

func TestEngine_GetTableKeysIsDefensiveCopy(t *testing.T) {
	e := testEngine(t, 10)
	require.NoError(t, e.AddTable("a", []string{"c1", "c2"}))
	keys, err := e.GetTableKeys("a")
	require.NoError(t, err)
	keys[0] = "mutated"

	keys2, err := e.GetTableKeys("a")
	require.NoError(t, err)
	require.Equal(t, "c1", keys2[0])
}

func TestEngine_CopyIntoSortedTable(t *testing.T) {
	e := testEngine(t, 10)
	require.NoError(t, e.AddTable("a", []string{"c1"}))
	require.NoError(t, e.InsertRecords("a", []record.Record{
		{"c1": record.Int(3)},
		{"c1": record.Int(1)},
		{"c1": record.Int(2)},
	}))

	dest, err := e.CopyIntoSortedTable("a", "c1")
	require.NoError(t, err)

	seq, err := e.GetAllRecords(dest)
	require.NoError(t, err)
	recs := collect(t, seq)
	require.Len(t, recs, 3)
	v0, _ := recs[0]["c1"].Int()
	v1, _ := recs[1]["c1"].Int()
	v2, _ := recs[2]["c1"].Int()
	require.Equal(t, []int64{1, 2, 3}, []int64{v0, v1, v2})
}
