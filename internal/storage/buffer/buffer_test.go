package buffer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Rototu/recursiveSQLDatabase/internal/storage/page"
)

func TestBuffer_HasPagePeekDoesNotPromote(t *testing.T) {
	b := New(2, 0)
	p1, p2, p3 := page.NewID(), page.NewID(), page.NewID()

	b.Touch(p1)
	b.Touch(p2)
	require.True(t, b.HasPage(p1))

	// Peeking p1 must not save it from eviction: admitting p3 should still
	// evict the least-recently-touched id, which is p1 (HasPage never
	// promotes).
	require.True(t, b.HasPage(p1))
	b.Touch(p3)

	require.False(t, b.HasPage(p1))
	require.True(t, b.HasPage(p2))
	require.True(t, b.HasPage(p3))
}

func TestBuffer_TouchPromotesOnHit(t *testing.T) {
	b := New(2, 0)
	p1, p2, p3 := page.NewID(), page.NewID(), page.NewID()

	b.Touch(p1)
	b.Touch(p2)
	b.Touch(p1) // promote p1; p2 is now the LRU victim

	b.Touch(p3)

	require.True(t, b.HasPage(p1))
	require.False(t, b.HasPage(p2))
	require.True(t, b.HasPage(p3))
}

func TestBuffer_TouchReturnsHitMiss(t *testing.T) {
	b := New(1, 0)
	id := page.NewID()

	require.False(t, b.Touch(id), "first touch of an id is always a miss")
	require.True(t, b.Touch(id), "second touch of a resident id is a hit")
}

func TestBuffer_FetchLatencyIsCharged(t *testing.T) {
	// P4: a cold touch must wall-clock-block for at least FETCH_MS.
	const fetchMS = 5.0
	b := New(4, fetchMS)

	start := time.Now()
	b.Touch(page.NewID())
	elapsed := time.Since(start)

	require.GreaterOrEqual(t, elapsed, time.Duration(fetchMS*float64(time.Millisecond)))
}

func TestBuffer_ZeroFetchLatencyDoesNotBlock(t *testing.T) {
	b := New(4, 0)
	start := time.Now()
	b.Touch(page.NewID())
	require.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestBuffer_GetPageContentsReturnsSnapshot(t *testing.T) {
	b := New(4, 0)
	p := page.New(page.NewID(), 2)
	_, err := p.Append(nil)
	require.NoError(t, err)

	contents := b.GetPageContents(p)
	require.Len(t, contents, 1)
	require.True(t, b.HasPage(p.ID()))
}

func TestBuffer_ResidentMostRecentFirst(t *testing.T) {
	b := New(3, 0)
	p1, p2 := page.NewID(), page.NewID()
	b.Touch(p1)
	b.Touch(p2)

	resident := b.Resident()
	require.Equal(t, []page.ID{p2, p1}, resident)
}

func TestBuffer_CapacityInvariant(t *testing.T) {
	b := New(2, 0)
	for i := 0; i < 5; i++ {
		b.Touch(page.NewID())
		require.LessOrEqual(t, b.Len(), 2)
	}
}
