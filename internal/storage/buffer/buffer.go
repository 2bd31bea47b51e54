// Package buffer implements spec.md §4.2's Page Buffer (C2): a fixed-size
// LRU residency tracker that charges a configurable simulated fetch latency
// on admission. The buffer never stores record data itself — pages remain
// owned by the table catalog regardless of buffer residency (spec.md §4.2's
// "correctness never depends on residency") — it only tracks *which* page
// ids are currently "hot" and pays for admitting a cold one.
//
// Grounded on the teacher's internal/storage/dolt/store.go instrumentation
// pattern: package-level otel.Meter(...) instruments
// (metric.Int64Counter/metric.Float64Histogram) recorded inline at the call
// site, rather than a separate metrics-wrapper type.
package buffer

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/Rototu/recursiveSQLDatabase/internal/record"
	"github.com/Rototu/recursiveSQLDatabase/internal/storage/page"
)

var meter = otel.Meter("github.com/Rototu/recursiveSQLDatabase/storage/buffer")

var (
	bufferHits, _   = meter.Int64Counter("buffer.hits", metric.WithDescription("page buffer admissions that found the page already resident"))
	bufferMisses, _ = meter.Int64Counter("buffer.misses", metric.WithDescription("page buffer admissions that had to pay fetch latency"))
	fetchLatencyMs, _ = meter.Float64Histogram("buffer.fetch_latency_ms", metric.WithDescription("simulated fetch latency charged per buffer miss"), metric.WithUnit("ms"))
)

// Clock abstracts time.Now for deterministic latency tests.
type Clock func() time.Time

// Buffer is a fixed-capacity LRU set of resident page ids.
type Buffer struct {
	lru      *simplelru.LRU[page.ID, struct{}]
	fetchMS  float64
	now      Clock
}

// New creates a Buffer with the given capacity (BUF_CAP) and simulated
// per-miss fetch latency in milliseconds (FETCH_MS).
func New(capacity int, fetchMS float64) *Buffer {
	lru, err := simplelru.NewLRU[page.ID, struct{}](capacity, nil)
	if err != nil {
		// capacity <= 0; a programmer error in engine construction.
		panic(err)
	}
	return &Buffer{lru: lru, fetchMS: fetchMS, now: time.Now}
}

// HasPage reports whether id is currently resident, without affecting LRU
// order ("peek" semantics — spec.md §4.2: "has_page uses peek semantics").
func (b *Buffer) HasPage(id page.ID) bool {
	return b.lru.Contains(id)
}

// Touch ensures id is resident, promoting it to most-recently-used. On a
// miss it busy-waits for FETCH_MS (a monotonic-clock spin, per spec.md §4.2:
// "the latency is the contract, not the mechanism") before admitting the
// page, evicting the LRU victim if the buffer is at capacity. Returns true
// on a hit, false on a miss.
func (b *Buffer) Touch(id page.ID) bool {
	ctx := context.Background()
	if _, ok := b.lru.Get(id); ok {
		bufferHits.Add(ctx, 1)
		return true
	}
	b.busyWait()
	bufferMisses.Add(ctx, 1)
	fetchLatencyMs.Record(ctx, b.fetchMS)
	b.lru.Add(id, struct{}{})
	return false
}

// busyWait spins until at least fetchMS milliseconds of monotonic wall time
// have elapsed. A spin rather than time.Sleep so the latency cannot be
// optimized away or silently rescheduled off-thread by the Go scheduler
// (spec.md §5: "implementations must not optimize it away or schedule it
// off-thread").
func (b *Buffer) busyWait() {
	if b.fetchMS <= 0 {
		return
	}
	d := time.Duration(b.fetchMS * float64(time.Millisecond))
	start := b.now()
	for b.now().Sub(start) < d {
		// deliberately empty: the wait itself is the observable effect.
	}
}

// GetPageContents ensures p's page is resident (charging latency on a miss)
// and returns a fresh snapshot of its contents. The snapshot is captured
// after residency is ensured so a page evicted and silently re-admitted
// between two iterators never crashes a caller mid-iteration (spec.md §5's
// "Eviction races").
func (b *Buffer) GetPageContents(p *page.Page) []record.Record {
	b.Touch(p.ID())
	return p.Snapshot()
}

// Len reports the number of currently resident page ids.
func (b *Buffer) Len() int { return b.lru.Len() }

// Resident returns a defensive copy of the currently resident page ids, most
// recently used first. Exposed for P5 (LRU semantics) property tests.
func (b *Buffer) Resident() []page.ID {
	keys := b.lru.Keys()
	out := make([]page.ID, len(keys))
	// simplelru.Keys returns least-recently-used first; reverse for MRU-first.
	for i, k := range keys {
		out[len(keys)-1-i] = k
	}
	return out
}
