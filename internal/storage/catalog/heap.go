package catalog

import (
	"container/heap"

	"github.com/Rototu/recursiveSQLDatabase/internal/storage/page"
)

// heapEntry is one snapshot of a page's free space as of the moment it was
// pushed. Entries go stale as the underlying page is written to; staleness
// is tolerated (spec.md §9's "free-space heap staleness" open question) and
// resolved lazily by the reader, never eagerly.
type heapEntry struct {
	pageID     page.ID
	spacesLeft int
}

// freeSpaceHeap is a max-heap on spacesLeft: the top is always the
// freest-known page as of its last push.
type freeSpaceHeap []heapEntry

func (h freeSpaceHeap) Len() int { return len(h) }
func (h freeSpaceHeap) Less(i, j int) bool { return h[i].spacesLeft > h[j].spacesLeft }
func (h freeSpaceHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *freeSpaceHeap) Push(x any) {
	*h = append(*h, x.(heapEntry))
}

func (h *freeSpaceHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}

func newFreeSpaceHeap() *freeSpaceHeap {
	h := &freeSpaceHeap{}
	heap.Init(h)
	return h
}

func (h *freeSpaceHeap) push(e heapEntry) { heap.Push(h, e) }
func (h *freeSpaceHeap) pop() heapEntry   { return heap.Pop(h).(heapEntry) }
func (h *freeSpaceHeap) peek() heapEntry  { return (*h)[0] }
func (h *freeSpaceHeap) len() int         { return h.Len() }
