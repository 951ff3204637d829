package core

import (
	"sync"
)

const (
	defaultQueueCap     = 16
	compactMinCap       = 64 // Don't compact if capacity is less than this
	compactShrinkFactor = 4  // Trigger compaction when len < cap/4
)

// TaskQueue is the ordered collection of pending work items.
// Implementations must be safe for concurrent use.
type TaskQueue interface {
	Push(item WorkItem)
	Pop() (WorkItem, bool)
	Len() int
	IsEmpty() bool
	// ForEach calls fn for every pending item, in queue order, over a snapshot.
	// fn may push to the queue without deadlocking.
	ForEach(fn func(item WorkItem))
	// Drain removes and returns every pending item.
	Drain() []WorkItem
	MaybeCompact()
}

// =============================================================================
// FIFOTaskQueue
// =============================================================================

type FIFOTaskQueue struct {
	mu    sync.Mutex
	items []WorkItem
}

var _ TaskQueue = (*FIFOTaskQueue)(nil)

func NewFIFOTaskQueue() *FIFOTaskQueue {
	return &FIFOTaskQueue{
		items: make([]WorkItem, 0, defaultQueueCap),
	}
}

func (q *FIFOTaskQueue) Push(item WorkItem) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, item)
}

func (q *FIFOTaskQueue) Pop() (WorkItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}

	item := q.items[0]
	// Zero out the element in the underlying array to prevent memory leak
	q.items[0] = nil
	q.items = q.items[1:]
	q.maybeCompactLocked()

	return item, true
}

func (q *FIFOTaskQueue) ForEach(fn func(item WorkItem)) {
	q.mu.Lock()
	snapshot := make([]WorkItem, len(q.items))
	copy(snapshot, q.items)
	q.mu.Unlock()

	for _, item := range snapshot {
		fn(item)
	}
}

func (q *FIFOTaskQueue) Drain() []WorkItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}
	drained := q.items
	q.items = make([]WorkItem, 0, defaultQueueCap)
	return drained
}

func (q *FIFOTaskQueue) MaybeCompact() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.maybeCompactLocked()
}

func (q *FIFOTaskQueue) maybeCompactLocked() {
	n := len(q.items)
	c := cap(q.items)

	if c < compactMinCap {
		return
	}
	if n == 0 {
		q.items = make([]WorkItem, 0, defaultQueueCap)
		return
	}
	if n*compactShrinkFactor >= c {
		return
	}

	newCap := max(max(c/2, defaultQueueCap), n)

	newSlice := make([]WorkItem, n, newCap)
	copy(newSlice, q.items)
	q.items = newSlice
}

func (q *FIFOTaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *FIFOTaskQueue) IsEmpty() bool {
	return q.Len() == 0
}

