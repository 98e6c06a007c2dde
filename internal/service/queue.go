package service

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/bnema/recode/internal/domain"
	"github.com/bnema/recode/internal/port"
)

// MemoryQueue is the in-process work queue: loaded once, size-descending,
// drained concurrently by the conversion workers. A single mutex guards
// the slice; the backlog counter is atomic so Count never blocks behind
// a loader or dequeuer.
type MemoryQueue struct {
	mu      sync.Mutex
	items   []domain.MediaItem
	backlog atomic.Int64
}

func NewQueue() *MemoryQueue {
	return &MemoryQueue{}
}

// Load sorts items by size descending and appends them in one critical
// section, so a concurrent Dequeue sees either none or all of them.
func (q *MemoryQueue) Load(items []domain.MediaItem) {
	sorted := make([]domain.MediaItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Size > sorted[j].Size
	})

	q.mu.Lock()
	q.items = append(q.items, sorted...)
	q.backlog.Add(int64(len(sorted)))
	q.mu.Unlock()
}

// Dequeue pops the largest remaining item; ok is false when empty.
func (q *MemoryQueue) Dequeue() (domain.MediaItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return domain.MediaItem{}, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	q.backlog.Add(-1)
	return item, true
}

func (q *MemoryQueue) Count() int {
	return int(q.backlog.Load())
}

var _ port.WorkQueue = (*MemoryQueue)(nil)
