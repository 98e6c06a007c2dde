package port

import "github.com/bnema/recode/internal/domain"

// WorkQueue hands out items in size-descending order to concurrent
// workers. Load sorts and enqueues atomically with respect to Dequeue;
// no dequeuer ever observes a partially loaded queue. There is no
// re-prioritization after load.
type WorkQueue interface {
	Load(items []domain.MediaItem)
	// Dequeue is non-blocking; ok is false when the queue is empty.
	Dequeue() (item domain.MediaItem, ok bool)
	Count() int
}
