package service

import (
	"sync"

	"github.com/bnema/recode/internal/domain"
)

// EventBus fans progress snapshots out to any number of subscribers.
// Slow subscribers drop updates rather than stalling the run.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan domain.JobProgress
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

func (eb *EventBus) Subscribe() chan domain.JobProgress {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan domain.JobProgress, 16)
	eb.subscribers = append(eb.subscribers, ch)
	return ch
}

func (eb *EventBus) Unsubscribe(ch chan domain.JobProgress) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for i, sub := range eb.subscribers {
		if sub == ch {
			eb.subscribers = append(eb.subscribers[:i], eb.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

func (eb *EventBus) Publish(p domain.JobProgress) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for _, ch := range eb.subscribers {
		select {
		case ch <- p:
		default:
			// Drop update if subscriber is slow
		}
	}
}
