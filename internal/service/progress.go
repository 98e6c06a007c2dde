package service

import (
	"path/filepath"
	"sync"

	"github.com/bnema/recode/internal/domain"
)

// Aggregator merges per-item trackers into one JobProgress snapshot.
// It is run-scoped: created when the conversion phase starts, discarded
// with the run, so concurrent runs never share state.
type Aggregator struct {
	mu       sync.Mutex
	total    int
	trackers map[string]*tracker
	current  string // path of the most recently updated tracker
}

type tracker struct {
	pct   float64
	speed string
	done  bool
}

func NewAggregator(total int) *Aggregator {
	return &Aggregator{
		total:    total,
		trackers: make(map[string]*tracker, total),
	}
}

// Track registers a live tracker for a dequeued item.
func (a *Aggregator) Track(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.trackers[path] = &tracker{}
}

// Update records fractional progress for one running item. Progress
// never moves backwards; stale callbacks after completion are ignored.
func (a *Aggregator) Update(path string, pct float64, speed string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	tr, ok := a.trackers[path]
	if !ok || tr.done {
		return
	}
	if pct > 100 {
		pct = 100
	}
	if pct > tr.pct {
		tr.pct = pct
	}
	if speed != "" {
		tr.speed = speed
	}
	a.current = path
}

// Complete pins a tracker at 100%. From this point its contribution
// lives entirely in the completed count, never in partial progress.
func (a *Aggregator) Complete(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	tr, ok := a.trackers[path]
	if !ok {
		tr = &tracker{}
		a.trackers[path] = tr
	}
	tr.pct = 100
	tr.done = true
}

// Snapshot computes the aggregate view:
// overall = (completed + sum(partial)) / total * 100.
func (a *Aggregator) Snapshot() domain.JobProgress {
	a.mu.Lock()
	defer a.mu.Unlock()

	p := domain.JobProgress{
		TotalItems: a.total,
		Active:     make(map[string]domain.ItemProgress),
	}

	for path, tr := range a.trackers {
		if tr.done {
			p.CompletedItems++
			continue
		}
		p.PartialProgress += tr.pct / 100
		if tr.pct > 0 {
			p.Active[path] = domain.ItemProgress{
				Percentage: tr.pct,
				Throughput: tr.speed,
			}
		}
	}

	if a.total > 0 {
		p.Percentage = (float64(p.CompletedItems) + p.PartialProgress) / float64(a.total) * 100
	}

	if tr, ok := a.trackers[a.current]; ok && !tr.done {
		p.Current = filepath.Base(a.current)
		p.Throughput = tr.speed
	}
	return p
}
