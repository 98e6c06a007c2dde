package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/bnema/recode/internal/infrastructure/logger"
	"github.com/bnema/recode/internal/port"
)

// LogEntry is one recorded warning or error from a run.
type LogEntry struct {
	Level   string
	Message string
	Time    time.Time
}

// RunLog accumulates a run's warnings and errors and tees them to the
// process logger. One RunLog exists per Run call, so concurrent runs
// keep independent logs.
type RunLog struct {
	mu      sync.Mutex
	entries []LogEntry
}

func NewRunLog() *RunLog {
	return &RunLog{}
}

func (l *RunLog) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Warn.Print(msg)
	l.append("warning", msg)
}

func (l *RunLog) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Error.Print(msg)
	l.append("error", msg)
}

func (l *RunLog) append(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Time: time.Now()})
}

// Entries returns a copy of everything recorded so far.
func (l *RunLog) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

var _ port.Logger = (*RunLog)(nil)
