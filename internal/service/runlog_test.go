package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLog_RecordsEntries(t *testing.T) {
	l := NewRunLog()
	l.Warnf("probe failed for %s", "a.mkv")
	l.Errorf("convert %s: %s", "b.mkv", "exit status 1")

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "warning", entries[0].Level)
	assert.Equal(t, "probe failed for a.mkv", entries[0].Message)
	assert.Equal(t, "error", entries[1].Level)
	assert.Contains(t, entries[1].Message, "exit status 1")
	assert.False(t, entries[0].Time.IsZero())
}

func TestRunLog_EntriesReturnsCopy(t *testing.T) {
	l := NewRunLog()
	l.Warnf("one")

	entries := l.Entries()
	entries[0].Message = "mutated"
	assert.Equal(t, "one", l.Entries()[0].Message)
}

func TestRunLog_ConcurrentAppends(t *testing.T) {
	l := NewRunLog()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Warnf("w")
			l.Errorf("e")
		}()
	}
	wg.Wait()
	assert.Len(t, l.Entries(), 40)
}
