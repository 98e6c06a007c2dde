package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_OverallFormula(t *testing.T) {
	agg := NewAggregator(4)
	agg.Track("/a")
	agg.Track("/b")
	agg.Track("/c")

	agg.Complete("/a")
	agg.Update("/b", 50, "1.2x")
	agg.Update("/c", 25, "0.8x")

	p := agg.Snapshot()
	assert.Equal(t, 4, p.TotalItems)
	assert.Equal(t, 1, p.CompletedItems)
	assert.InDelta(t, 0.75, p.PartialProgress, 0.001)
	// (1 + 0.75) / 4 * 100
	assert.InDelta(t, 43.75, p.Percentage, 0.001)
}

func TestAggregator_CompletedNotCountedTwice(t *testing.T) {
	agg := NewAggregator(2)
	agg.Track("/a")
	agg.Update("/a", 80, "1.0x")
	agg.Complete("/a")

	p := agg.Snapshot()
	assert.Equal(t, 1, p.CompletedItems)
	assert.Equal(t, 0.0, p.PartialProgress)
	assert.NotContains(t, p.Active, "/a")
	assert.InDelta(t, 50.0, p.Percentage, 0.001)
}

func TestAggregator_UpdateAfterCompleteIgnored(t *testing.T) {
	agg := NewAggregator(1)
	agg.Track("/a")
	agg.Complete("/a")
	agg.Update("/a", 10, "0.5x")

	p := agg.Snapshot()
	assert.Equal(t, 1, p.CompletedItems)
	assert.Equal(t, 0.0, p.PartialProgress)
	assert.InDelta(t, 100.0, p.Percentage, 0.001)
}

func TestAggregator_ProgressNeverMovesBackwards(t *testing.T) {
	agg := NewAggregator(1)
	agg.Track("/a")
	agg.Update("/a", 60, "1.0x")
	agg.Update("/a", 40, "1.1x")

	p := agg.Snapshot()
	require.Contains(t, p.Active, "/a")
	assert.InDelta(t, 60.0, p.Active["/a"].Percentage, 0.001)
	// Speed still refreshes even when the percentage is stale.
	assert.Equal(t, "1.1x", p.Active["/a"].Throughput)
}

func TestAggregator_ActiveOnlyListsNonzeroProgress(t *testing.T) {
	agg := NewAggregator(3)
	agg.Track("/a")
	agg.Track("/b")
	agg.Update("/b", 10, "1.0x")

	p := agg.Snapshot()
	assert.NotContains(t, p.Active, "/a")
	assert.Contains(t, p.Active, "/b")
}

func TestAggregator_ZeroTotal(t *testing.T) {
	p := NewAggregator(0).Snapshot()
	assert.Equal(t, 0.0, p.Percentage)
	assert.Equal(t, 0, p.TotalItems)
}

func TestAggregator_MonotonicOverall(t *testing.T) {
	agg := NewAggregator(2)
	agg.Track("/a")
	agg.Track("/b")

	var last float64
	check := func() {
		p := agg.Snapshot()
		assert.GreaterOrEqual(t, p.Percentage, last)
		last = p.Percentage
	}

	agg.Update("/a", 20, "")
	check()
	agg.Update("/b", 50, "")
	check()
	agg.Update("/a", 90, "")
	check()
	agg.Complete("/a")
	check()
	agg.Complete("/b")
	check()
	assert.InDelta(t, 100.0, last, 0.001)
}

func TestAggregator_CurrentLabel(t *testing.T) {
	agg := NewAggregator(2)
	agg.Track("/lib/a.mkv")
	agg.Track("/lib/b.mkv")
	agg.Update("/lib/a.mkv", 10, "1.0x")
	agg.Update("/lib/b.mkv", 5, "0.7x")

	p := agg.Snapshot()
	assert.Equal(t, "b.mkv", p.Current)
	assert.Equal(t, "0.7x", p.Throughput)
}
