package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Target
		wantErr bool
	}{
		{name: "canonical hevc", input: "hevc", want: TargetHEVC},
		{name: "h265 alias", input: "h265", want: TargetHEVC},
		{name: "x265 alias uppercase", input: "X265", want: TargetHEVC},
		{name: "avc alias", input: "avc", want: TargetH264},
		{name: "av1", input: "av1", want: TargetAV1},
		{name: "vp9 with spaces", input: " vp9 ", want: TargetVP9},
		{name: "unknown", input: "mpeg2", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownTarget)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTargetMatches(t *testing.T) {
	assert.True(t, TargetHEVC.Matches("hevc"))
	assert.True(t, TargetHEVC.Matches("H265"))
	assert.True(t, TargetHEVC.Matches("x265"))
	assert.False(t, TargetHEVC.Matches("h264"))
	assert.False(t, TargetHEVC.Matches(""))
	assert.True(t, TargetH264.Matches("avc1"))
}

func TestJobOptionsNormalized(t *testing.T) {
	opts := JobOptions{MaxParallel: 0, Limit: -3}.Normalized()
	assert.Equal(t, TargetHEVC, opts.Target)
	assert.Equal(t, 1, opts.MaxParallel)
	assert.Equal(t, 0, opts.Limit)
	assert.Equal(t, 24, opts.CRF)
	assert.Equal(t, "medium", opts.Preset)

	opts = JobOptions{Target: TargetAV1, MaxParallel: 4, CRF: 30, Preset: "slow"}.Normalized()
	assert.Equal(t, TargetAV1, opts.Target)
	assert.Equal(t, 4, opts.MaxParallel)
	assert.Equal(t, 30, opts.CRF)
	assert.Equal(t, "slow", opts.Preset)
}

func TestSummarize(t *testing.T) {
	results := []JobResult{
		{Success: true, OriginalBytes: 3000, NewBytes: 1000},
		{Success: true, OriginalBytes: 2000, NewBytes: 1500},
		{Success: false, OriginalBytes: 500},
	}

	started := time.Now()
	sum := Summarize("run-1", "/library", TargetHEVC, started, started.Add(time.Minute), results)
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.Converted)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, int64(5500), sum.BytesIn)
	assert.Equal(t, int64(2500), sum.BytesOut)
}

func TestJobResultSpaceSaved(t *testing.T) {
	assert.Equal(t, int64(2000), JobResult{Success: true, OriginalBytes: 3000, NewBytes: 1000}.SpaceSaved())
	assert.Equal(t, int64(-500), JobResult{Success: true, OriginalBytes: 1000, NewBytes: 1500}.SpaceSaved())
	assert.Equal(t, int64(0), JobResult{Success: false, OriginalBytes: 1000}.SpaceSaved())
}
