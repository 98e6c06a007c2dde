package domain

import (
	"runtime"
	"time"
)

// JobOptions controls one batch run.
type JobOptions struct {
	Target             Target
	UseAcceleration    bool
	MaxParallel        int
	Limit              int    // 0 = no limit
	ListOnly           bool
	OutputRoot         string // "" = replace sources in place
	PreserveTimestamps bool
	CRF                int
	Preset             string
}

// Normalized returns a copy with invalid fields clamped to usable values.
func (o JobOptions) Normalized() JobOptions {
	if o.Target == "" {
		o.Target = TargetHEVC
	}
	if o.MaxParallel < 1 {
		o.MaxParallel = 1
	}
	if o.Limit < 0 {
		o.Limit = 0
	}
	if o.CRF <= 0 {
		o.CRF = 24
	}
	if o.Preset == "" {
		o.Preset = "medium"
	}
	return o
}

// EncodeOptions is what the transcoder needs for a single encode.
// Duration is the probed length of the source, used to turn ffmpeg's
// out_time into a percentage.
type EncodeOptions struct {
	Target          Target
	UseAcceleration bool
	CRF             int
	Preset          string
	Duration        time.Duration
}

// JobResult is the outcome of one processed item. Failures are carried
// here rather than as errors so one bad file never aborts the batch.
type JobResult struct {
	Success       bool          `json:"success"`
	ErrorMessage  string        `json:"error_message,omitempty"`
	SourcePath    string        `json:"source_path"`
	DestPath      string        `json:"dest_path,omitempty"`
	Elapsed       time.Duration `json:"elapsed"`
	OriginalBytes int64         `json:"original_bytes"`
	NewBytes      int64         `json:"new_bytes"`
}

// SpaceSaved returns how many bytes the conversion shaved off. Negative
// means the output grew.
func (r JobResult) SpaceSaved() int64 {
	if !r.Success || r.NewBytes == 0 {
		return 0
	}
	return r.OriginalBytes - r.NewBytes
}

// RunSummary aggregates a finished run for history and reports.
type RunSummary struct {
	ID         string    `json:"id"`
	Root       string    `json:"root"`
	Target     Target    `json:"target"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Total      int       `json:"total"`
	Converted  int       `json:"converted"`
	Failed     int       `json:"failed"`
	BytesIn    int64     `json:"bytes_in"`
	BytesOut   int64     `json:"bytes_out"`
}

// Summarize folds a result set into a RunSummary. Listing-only results
// carry no output bytes and count as converted.
func Summarize(id, root string, target Target, started, finished time.Time, results []JobResult) RunSummary {
	sum := RunSummary{
		ID:         id,
		Root:       root,
		Target:     target,
		StartedAt:  started,
		FinishedAt: finished,
		Total:      len(results),
	}
	for _, r := range results {
		if r.Success {
			sum.Converted++
		} else {
			sum.Failed++
		}
		sum.BytesIn += r.OriginalBytes
		sum.BytesOut += r.NewBytes
	}
	return sum
}

// DefaultInspectParallel is the probe fan-out cap: twice the hardware
// parallelism, since probes are cheap and mostly I/O bound.
func DefaultInspectParallel() int {
	return 2 * runtime.NumCPU()
}
