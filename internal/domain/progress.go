package domain

// ItemProgress is the live state of one in-flight conversion.
type ItemProgress struct {
	Percentage float64
	Throughput string // ffmpeg speed label, e.g. "1.38x"; opaque text
}

// JobProgress is a point-in-time snapshot of the whole run. It is
// recomputed and emitted repeatedly; consumers must not mutate Active.
type JobProgress struct {
	Percentage      float64 // 0-100 across the run
	Throughput      string
	Current         string // basename of the most recently updated item
	TotalItems      int
	CompletedItems  int
	PartialProgress float64 // sum of fractional progress over running items
	Active          map[string]ItemProgress
}
