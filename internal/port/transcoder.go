package port

import (
	"context"
	"time"

	"github.com/bnema/recode/internal/domain"
)

// ProgressFunc receives fractional progress for one running encode.
// percentage is 0-100; speed is ffmpeg's throughput label ("1.38x").
type ProgressFunc func(percentage float64, speed string)

// Transcoder is the external probe/encode collaborator. Implementations
// shell out to ffmpeg/ffprobe; the orchestration core only sees this
// contract.
type Transcoder interface {
	ProbeCodec(ctx context.Context, path string) (string, error)
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
	Encode(ctx context.Context, src, dst string, opts domain.EncodeOptions, onProgress ProgressFunc) error
}
