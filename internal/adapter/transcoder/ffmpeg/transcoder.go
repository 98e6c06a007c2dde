// Package ffmpeg implements the probe/encode collaborator by shelling
// out to ffprobe and ffmpeg.
package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/recode/internal/domain"
	"github.com/bnema/recode/internal/port"
)

type Transcoder struct {
	ffmpegBin  string
	ffprobeBin string
}

func New() *Transcoder {
	return &Transcoder{
		ffmpegBin:  "ffmpeg",
		ffprobeBin: "ffprobe",
	}
}

// --- ffprobe JSON wire types ---

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
	} `json:"streams"`
}

// probe runs a single ffprobe JSON call against path.
func (t *Transcoder) probe(ctx context.Context, path string) (*probeOutput, error) {
	cmd := exec.CommandContext(ctx, t.ffprobeBin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	var raw probeOutput
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON for %q: %w", path, err)
	}
	return &raw, nil
}

func (t *Transcoder) ProbeCodec(ctx context.Context, path string) (string, error) {
	raw, err := t.probe(ctx, path)
	if err != nil {
		return "", err
	}
	for _, s := range raw.Streams {
		if s.CodecType == "video" && s.CodecName != "" {
			return s.CodecName, nil
		}
	}
	return "", fmt.Errorf("%q: %w", path, domain.ErrNoVideoStream)
}

func (t *Transcoder) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	raw, err := t.probe(ctx, path)
	if err != nil {
		return 0, err
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(raw.Format.Duration), 64)
	if err != nil || secs <= 0 {
		return 0, fmt.Errorf("%q: no usable duration in probe output", path)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// Recognized fatal diagnostics. ffmpeg occasionally exits zero after
// printing one of these, so stderr is checked even on a clean exit.
var fatalPattern = regexp.MustCompile(
	`(?i)invalid data found when processing input|` +
		`error while decoding stream|` +
		`conversion failed`)

// Encode runs ffmpeg with progress reporting on stdout and stderr
// captured for diagnostics. onProgress receives 0-100 percentages
// derived from opts.Duration.
func (t *Transcoder) Encode(ctx context.Context, src, dst string, opts domain.EncodeOptions, onProgress port.ProgressFunc) error {
	args := buildArgs(src, dst, opts)
	cmd := exec.CommandContext(ctx, t.ffmpegBin, args...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	// Drains until ffmpeg closes stdout; must happen before Wait.
	parseProgress(stdout, opts.Duration, onProgress)

	waitErr := cmd.Wait()
	stderr := stderrBuf.String()

	if waitErr != nil {
		return fmt.Errorf("ffmpeg %q: %w: %s", src, waitErr, stderrTail(stderr, tailLines))
	}
	if fatalPattern.MatchString(stderr) {
		return fmt.Errorf("ffmpeg %q: fatal diagnostic: %s", src, stderrTail(stderr, tailLines))
	}
	return nil
}

const tailLines = 3

// stderrTail returns the last n non-empty lines of stderr joined with
// "; ", a compact diagnostic suitable for a JobResult error message.
func stderrTail(stderr string, n int) string {
	if strings.TrimSpace(stderr) == "" {
		return "no diagnostic output"
	}
	var lines []string
	for _, l := range strings.Split(stderr, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, strings.TrimSpace(l))
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "; ")
}

var _ port.Transcoder = (*Transcoder)(nil)
