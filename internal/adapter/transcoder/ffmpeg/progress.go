package ffmpeg

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/recode/internal/port"
)

// ffmpeg -progress emits key=value pairs with a "progress=continue" or
// "progress=end" line closing each batch. Long metadata lines can exceed
// the default scanner buffer.
const maxScannerBuffer = 1024 * 1024

// parseProgress reads the progress stream until EOF, emitting one
// callback per completed batch. Percentages are derived from out_time
// against total; with an unknown total only the speed label is useful
// and the percentage stays at zero.
func parseProgress(r io.Reader, total time.Duration, onProgress port.ProgressFunc) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScannerBuffer)

	var outTimeUs int64
	speed := ""

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "progress=") {
			if onProgress != nil {
				pct := percentage(outTimeUs, total)
				if line == "progress=end" {
					pct = 100
				}
				onProgress(pct, speed)
			}
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "out_time_us":
			if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
				outTimeUs = us
			}
		case "out_time_ms":
			if ms, err := strconv.ParseInt(value, 10, 64); err == nil && ms >= 0 {
				outTimeUs = ms * 1000
			}
		case "out_time":
			if us := parseOutTime(value); us >= 0 {
				outTimeUs = us
			}
		case "speed":
			if value != "" && value != "N/A" {
				speed = value
			}
		}
	}
}

func percentage(outTimeUs int64, total time.Duration) float64 {
	if total <= 0 || outTimeUs <= 0 {
		return 0
	}
	pct := float64(outTimeUs) / float64(total.Microseconds()) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// parseOutTime parses ffmpeg's "HH:MM:SS.microseconds" clock into
// microseconds, returning -1 on malformed input.
func parseOutTime(s string) int64 {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return -1
	}
	hours, err1 := strconv.ParseInt(parts[0], 10, 64)
	minutes, err2 := strconv.ParseInt(parts[1], 10, 64)
	seconds, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil || hours < 0 {
		return -1
	}
	us := (hours*3600+minutes*60)*1_000_000 + int64(seconds*1_000_000)
	return us
}
