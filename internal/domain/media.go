package domain

import "strings"

// MediaItem is one discovered video file. Path and Size are fixed at
// discovery; Codec is filled in by the inspection phase and the item is
// immutable afterwards.
type MediaItem struct {
	Path  string
	Size  int64
	Codec string
}

// Target is a logical output encoding. Probed codec names vary by
// container and encoder library, so each target carries an alias set and
// matching is done against the whole set.
type Target string

const (
	TargetHEVC Target = "hevc"
	TargetH264 Target = "h264"
	TargetAV1  Target = "av1"
	TargetVP9  Target = "vp9"
)

var targetAliases = map[Target][]string{
	TargetHEVC: {"hevc", "h265", "x265"},
	TargetH264: {"h264", "avc", "avc1"},
	TargetAV1:  {"av1", "libaom-av1", "libsvtav1"},
	TargetVP9:  {"vp9", "libvpx-vp9"},
}

// ParseTarget resolves a user-supplied codec name (any alias,
// case-insensitive) to its canonical Target.
func ParseTarget(s string) (Target, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for target, aliases := range targetAliases {
		for _, a := range aliases {
			if name == a {
				return target, nil
			}
		}
	}
	return "", ErrUnknownTarget
}

// Matches reports whether a probed codec name denotes the same logical
// encoding as the target.
func (t Target) Matches(codec string) bool {
	name := strings.ToLower(strings.TrimSpace(codec))
	for _, a := range targetAliases[t] {
		if name == a {
			return true
		}
	}
	return false
}

func (t Target) String() string {
	return string(t)
}
