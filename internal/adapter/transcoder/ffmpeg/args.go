package ffmpeg

import (
	"strconv"

	"github.com/bnema/recode/internal/domain"
)

var softwareEncoders = map[domain.Target]string{
	domain.TargetHEVC: "libx265",
	domain.TargetH264: "libx264",
	domain.TargetAV1:  "libsvtav1",
	domain.TargetVP9:  "libvpx-vp9",
}

// hardwareEncoders maps targets to their VAAPI encoder where one exists;
// targets without an entry fall back to software encoding.
var hardwareEncoders = map[domain.Target]string{
	domain.TargetHEVC: "hevc_vaapi",
	domain.TargetH264: "h264_vaapi",
}

const vaapiDevice = "/dev/dri/renderD128"

// buildArgs assembles the full ffmpeg argument list for one encode.
// Audio is copied untouched; video goes through the selected encoder.
// Progress key=value output is requested on stdout.
func buildArgs(src, dst string, opts domain.EncodeOptions) []string {
	args := []string{
		"-hide_banner", "-nostdin",
		"-v", "error",
		"-y",
		"-i", src,
	}

	hw, hasHW := hardwareEncoders[opts.Target]
	if opts.UseAcceleration && hasHW {
		args = append(args,
			"-vaapi_device", vaapiDevice,
			"-vf", "format=nv12,hwupload",
			"-c:v", hw,
			"-qp", strconv.Itoa(opts.CRF),
		)
	} else {
		args = append(args,
			"-c:v", softwareEncoders[opts.Target],
			"-crf", strconv.Itoa(opts.CRF),
			"-preset", opts.Preset,
		)
	}

	args = append(args,
		"-c:a", "copy",
		"-progress", "pipe:1",
		dst,
	)
	return args
}
