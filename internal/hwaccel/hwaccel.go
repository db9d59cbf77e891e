// Package hwaccel detects which AV1 hardware encoder backend the host
// supports and builds the structured Media Tool argument fragments for it.
package hwaccel

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/contentplatform/mediaworker/internal/domain"
)

// hdrTonemapFilter reduces a wide-gamut/HDR signal to an SDR-compatible
// yuv420p10le surface before any backend's scale/encode stage. The chain is
// linear-light tonemap via mobius, landing back on bt709 primaries/matrix.
const hdrTonemapFilter = "zscale=t=linear:npl=100,format=gbrpf32le,zscale=p=bt709,tonemap=mobius,zscale=t=bt709:m=bt709:r=tv,format=yuv420p10le"

func Detect(ctx context.Context) ([]domain.Accelerator, error) {
	hwaccels, err := detectHWAccels(ctx)
	if err != nil {
		return nil, err
	}

	encoders, err := detectEncoders(ctx)
	if err != nil {
		return nil, err
	}

	var available []domain.Accelerator

	if hwaccels["cuda"] && encoders["av1_nvenc"] {
		available = append(available, domain.AccelNVENC)
	}
	if hwaccels["vaapi"] && encoders["av1_vaapi"] {
		available = append(available, domain.AccelVAAPI)
	}
	if hwaccels["qsv"] && encoders["av1_qsv"] {
		available = append(available, domain.AccelQSV)
	}

	available = append(available, domain.AccelNone)

	return available, nil
}

// Select picks a single backend from those detected, biased toward NVENC
// over QSV over VAAPI; configuration can instead pin a specific backend and
// skip Select/Detect entirely.
func Select(available []domain.Accelerator) domain.Accelerator {
	priority := []domain.Accelerator{domain.AccelNVENC, domain.AccelQSV, domain.AccelVAAPI}

	for _, accel := range priority {
		for _, a := range available {
			if a == accel {
				return accel
			}
		}
	}

	return domain.AccelNone
}

func DetectBest() domain.Accelerator {
	available, err := Detect(context.Background())
	if err != nil {
		return domain.AccelNone
	}
	return Select(available)
}

// BuildParams returns the decode prefix, encode argument run, and (when hdr
// is set) the tonemap filter graph for one rendition on the given backend.
// width/height/bitrate are the already-computed ladder-step values.
func BuildParams(accel domain.Accelerator, width, height, bitrate int, hdr bool, preset string, lookahead int, cqLevel int) domain.EncoderParams {
	scale := fmt.Sprintf("scale=%d:%d", width, height)
	filter := scale
	if hdr {
		filter = hdrTonemapFilter + "," + scale
	}

	switch accel {
	case domain.AccelNVENC:
		return domain.EncoderParams{
			Accelerator: accel,
			DecodeArgs:  []string{"-hwaccel", "cuda", "-hwaccel_output_format", "cuda"},
			EncodeArgs: []string{
				"-c:v", "av1_nvenc",
				"-preset", preset,
				"-rc", "vbr",
				"-cq", fmt.Sprintf("%d", cqLevel),
				"-b:v", fmt.Sprintf("%d", bitrate),
				"-rc-lookahead", fmt.Sprintf("%d", lookahead),
			},
			FilterGraph: filter,
		}
	case domain.AccelQSV:
		return domain.EncoderParams{
			Accelerator: accel,
			DecodeArgs:  []string{"-hwaccel", "qsv", "-hwaccel_output_format", "qsv"},
			EncodeArgs: []string{
				"-c:v", "av1_qsv",
				"-preset", preset,
				"-global_quality", fmt.Sprintf("%d", cqLevel),
				"-b:v", fmt.Sprintf("%d", bitrate),
				"-look_ahead", "1",
				"-look_ahead_depth", fmt.Sprintf("%d", lookahead),
			},
			FilterGraph: filter,
		}
	case domain.AccelVAAPI:
		return domain.EncoderParams{
			Accelerator: accel,
			DecodeArgs:  []string{"-hwaccel", "vaapi", "-vaapi_device", "/dev/dri/renderD128"},
			EncodeArgs: []string{
				"-c:v", "av1_vaapi",
				"-qp", fmt.Sprintf("%d", cqLevel),
				"-b:v", fmt.Sprintf("%d", bitrate),
			},
			FilterGraph: filter,
		}
	default:
		return domain.EncoderParams{
			Accelerator: domain.AccelNone,
			DecodeArgs:  nil,
			EncodeArgs: []string{
				"-c:v", "libsvtav1",
				"-preset", preset,
				"-crf", fmt.Sprintf("%d", cqLevel),
				"-b:v", fmt.Sprintf("%d", bitrate),
			},
			FilterGraph: filter,
		}
	}
}

func detectHWAccels(ctx context.Context) (map[string]bool, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-hwaccels")
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	result := make(map[string]bool)
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && line != "Hardware acceleration methods:" {
			result[line] = true
		}
	}

	return result, nil
}

func detectEncoders(ctx context.Context) (map[string]bool, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-encoders")
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	result := make(map[string]bool)
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		line := scanner.Text()
		for _, name := range []string{"av1_nvenc", "av1_vaapi", "av1_qsv"} {
			if strings.Contains(line, name) {
				result[name] = true
			}
		}
	}

	return result, nil
}
