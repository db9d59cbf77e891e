package ffmpeg

import (
	"fmt"

	"github.com/contentplatform/mediaworker/internal/domain"
)

// VideoLadderStepArgs builds one resolution-ladder step's transcode
// invocation: decode prefix (if hardware-accelerated), input seek-free read,
// the planned filter graph and encoder args, capped framerate, and a WebM
// elementary-stream output suitable for later DASH muxing.
func VideoLadderStepArgs(inputPath string, params domain.EncoderParams, fpsCap float64, outputPath string) []string {
	var args []string
	args = append(args, params.DecodeArgs...)
	args = append(args, "-i", inputPath)

	filter := params.FilterGraph
	if fpsCap > 0 {
		filter = fmt.Sprintf("%s,fps=fps=%g", filter, fpsCap)
	}
	args = append(args, "-vf", filter)
	args = append(args, params.EncodeArgs...)
	args = append(args, "-an", "-dash", "1", outputPath)

	return args
}

// AudioTranscodeArgs builds the primary Opus/Vorbis audio transcode: VBR
// mode with application=audio, lossless sources keep a higher target
// bitrate band than lossy ones.
func AudioTranscodeArgs(inputPath string, streamIndex int, codec, bitrate, vbrMode, application string, outputPath string) []string {
	return []string{
		"-i", inputPath,
		"-map", fmt.Sprintf("0:a:%d", streamIndex),
		"-vn",
		"-c:a", codec,
		"-b:a", bitrate,
		"-vbr", vbrMode,
		"-application", application,
		outputPath,
	}
}

// ExtraAudioStreamArgs extracts one non-primary audio stream (e.g. a second
// language track on a video, or an additional stream on an audio file) using
// the same codec policy as the primary track.
func ExtraAudioStreamArgs(inputPath string, streamIndex int, codec, bitrate, vbrMode, application string, outputPath string) []string {
	return AudioTranscodeArgs(inputPath, streamIndex, codec, bitrate, vbrMode, application, outputPath)
}

// PictureTranscodeArgs encodes a still image to AVIF at the given CRF; when
// targetWidth/targetHeight are non-zero the image is scaled to fit within
// that box preserving aspect ratio (a smaller image is enlarged to fit).
func PictureTranscodeArgs(inputPath string, crf int, targetWidth, targetHeight int, outputPath string) []string {
	args := []string{"-i", inputPath}
	if targetWidth > 0 && targetHeight > 0 {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", targetWidth, targetHeight))
	}
	args = append(args,
		"-c:v", "libsvtav1",
		"-crf", fmt.Sprintf("%d", crf),
		"-pix_fmt", "yuv420p10le",
		"-still-picture", "1",
		outputPath,
	)
	return args
}

// PictureJPEGArgs encodes a still image to JPEG at the given quality (2-31,
// lower is better), scaled to fit within targetWidth x targetHeight.
func PictureJPEGArgs(inputPath string, quality, targetWidth, targetHeight int, outputPath string) []string {
	return []string{
		"-i", inputPath,
		"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", targetWidth, targetHeight),
		"-q:v", fmt.Sprintf("%d", quality),
		outputPath,
	}
}

// ShowcaseArgs builds the animated AVIF preview clip: a decimated-fps,
// reduced-width sample bounded to maxFrames.
func ShowcaseArgs(inputPath string, startOffset float64, durationSecs float64, width int, fps float64, maxFrames int, crf int, outputPath string) []string {
	return []string{
		"-ss", fmt.Sprintf("%.3f", startOffset),
		"-i", inputPath,
		"-t", fmt.Sprintf("%.3f", durationSecs),
		"-vf", fmt.Sprintf("fps=%g,scale=%d:-2:force_original_aspect_ratio=decrease", fps, width),
		"-frames:v", fmt.Sprintf("%d", maxFrames),
		"-c:v", "libsvtav1",
		"-crf", fmt.Sprintf("%d", crf),
		"-pix_fmt", "yuv420p10le",
		outputPath,
	}
}
