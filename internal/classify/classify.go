// Package classify implements the Type Classifier (C2): file-path in,
// {video, audio, picture, document_pdf, none} out. The decision tree is a
// direct port of the original detect_file_type probe-and-fallthrough chain,
// with the PDF magic-byte short circuit added ahead of it.
package classify

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/contentplatform/mediaworker/internal/domain"
)

type Classifier struct {
	ffprobeBinary string
}

func NewClassifier(ffprobeBinary string) *Classifier {
	if ffprobeBinary == "" {
		ffprobeBinary = "ffprobe"
	}
	return &Classifier{ffprobeBinary: ffprobeBinary}
}

// Detect classifies the file at path. Every ffprobe call that errors or
// yields unparseable output falls through to the next rule in the chain
// rather than aborting classification.
func (c *Classifier) Detect(ctx context.Context, path string) domain.ConceptType {
	if isPDF(path) {
		return domain.TypeDocumentPDF
	}

	hasVideo := c.streamPresent(ctx, path, "v:0")
	hasAudio := c.streamPresent(ctx, path, "a:0")

	if !hasVideo && !hasAudio {
		return domain.TypeNone
	}

	if hasAudio && !hasVideo {
		return domain.TypeAudio
	}

	if hasVideo && hasAudio {
		return c.classifyVideoPlusAudio(ctx, path)
	}

	return c.classifyVideoOnly(ctx, path)
}

func isPDF(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, 4)
	n, err := f.Read(buf)
	if err != nil || n < 4 {
		return false
	}
	return string(buf) == "%PDF"
}

func (c *Classifier) streamPresent(ctx context.Context, path, selector string) bool {
	out, err := exec.CommandContext(ctx, c.ffprobeBinary,
		"-v", "error",
		"-select_streams", selector,
		"-show_entries", "stream=codec_type",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return false
	}
	kind := strings.TrimSpace(string(out))
	if selector[0] == 'v' {
		return kind == "video"
	}
	return kind == "audio"
}

func (c *Classifier) duration(ctx context.Context, path string) (float64, bool) {
	out, err := exec.CommandContext(ctx, c.ffprobeBinary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (c *Classifier) nbFrames(ctx context.Context, path string) (int64, bool) {
	out, err := exec.CommandContext(ctx, c.ffprobeBinary,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=nb_frames",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, false
	}
	s := strings.TrimSpace(string(out))
	if s == "" || s == "N/A" {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// durationAndFPS fetches duration and r_frame_rate in one call, mirroring
// the combined stream_info query in the original detector.
func (c *Classifier) durationAndFPS(ctx context.Context, path string) (duration, fps float64, ok bool) {
	out, err := exec.CommandContext(ctx, c.ffprobeBinary,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, 0, false
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) < 2 {
		return 0, 0, false
	}
	duration, derr := strconv.ParseFloat(strings.TrimSpace(lines[0]), 64)
	if derr != nil {
		return 0, 0, false
	}
	fps = parseFrameRate(strings.TrimSpace(lines[1]))
	if duration <= 0 || fps <= 0 {
		return 0, 0, false
	}
	return duration, fps, true
}

func parseFrameRate(s string) float64 {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	num, _ := strconv.ParseFloat(parts[0], 64)
	den, _ := strconv.ParseFloat(parts[1], 64)
	if den == 0 {
		return 0
	}
	return num / den
}

func (c *Classifier) classifyVideoPlusAudio(ctx context.Context, path string) domain.ConceptType {
	if dur, ok := c.duration(ctx, path); ok && dur <= 1.0 {
		return domain.TypeAudio
	}

	if frames, ok := c.nbFrames(ctx, path); ok {
		if frames > 1 {
			return domain.TypeVideo
		}
		return domain.TypeAudio
	}

	if duration, fps, ok := c.durationAndFPS(ctx, path); ok {
		estimatedFrames := duration * fps
		if duration > 1.0 && estimatedFrames > 5 {
			return domain.TypeVideo
		}
		return domain.TypeAudio
	}

	dur, ok := c.duration(ctx, path)
	if !ok {
		return domain.TypeAudio
	}
	if dur > 5.0 {
		return domain.TypeVideo
	}
	return domain.TypeAudio
}

func (c *Classifier) classifyVideoOnly(ctx context.Context, path string) domain.ConceptType {
	if frames, ok := c.nbFrames(ctx, path); ok {
		if frames > 1 {
			return domain.TypeVideo
		}
		return domain.TypePicture
	}

	if duration, fps, ok := c.durationAndFPS(ctx, path); ok {
		estimatedFrames := duration * fps
		if estimatedFrames > 1 {
			return domain.TypeVideo
		}
		return domain.TypePicture
	}

	dur, ok := c.duration(ctx, path)
	if !ok {
		return domain.TypePicture
	}
	if dur <= 0.1 {
		return domain.TypePicture
	}
	return domain.TypeVideo
}
