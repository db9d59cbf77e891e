// Package probe is the Probe Facade (C1): uniform, structured queries
// against the Media Tool for stream inventory, chapters, and silence
// intervals. Every call degrades to an empty result on a parse failure
// instead of returning an error, per the error-handling policy — a probe
// never blocks the classifier or the pipeline.
package probe

import (
	"bufio"
	"context"
	"encoding/json"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/contentplatform/mediaworker/internal/domain"
)

type Prober struct {
	ffprobeBinary string
	ffmpegBinary  string
}

func NewProber(ffprobeBinary, ffmpegBinary string) *Prober {
	if ffprobeBinary == "" {
		ffprobeBinary = "ffprobe"
	}
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Prober{ffprobeBinary: ffprobeBinary, ffmpegBinary: ffmpegBinary}
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

type ffprobeStream struct {
	Index          int               `json:"index"`
	CodecName      string            `json:"codec_name"`
	CodecType      string            `json:"codec_type"`
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	RFrameRate     string            `json:"r_frame_rate"`
	Channels       int               `json:"channels"`
	BitRate        string            `json:"bit_rate"`
	NbFrames       string            `json:"nb_frames"`
	ColorTransfer  string            `json:"color_transfer"`
	ColorPrimaries string            `json:"color_primaries"`
	ColorSpace     string            `json:"color_space"`
	Tags           map[string]string `json:"tags"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

// Probe runs a single structured JSON probe (-show_format -show_streams)
// against the input. An unparseable or empty result degrades to a zero
// Probe rather than an error.
func (p *Prober) Probe(ctx context.Context, path string) domain.Probe {
	cmd := exec.CommandContext(ctx, p.ffprobeBinary,
		"-v", "error",
		"-show_format",
		"-show_streams",
		"-of", "json",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return domain.Probe{}
	}

	var ff ffprobeOutput
	if err := json.Unmarshal(output, &ff); err != nil {
		return domain.Probe{}
	}

	var result domain.Probe
	if dur, err := strconv.ParseFloat(ff.Format.Duration, 64); err == nil {
		result.Duration = dur
	}

	for _, s := range ff.Streams {
		switch s.CodecType {
		case "video":
			if result.Video == nil {
				result.Video = &domain.VideoStream{
					Index:          s.Index,
					Codec:          s.CodecName,
					Width:          s.Width,
					Height:         s.Height,
					Bitrate:        parseBitrate(s.BitRate),
					FrameRate:      parseFrameRate(s.RFrameRate),
					NumFrames:      parseFrames(s.NbFrames),
					Duration:       result.Duration,
					ColorTransfer:  s.ColorTransfer,
					ColorPrimaries: s.ColorPrimaries,
					ColorSpace:     s.ColorSpace,
				}
			}
		case "audio":
			result.Audios = append(result.Audios, domain.AudioStream{
				Index:    s.Index,
				Codec:    s.CodecName,
				Language: s.Tags["language"],
				Title:    s.Tags["title"],
				Channels: s.Channels,
				Bitrate:  parseBitrate(s.BitRate),
			})
		case "subtitle":
			result.Subtitles = append(result.Subtitles, domain.SubtitleStream{
				Index:    s.Index,
				Codec:    s.CodecName,
				Language: s.Tags["language"],
				Title:    s.Tags["title"],
			})
		}
	}

	return result
}

type ffprobeChapter struct {
	StartTime string            `json:"start_time"`
	EndTime   string            `json:"end_time"`
	Tags      map[string]string `json:"tags"`
}

type ffprobeChaptersOutput struct {
	Chapters []ffprobeChapter `json:"chapters"`
}

// Chapters reads chapter markers from the container. Parse failures and
// containers without chapters both yield an empty slice.
func (p *Prober) Chapters(ctx context.Context, path string) []domain.Chapter {
	cmd := exec.CommandContext(ctx, p.ffprobeBinary,
		"-v", "error",
		"-show_chapters",
		"-of", "json",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil
	}

	var out ffprobeChaptersOutput
	if err := json.Unmarshal(output, &out); err != nil {
		return nil
	}

	chapters := make([]domain.Chapter, 0, len(out.Chapters))
	for _, c := range out.Chapters {
		start, _ := strconv.ParseFloat(c.StartTime, 64)
		end, _ := strconv.ParseFloat(c.EndTime, 64)
		chapters = append(chapters, domain.Chapter{
			Start: start,
			End:   end,
			Title: c.Tags["title"],
		})
	}

	return chapters
}

var silenceStartRe = regexp.MustCompile(`silence_start:\s*(-?[0-9.]+)`)
var silenceEndRe = regexp.MustCompile(`silence_end:\s*(-?[0-9.]+)`)

// DetectSilence runs a windowed silencedetect pass over [windowStart,
// windowEnd) and returns intervals with timestamps already offset back into
// the file's absolute timeline. This relies on ffmpeg's "-ss before -i"
// semantics resetting presentation timestamps to zero for the seeked
// segment; the offset is added back here rather than trusted to the tool.
func (p *Prober) DetectSilence(ctx context.Context, path string, windowStart, windowEnd float64, noiseDB float64, minDurSecs float64) []domain.SilenceInterval {
	args := []string{"-ss", formatFloat(windowStart), "-i", path}
	if windowEnd > windowStart {
		args = append(args, "-t", formatFloat(windowEnd-windowStart))
	}
	args = append(args, "-af", "silencedetect=noise="+formatFloat(noiseDB)+"dB:d="+formatFloat(minDurSecs), "-f", "null", "-")

	cmd := exec.CommandContext(ctx, p.ffmpegBinary, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil
	}
	if err := cmd.Start(); err != nil {
		return nil
	}

	var intervals []domain.SilenceInterval
	var pendingStart float64
	haveStart := false

	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := scanner.Text()
		if m := silenceStartRe.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				pendingStart = v
				haveStart = true
			}
			continue
		}
		if m := silenceEndRe.FindStringSubmatch(line); m != nil {
			if !haveStart {
				continue
			}
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				intervals = append(intervals, domain.SilenceInterval{
					Start: pendingStart + windowStart,
					End:   v + windowStart,
				})
			}
			haveStart = false
		}
	}

	_ = cmd.Wait()
	return intervals
}

func parseBitrate(s string) int {
	if s == "" {
		return 0
	}
	v, _ := strconv.Atoi(s)
	return v
}

func parseFrames(s string) int64 {
	if s == "" || s == "N/A" {
		return 0
	}
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseFrameRate(s string) float64 {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0
	}
	num, _ := strconv.ParseFloat(parts[0], 64)
	den, _ := strconv.ParseFloat(parts[1], 64)
	if den == 0 {
		return 0
	}
	return num / den
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
