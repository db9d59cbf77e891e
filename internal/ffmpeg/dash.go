package ffmpeg

import (
	"fmt"
	"strings"

	"github.com/contentplatform/mediaworker/internal/domain"
)

// DASHAssembleArgs builds the single multi-input muxing invocation that
// produces the WebM-segmented DASH manifest. videoPaths are per-ladder-step
// elementary streams (video only); audioTracks are per-language/track
// elementary streams. Every input is mapped copy-codec; metadata per audio
// output stream carries language/title.
func DASHAssembleArgs(videoPaths []string, audioTracks []domain.AudioTrack, segmentDurationSecs float64, outputDir string) []string {
	var args []string

	for _, v := range videoPaths {
		args = append(args, "-i", v)
	}
	for _, a := range audioTracks {
		args = append(args, "-i", a.Path)
	}

	for i := range videoPaths {
		args = append(args, "-map", fmt.Sprintf("%d:v:0", i))
	}
	for i := range audioTracks {
		args = append(args, "-map", fmt.Sprintf("%d:a:0", len(videoPaths)+i))
	}

	args = append(args, "-c", "copy", "-map_metadata", "-1")

	for i, a := range audioTracks {
		outIdx := len(videoPaths) + i
		if a.Language != "" {
			args = append(args, fmt.Sprintf("-metadata:s:%d", outIdx), "language="+a.Language)
		}
		title := a.Title
		if title == "" {
			title = a.Language
		}
		if title != "" {
			args = append(args, fmt.Sprintf("-metadata:s:%d", outIdx), "title="+title)
		}
	}

	adaptationSets := buildAdaptationSets(len(videoPaths), len(audioTracks))

	args = append(args,
		"-f", "dash",
		"-seg_duration", fmt.Sprintf("%.3f", segmentDurationSecs),
		"-use_template", "1",
		"-use_timeline", "0",
		"-init_seg_name", "init_$RepresentationID$.webm",
		"-media_seg_name", "chunk_$RepresentationID$_$Number$.webm",
		"-adaptation_sets", adaptationSets,
		"-window_size", "0",
		"-extra_window_size", "0",
		"-dash_segment_type", "webm",
		"-fflags", "+genpts",
		"-avoid_negative_ts", "make_zero",
		outputDir+"/video.mpd",
	)

	return args
}

// buildAdaptationSets renders the `id=0,streams=v id=1,streams=1 ...`
// descriptor: one video adaptation set covering every video output stream,
// then either a single combined audio adaptation set (one audio track) or
// one adaptation set per audio track (multiple tracks).
func buildAdaptationSets(numVideo, numAudio int) string {
	sets := []string{"id=0,streams=v"}

	if numAudio == 1 {
		sets = append(sets, fmt.Sprintf("id=1,streams=%d", numVideo))
	} else {
		for i := 0; i < numAudio; i++ {
			sets = append(sets, fmt.Sprintf("id=%d,streams=%d", i+1, numVideo+i))
		}
	}

	return strings.Join(sets, " ")
}
