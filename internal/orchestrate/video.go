package orchestrate

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/contentplatform/mediaworker/internal/dash"
	"github.com/contentplatform/mediaworker/internal/domain"
	"github.com/contentplatform/mediaworker/internal/ffmpeg"
	"github.com/contentplatform/mediaworker/internal/planner"
	"github.com/contentplatform/mediaworker/internal/transcode"
)

// processVideo runs the two sibling arms for video concepts:
// subtitles+chapters and the transcode pipeline (ladder -> DASH -> preview),
// both starting concurrently and joining at a barrier before the DASH
// assembly's success decides the commit.
func (o *Orchestrator) processVideo(ctx context.Context, inputPath, processingDir string) Result {
	p := o.prober.Probe(ctx, inputPath)
	if !p.HasVideo() {
		return Result{}
	}

	var wg sync.WaitGroup
	var mandatoryOK bool

	wg.Add(1)
	go func() {
		defer wg.Done()
		o.runSubtitleAndChapterArm(ctx, inputPath, processingDir, p)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		mandatoryOK = o.runVideoTranscodeArm(ctx, inputPath, processingDir, p)
	}()

	wg.Wait()
	return Result{Committed: mandatoryOK}
}

// runVideoTranscodeArm computes the ladder, runs it, assembles DASH, applies
// the OGP single-file fallback, generates the thumbnail/showcase/preview
// outputs, and reports whether DASH assembly (the mandatory artifact for a
// video concept) succeeded.
func (o *Orchestrator) runVideoTranscodeArm(ctx context.Context, inputPath, processingDir string, p domain.Probe) bool {
	plan := planner.GenerateLadder(*p.Video, o.ladderConfig())
	if len(plan.Steps) == 0 {
		o.logger.Warn("empty encoding plan, nothing to transcode")
		return false
	}

	backend := backendFor(o.cfg.Video.Encoder)
	stepResults := transcode.RunLadder(ctx, o.exec, o.logger, inputPath, plan, backend, o.encoderSettings(), o.cfg.Video.FPSCap, processingDir, maxInt(o.cfg.ParallelJobs, 1))
	videoPaths := transcode.Survivors(stepResults)
	if len(videoPaths) == 0 {
		o.logger.Warn("every ladder step failed")
		return false
	}

	hasTopStep := len(plan.Steps) > 0 && plan.Steps[0].Label == o.cfg.Video.QualitySteps[0].Label
	audioBitrate := planner.AudioBitrateFor(o.encoderSettings(), hasTopStep)
	audioTracks := o.transcodeVideoAudioTracks(ctx, inputPath, processingDir, p.Audios, audioBitrate)

	ok := o.assembleDASH(ctx, videoPaths, audioTracks, processingDir)
	for _, t := range audioTracks {
		os.Remove(t.Path)
	}

	o.applyOGPFallback(stepResults, processingDir)
	o.runThumbnailAndShowcase(ctx, inputPath, processingDir, p)
	o.runPreviewArm(ctx, inputPath, processingDir, p.Duration)

	return ok
}

func (o *Orchestrator) transcodeVideoAudioTracks(ctx context.Context, inputPath, processingDir string, audios []domain.AudioStream, bitrateBPS int) []domain.AudioTrack {
	videoDir := filepath.Join(processingDir, "video")
	if err := ensureDir(videoDir); err != nil {
		o.logger.Warn("create video dir failed", zap.Error(err))
		return nil
	}

	var tracks []domain.AudioTrack
	for i, a := range audios {
		outPath := filepath.Join(videoDir, fmt.Sprintf("audio_src_%d.webm", i))
		args := ffmpeg.AudioTranscodeArgs(inputPath, i, o.cfg.Video.Dash.AudioCodec, bitrateLabel(bitrateBPS), o.cfg.Video.Dash.AudioVBR, "audio", outPath)
		res := o.exec.Run(ctx, args)
		if !res.Success() {
			o.logger.Warn("audio track transcode failed", zap.Int("stream_index", a.Index), zap.Error(res.Err))
			continue
		}
		tracks = append(tracks, domain.AudioTrack{Path: outPath, Language: a.Language, Title: a.Title})
	}
	return tracks
}

// applyOGPFallback prefers the ladder step matching the configured
// quarter-resolution divisor (4), tagging it with the suffix
// dash.SelectOGPSource recognizes so it wins the selection; if that step
// didn't survive, dash.ApplyOGPFallback's own midpoint fallback applies.
func (o *Orchestrator) applyOGPFallback(results []transcode.StepResult, processingDir string) {
	var quarterLabel string
	for _, s := range o.cfg.Video.QualitySteps {
		if s.ScaleDivisor == 4 {
			quarterLabel = s.Label
			break
		}
	}

	var paths []string
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		path := r.OutputPath
		if quarterLabel != "" && r.Step.Label == quarterLabel {
			tagged := strings.TrimSuffix(path, ".webm") + "_quarter_resolution.webm"
			if err := os.Rename(path, tagged); err == nil {
				path = tagged
			}
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return
	}

	if err := dash.ApplyOGPFallback(paths, processingDir); err != nil {
		o.logger.Warn("ogp fallback failed", zap.Error(err))
	}
}

// randomOffset picks a uniformly random timestamp in (0, duration) for the
// thumbnail/showcase source frame, matching the upstream pipeline's
// rand::rng().random_range(0.0..duration). A near-zero duration degrades to
// offset 0 rather than risking an empty range.
func randomOffset(duration float64) float64 {
	if duration <= 0.1 {
		return 0
	}
	return rand.Float64() * duration
}

func (o *Orchestrator) runThumbnailAndShowcase(ctx context.Context, inputPath, processingDir string, p domain.Probe) {
	t := o.cfg.Video.Thumbnail
	thumbPath := filepath.Join(processingDir, "thumbnail.avif")
	offset := randomOffset(p.Duration)
	args := ffmpeg.ThumbnailArgs(inputPath, offset, t.Width, t.Height, thumbPath)
	if res := o.exec.Run(ctx, args); !res.Success() {
		o.logger.Warn("thumbnail generation failed", zap.Error(res.Err))
	}

	s := o.cfg.Video.Showcase
	showcasePath := filepath.Join(processingDir, "showcase.avif")
	showcaseArgs := ffmpeg.ShowcaseArgs(inputPath, offset, float64(s.MaxFrames)/float64(maxInt(s.FPS, 1)), s.Width, float64(s.FPS), s.MaxFrames, s.Quality, showcasePath)
	if res := o.exec.Run(ctx, showcaseArgs); !res.Success() {
		o.logger.Warn("showcase generation failed", zap.Error(res.Err))
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
