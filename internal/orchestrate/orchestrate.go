// Package orchestrate is the per-concept DAG dispatcher (C8's inner half):
// given a classified input file and its output directory, it runs the
// type-specific subgraph of C3-C7/C9 arms concurrently and reports which
// mandatory artifact, if any, survived. The scheduler package owns the
// outer poll loop and the commit/delete decision; this package never
// touches the store.
package orchestrate

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/contentplatform/mediaworker/internal/config"
	"github.com/contentplatform/mediaworker/internal/dash"
	"github.com/contentplatform/mediaworker/internal/domain"
	"github.com/contentplatform/mediaworker/internal/ffmpeg"
	"github.com/contentplatform/mediaworker/internal/pdfpipeline"
	"github.com/contentplatform/mediaworker/internal/planner"
	"github.com/contentplatform/mediaworker/internal/preview"
	"github.com/contentplatform/mediaworker/internal/probe"
	"github.com/contentplatform/mediaworker/internal/subtitles"
	"github.com/contentplatform/mediaworker/internal/vtt"
)

// Orchestrator holds every external collaborator a concept's DAG may need.
// One Orchestrator is shared across concepts; it carries no per-concept
// state.
type Orchestrator struct {
	cfg    config.Config
	logger *zap.Logger

	prober *probe.Prober
	exec   *ffmpeg.Executor

	stt domain.STTClient
	llm domain.LLMClient
	pdf domain.PDFEngine
}

func New(cfg config.Config, logger *zap.Logger, prober *probe.Prober, exec *ffmpeg.Executor, stt domain.STTClient, llm domain.LLMClient, pdfEngine domain.PDFEngine) *Orchestrator {
	return &Orchestrator{cfg: cfg, logger: logger, prober: prober, exec: exec, stt: stt, llm: llm, pdf: pdfEngine}
}

// Result reports what a concept's DAG produced. Committed is true only when
// the mandatory artifact for the concept's type exists; the scheduler must
// not mark the concept processed otherwise.
type Result struct {
	Committed bool
	PDF       bool // true for document_pdf concepts: the scheduler renames rather than deletes the input
}

// Process runs the classified type's DAG against inputPath, writing every
// artifact under processingDir (already created by the caller). It never
// returns an error for a partial/failed arm; per-arm failures are logged
// and reflected only in which artifacts end up on disk.
func (o *Orchestrator) Process(ctx context.Context, conceptType domain.ConceptType, inputPath, processingDir string) Result {
	switch conceptType {
	case domain.TypeVideo:
		return o.processVideo(ctx, inputPath, processingDir)
	case domain.TypeAudio:
		return o.processAudio(ctx, inputPath, processingDir)
	case domain.TypePicture:
		return o.processPicture(ctx, inputPath, processingDir)
	case domain.TypeDocumentPDF:
		return o.processDocument(ctx, inputPath, processingDir)
	default:
		return Result{}
	}
}

// backendFor resolves the configured encoder selector string to an
// Accelerator; an unrecognized value degrades to software encoding rather
// than failing the concept.
func backendFor(selector string) domain.Accelerator {
	switch selector {
	case "nvenc":
		return domain.AccelNVENC
	case "qsv":
		return domain.AccelQSV
	case "vaapi":
		return domain.AccelVAAPI
	default:
		return domain.AccelNone
	}
}

func (o *Orchestrator) encoderSettings() planner.EncoderSettings {
	v := o.cfg.Video
	return planner.EncoderSettings{
		NVENC:               planner.BackendSettings{Preset: v.NVENC.Preset, Quality: v.NVENC.CQ, Lookahead: v.NVENC.Lookahead},
		QSV:                 planner.BackendSettings{Preset: v.QSV.Preset, Quality: v.QSV.GlobalQuality, Lookahead: v.QSV.LookAheadDepth},
		VAAPI:               planner.BackendSettings{Quality: v.VAAPI.Quality},
		AudioBitrateBase:    v.AudioBitrateBase,
		AudioBitrateBonus2K: v.AudioBitrate2KBonus,
	}
}

func (o *Orchestrator) ladderConfig() planner.LadderConfig {
	steps := make([]domain.QualityStep, len(o.cfg.Video.QualitySteps))
	for i, s := range o.cfg.Video.QualitySteps {
		steps[i] = domain.QualityStep{Label: s.Label, Divisor: s.ScaleDivisor}
	}

	bounds := make(map[int]struct{ Min, Max int }, len(o.cfg.Video.BitrateBounds))
	for height, b := range o.cfg.Video.BitrateBounds {
		bounds[height] = struct{ Min, Max int }{Min: b.Min, Max: b.Max}
	}

	return planner.LadderConfig{
		Steps:           steps,
		MinDimension:    o.cfg.Video.MinDimension,
		TwoKPixelThresh: o.cfg.Video.Threshold2KPixels,
		FPSCap:          o.cfg.Video.FPSCap,
		Bounds:          bounds,
	}
}

func bitrateLabel(bps int) string {
	return fmt.Sprintf("%dk", bps/1000)
}

func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (o *Orchestrator) sttConfig() subtitles.STTConfig {
	w := o.cfg.Whisper
	return subtitles.STTConfig{
		Model:             w.Model,
		ResponseFormat:    w.ResponseFormat,
		Temperature:       w.Temperature,
		TargetChunkSecs:   w.TargetChunkSecs,
		MaxChunkSecs:      w.MaxChunkSecs,
		SilenceNoiseDB:    w.SilenceNoiseDB,
		SilenceMinDurSecs: w.SilenceMinDurSecs,
		ParallelLimit:     w.SilenceDetectParallel,
	}
}

// detectSilence adapts the Probe Facade's windowed silence detector to the
// subtitles package's injectable function type.
func (o *Orchestrator) detectSilence(inputPath string) subtitles.DetectSilenceFunc {
	w := o.cfg.Whisper
	return func(ctx context.Context, start, end float64) []domain.SilenceInterval {
		return o.prober.DetectSilence(ctx, inputPath, start, end, w.SilenceNoiseDB, w.SilenceMinDurSecs)
	}
}

// runSubtitleAndChapterArm produces the captions directory and chapters.vtt
// for one concept: embedded subtitle extraction when the probe found
// subtitle streams, else STT fallback when an STT client is configured;
// optional per-cue translation to every configured target language that
// the source coverage doesn't already supply.
func (o *Orchestrator) runSubtitleAndChapterArm(ctx context.Context, inputPath, processingDir string, p domain.Probe) {
	chaptersBody := subtitles.RenderChapters(o.prober.Chapters(ctx, inputPath))
	if chaptersBody != "" {
		if err := os.WriteFile(filepath.Join(processingDir, "chapters.vtt"), []byte(chaptersBody), 0o644); err != nil {
			o.logger.Warn("write chapters failed", zap.Error(err))
		}
	}

	captionsDir := filepath.Join(processingDir, "captions")
	if err := ensureDir(captionsDir); err != nil {
		o.logger.Warn("create captions dir failed", zap.Error(err))
		return
	}

	var names []string
	var sourcePath string

	if len(p.Subtitles) > 0 {
		tracks := subtitles.ExtractEmbedded(ctx, o.exec, o.logger, inputPath, p.Subtitles, captionsDir, o.cfg.Translation.Enabled)
		for _, t := range tracks {
			names = append(names, t.Name)
			if sourcePath == "" {
				sourcePath = t.Path
			}
		}
		if srcISO, ok := subtitles.NormalizeISO639(o.cfg.Translation.SourceLanguage); ok {
			for _, t := range tracks {
				if iso, ok := subtitles.NormalizeISO639(t.Name); ok && iso == srcISO {
					sourcePath = t.Path
					break
				}
			}
		}
	} else if o.stt != nil && p.HasAudio() {
		body, err := subtitles.GenerateViaSTT(ctx, o.exec, o.stt, o.logger, inputPath, p.Duration, o.detectSilence(inputPath), o.sttConfig(), processingDir)
		if err != nil {
			o.logger.Warn("stt generation failed", zap.Error(err))
		} else if body != "" {
			label := o.cfg.Whisper.OutputLabel
			if o.cfg.Translation.Enabled {
				if iso, ok := subtitles.DetectLanguage(ctx, o.exec, o.stt, inputPath, o.sttConfig(), processingDir); ok {
					label = "AI_" + iso
				}
			}
			track, err := subtitles.WriteTrack(captionsDir, label, body)
			if err != nil {
				o.logger.Warn("write stt track failed", zap.Error(err))
			} else {
				names = append(names, track.Name)
				sourcePath = track.Path
			}
		}
	}

	if o.cfg.Translation.Enabled && len(o.cfg.Translation.TargetLanguages) > 0 && sourcePath != "" && o.llm != nil {
		o.runTranslationArm(ctx, captionsDir, sourcePath, &names)
	}

	if len(names) > 0 {
		if err := os.WriteFile(filepath.Join(processingDir, "captions", "list.txt"), []byte(subtitles.CaptionsList(names)), 0o644); err != nil {
			o.logger.Warn("write captions list failed", zap.Error(err))
		}
	}
}

func (o *Orchestrator) runTranslationArm(ctx context.Context, captionsDir, sourcePath string, names *[]string) {
	body, err := os.ReadFile(sourcePath)
	if err != nil {
		o.logger.Warn("read source subtitle for translation failed", zap.Error(err))
		return
	}
	cues := subtitles.ParseCues(string(body))
	if len(cues) == 0 {
		return
	}

	have := make(map[string]bool)
	for _, n := range *names {
		if iso, ok := subtitles.NormalizeISO639(n); ok {
			have[iso] = true
		}
	}

	for _, target := range o.cfg.Translation.TargetLanguages {
		iso, _ := subtitles.NormalizeISO639(target)
		if iso == "" {
			iso = target
		}
		if have[iso] {
			continue
		}
		translated := subtitles.TranslateCues(ctx, o.llm, cues, target)
		track, err := subtitles.WriteTrack(captionsDir, "AI_"+iso, subtitles.RenderTranslated(translated))
		if err != nil {
			o.logger.Warn("write translated track failed", zap.String("language", target), zap.Error(err))
			continue
		}
		*names = append(*names, track.Name)
	}
}

// runPreviewArm generates the sprite atlas and its WebVTT index under
// processingDir/previews. Its failure is never fatal to the concept.
func (o *Orchestrator) runPreviewArm(ctx context.Context, inputPath, processingDir string, duration float64) {
	previewDir := filepath.Join(processingDir, "previews")
	if err := ensureDir(previewDir); err != nil {
		o.logger.Warn("create previews dir failed", zap.Error(err))
		return
	}

	ps := o.cfg.Video.PreviewSprites
	files := preview.GenerateSprites(ctx, o.exec, o.logger, inputPath, duration, preview.SpriteConfig{
		IntervalSeconds:   ps.IntervalSeconds,
		ThumbWidth:        ps.ThumbWidth,
		ThumbHeight:       ps.ThumbHeight,
		MaxSpritesPerFile: ps.MaxSpritesPerFile,
		SpritesAcross:     ps.SpritesAcross,
		Quality:           ps.Quality,
		ParallelLimit:     ps.ParallelLimit,
	}, previewDir)

	if len(files) == 0 {
		return
	}

	numThumbs := 0
	if ps.IntervalSeconds > 0 {
		numThumbs = int(math.Ceil(duration / ps.IntervalSeconds))
	}
	spriteNames := make([]string, len(files))
	for i, f := range files {
		spriteNames[i] = filepath.Base(f)
	}
	cues := vtt.BuildPreviewCues(spriteNames, numThumbs, ps.MaxSpritesPerFile, ps.SpritesAcross, ps.ThumbWidth, ps.ThumbHeight, ps.IntervalSeconds, duration)
	if err := os.WriteFile(filepath.Join(previewDir, "previews.vtt"), []byte(vtt.Render(cues)), 0o644); err != nil {
		o.logger.Warn("write previews.vtt failed", zap.Error(err))
	}
}

func (o *Orchestrator) assembleDASH(ctx context.Context, videoPaths []string, audioTracks []domain.AudioTrack, processingDir string) bool {
	videoDir := filepath.Join(processingDir, "video")
	if err := ensureDir(videoDir); err != nil {
		o.logger.Warn("create video dir failed", zap.Error(err))
		return false
	}

	segDurSecs := float64(o.cfg.Video.Dash.SegmentDurationMS) / 1000.0
	args := ffmpeg.DASHAssembleArgs(videoPaths, audioTracks, segDurSecs, videoDir)
	res := o.exec.Run(ctx, args)
	if !res.Success() {
		o.logger.Warn("dash assembly failed", zap.Error(res.Err), zap.String("stderr", res.Stderr))
		return false
	}

	manifestPath := filepath.Join(videoDir, "video.mpd")
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		o.logger.Warn("read manifest for post-processing failed", zap.Error(err))
		return true
	}
	processed := dash.PostProcessManifest(string(raw), audioTracks, o.logger)
	if err := os.WriteFile(manifestPath, []byte(processed), 0o644); err != nil {
		o.logger.Warn("write post-processed manifest failed", zap.Error(err))
	}
	return true
}

func (o *Orchestrator) pdfConfig() pdfpipeline.Config {
	return pdfpipeline.Config{
		RenderWidth:  o.cfg.PDF.RenderWidth,
		ThumbnailCRF: o.cfg.PDF.ThumbnailCRF,
		JPGQuality:   o.cfg.PDF.JPGQuality,
	}
}
