package orchestrate

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/contentplatform/mediaworker/internal/domain"
	"github.com/contentplatform/mediaworker/internal/ffmpeg"
)

// processAudio runs subtitle+chapter extraction alongside audio transcoding
// and (when the source carries an attached picture, i.e. cover art) cover
// extraction. The mandatory artifact is the primary audio transcode.
func (o *Orchestrator) processAudio(ctx context.Context, inputPath, processingDir string) Result {
	p := o.prober.Probe(ctx, inputPath)
	if !p.HasAudio() {
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
		mandatoryOK = o.runAudioTranscodeArm(ctx, inputPath, processingDir, p)
	}()

	if p.HasVideo() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.extractAlbumCover(ctx, inputPath, processingDir)
		}()
	}

	wg.Wait()
	return Result{Committed: mandatoryOK}
}

func (o *Orchestrator) isLossless(codec string) bool {
	for _, c := range o.cfg.Audio.LosslessCodecs {
		if strings.EqualFold(c, codec) {
			return true
		}
	}
	return false
}

func (o *Orchestrator) runAudioTranscodeArm(ctx context.Context, inputPath, processingDir string, p domain.Probe) bool {
	a := o.cfg.Audio
	ok := false
	for i, stream := range p.Audios {
		bitrate := a.LossyBitrate
		if o.isLossless(stream.Codec) {
			bitrate = a.LosslessBitrate
		}

		suffix := ""
		if i > 0 {
			suffix = "_" + strconv.Itoa(i)
		}
		outPath := filepath.Join(processingDir, "audio"+suffix+"."+a.OutputFormat)

		args := ffmpeg.AudioTranscodeArgs(inputPath, i, a.Codec, bitrate, a.VBR, a.Application, outPath)
		res := o.exec.Run(ctx, args)
		if !res.Success() {
			o.logger.Warn("audio transcode failed", zap.Int("stream_index", stream.Index), zap.Error(res.Err))
			continue
		}
		if i == 0 {
			ok = true
		}
	}
	return ok
}

func (o *Orchestrator) extractAlbumCover(ctx context.Context, inputPath, processingDir string) {
	pic := o.cfg.Picture
	avifPath := filepath.Join(processingDir, "picture.avif")
	args := ffmpeg.PictureTranscodeArgs(inputPath, pic.CoverCRF, 0, 0, avifPath)
	if res := o.exec.Run(ctx, args); !res.Success() {
		o.logger.Warn("album cover extraction failed", zap.Error(res.Err))
		return
	}

	thumbPath := filepath.Join(processingDir, "thumbnail.avif")
	thumbArgs := ffmpeg.PictureTranscodeArgs(inputPath, pic.CoverThumbnailCRF, pic.ThumbnailWidth, pic.ThumbnailHeight, thumbPath)
	if res := o.exec.Run(ctx, thumbArgs); !res.Success() {
		o.logger.Warn("album cover thumbnail failed", zap.Error(res.Err))
	}
}
