package orchestrate

import (
	"context"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/contentplatform/mediaworker/internal/ffmpeg"
)

// processPicture runs the three independent image transcodes (full AVIF,
// AVIF thumbnail, JPEG thumbnail) in parallel. The full AVIF is mandatory.
func (o *Orchestrator) processPicture(ctx context.Context, inputPath, processingDir string) Result {
	pic := o.cfg.Picture
	var wg sync.WaitGroup
	var fullOK bool

	wg.Add(1)
	go func() {
		defer wg.Done()
		args := ffmpeg.PictureTranscodeArgs(inputPath, pic.CRF, 0, 0, filepath.Join(processingDir, "picture.avif"))
		res := o.exec.Run(ctx, args)
		fullOK = res.Success()
		if !fullOK {
			o.logger.Warn("full picture transcode failed", zap.Error(res.Err))
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		args := ffmpeg.PictureTranscodeArgs(inputPath, pic.ThumbnailCRF, pic.ThumbnailWidth, pic.ThumbnailHeight, filepath.Join(processingDir, "thumbnail.avif"))
		if res := o.exec.Run(ctx, args); !res.Success() {
			o.logger.Warn("thumbnail avif transcode failed", zap.Error(res.Err))
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		args := ffmpeg.PictureJPEGArgs(inputPath, pic.JPGQuality, pic.ThumbnailWidth, pic.ThumbnailHeight, filepath.Join(processingDir, "thumbnail.jpg"))
		if res := o.exec.Run(ctx, args); !res.Success() {
			o.logger.Warn("thumbnail jpeg transcode failed", zap.Error(res.Err))
		}
	}()

	wg.Wait()
	return Result{Committed: fullOK}
}
