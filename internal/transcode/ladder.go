// Package transcode runs and supervises one resolution ladder's worth of
// Media Tool child processes concurrently, tolerating individual step
// failures the way the rest of the pipeline tolerates partial results.
package transcode

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/contentplatform/mediaworker/internal/domain"
	"github.com/contentplatform/mediaworker/internal/ffmpeg"
	"github.com/contentplatform/mediaworker/internal/planner"
)

// StepResult is one ladder step's outcome: its output path on success, or
// the reason it was dropped.
type StepResult struct {
	Step       domain.LadderStep
	OutputPath string
	Err        error
}

// RunLadder spawns one Media Tool invocation per ladder step, bounded by a
// semaphore of the given width, and waits for all of them. A step that
// fails is logged and returned with its Err set (Survivors drops it); it
// never aborts its siblings. The caller (the video pipeline) decides whether the
// surviving set is enough to proceed.
func RunLadder(ctx context.Context, exec *ffmpeg.Executor, logger *zap.Logger, inputPath string, plan domain.EncodingPlan, backend domain.Accelerator, encCfg planner.EncoderSettings, fpsCap float64, outputDir string, parallelLimit int) []StepResult {
	if parallelLimit <= 0 {
		parallelLimit = 1
	}

	sem := make(chan struct{}, parallelLimit)
	results := make([]StepResult, len(plan.Steps))

	var wg sync.WaitGroup
	for i, step := range plan.Steps {
		wg.Add(1)
		go func(i int, step domain.LadderStep) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			outputPath := filepath.Join(outputDir, fmt.Sprintf("ladder_%s.webm", step.Label))
			params := hwaccelParams(backend, step, plan.HDR, encCfg)
			args := ffmpeg.VideoLadderStepArgs(inputPath, params, fpsCap, outputPath)

			res := exec.Run(ctx, args)
			if !res.Success() {
				logger.Warn("ladder step failed",
					zap.String("label", step.Label),
					zap.Int("exit_code", res.ExitCode),
					zap.Error(res.Err),
				)
				results[i] = StepResult{Step: step, Err: fmt.Errorf("ladder step %s: %w", step.Label, res.Err)}
				return
			}

			results[i] = StepResult{Step: step, OutputPath: outputPath}
		}(i, step)
	}

	wg.Wait()
	return results
}

// Survivors filters RunLadder's results down to the output paths that
// succeeded, in ladder order.
func Survivors(results []StepResult) []string {
	var paths []string
	for _, r := range results {
		if r.Err == nil {
			paths = append(paths, r.OutputPath)
		}
	}
	return paths
}

func hwaccelParams(backend domain.Accelerator, step domain.LadderStep, hdr bool, cfg planner.EncoderSettings) domain.EncoderParams {
	return planner.BuildEncoderParams(backend, step, hdr, cfg)
}
