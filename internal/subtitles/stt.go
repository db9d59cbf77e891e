package subtitles

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/contentplatform/mediaworker/internal/domain"
	"github.com/contentplatform/mediaworker/internal/ffmpeg"
)

type STTConfig struct {
	Model             string
	ResponseFormat    string
	Temperature       float64
	TargetChunkSecs   float64
	MaxChunkSecs      float64
	SilenceNoiseDB    float64
	SilenceMinDurSecs float64
	ParallelLimit     int
}

// GenerateViaSTT produces one merged WebVTT transcript by chunking audio
// at silence boundaries (when the file is long enough to need it),
// transcribing each chunk independently, and stitching the results back
// into a single timeline. A chunk that fails to transcribe leaves a gap
// rather than aborting the whole track.
func GenerateViaSTT(ctx context.Context, exec *ffmpeg.Executor, stt domain.STTClient, logger *zap.Logger, inputPath string, duration float64, detect DetectSilenceFunc, cfg STTConfig, workDir string) (string, error) {
	var boundaries []domain.ChunkBoundary
	if duration > cfg.TargetChunkSecs {
		windows := BuildSilenceWindows(duration, cfg.TargetChunkSecs, cfg.MaxChunkSecs)
		silences := DetectWindowedSilence(ctx, windows, detect, cfg.ParallelLimit)
		boundaries = ComputeSplitPoints(duration, cfg.TargetChunkSecs, cfg.MaxChunkSecs, silences)
	} else {
		boundaries = []domain.ChunkBoundary{{Start: 0, End: duration}}
	}

	bodies := make([]string, len(boundaries))
	for i, b := range boundaries {
		body, err := transcribeChunk(ctx, exec, stt, inputPath, b, cfg, workDir, i)
		if err != nil {
			logger.Warn("stt chunk failed, leaving gap", zap.Int("chunk", i), zap.Error(err))
			continue
		}
		bodies[i] = body
	}

	return MergeChunkTranscripts(bodies, boundaries), nil
}

func transcribeChunk(ctx context.Context, exec *ffmpeg.Executor, stt domain.STTClient, inputPath string, b domain.ChunkBoundary, cfg STTConfig, workDir string, idx int) (string, error) {
	chunkPath := filepath.Join(workDir, fmt.Sprintf("stt_chunk_%d.wav", idx))
	defer os.Remove(chunkPath)

	args := ffmpeg.PCM16MonoArgs(inputPath, b.Start, b.End-b.Start, chunkPath)
	if res := exec.Run(ctx, args); !res.Success() {
		return "", fmt.Errorf("extract chunk audio: %s", res.Stderr)
	}

	timeout := time.Duration(math.Ceil((b.End-b.Start)*2)) * time.Second
	chunkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := stt.Transcribe(chunkCtx, chunkPath, cfg.Model, cfg.ResponseFormat, cfg.Temperature)
	if err != nil {
		return "", fmt.Errorf("transcribe chunk: %w", err)
	}
	return body, nil
}

// DetectLanguage samples the first 30s of audio and asks the STT Service
// for verbose_json, returning the normalized ISO-639-1 code when present.
func DetectLanguage(ctx context.Context, exec *ffmpeg.Executor, stt domain.STTClient, inputPath string, cfg STTConfig, workDir string) (string, bool) {
	sample := filepath.Join(workDir, "stt_lang_sample.wav")
	defer os.Remove(sample)

	args := ffmpeg.PCM16MonoArgs(inputPath, 0, 30, sample)
	if res := exec.Run(ctx, args); !res.Success() {
		return "", false
	}

	body, err := stt.Transcribe(ctx, sample, cfg.Model, "verbose_json", cfg.Temperature)
	if err != nil {
		return "", false
	}

	lang, ok := parseLanguageField(body)
	if !ok {
		return "", false
	}
	return NormalizeISO639(lang)
}
