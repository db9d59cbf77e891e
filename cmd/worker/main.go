// Command worker is the media ingestion and post-processing worker: it
// loads configuration, opens the queue store, and runs the poll loop until
// terminated.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/contentplatform/mediaworker/internal/classify"
	"github.com/contentplatform/mediaworker/internal/config"
	"github.com/contentplatform/mediaworker/internal/domain"
	"github.com/contentplatform/mediaworker/internal/ffmpeg"
	"github.com/contentplatform/mediaworker/internal/httpclient"
	"github.com/contentplatform/mediaworker/internal/orchestrate"
	"github.com/contentplatform/mediaworker/internal/pdfpipeline"
	"github.com/contentplatform/mediaworker/internal/probe"
	"github.com/contentplatform/mediaworker/internal/scheduler"
	"github.com/contentplatform/mediaworker/internal/store"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the worker's JSON configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	db, err := store.Open(cfg.DBConnection)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer db.Close()

	prober := probe.NewProber(cfg.FFprobePath, cfg.FFmpegPath)
	classifier := classify.NewClassifier(cfg.FFprobePath)
	exec := ffmpeg.NewExecutor(cfg.FFmpegPath)

	var sttClient domain.STTClient
	if cfg.Whisper.URL != "" {
		sttClient = httpclient.NewSTTClient(cfg.Whisper.URL, time.Duration(cfg.Whisper.RequestTimeoutMS)*time.Millisecond)
	}
	var llmClient domain.LLMClient
	if cfg.LLM.URL != "" {
		llmClient = httpclient.NewLLMClient(cfg.LLM.URL, time.Duration(cfg.Translation.RequestTimeoutMS)*time.Millisecond)
	}

	orch := orchestrate.New(cfg, logger, prober, exec, sttClient, llmClient, &pdfpipeline.FitzEngine{})
	sched := scheduler.New(db, classifier, orch, logger, cfg.UploadDir, time.Duration(cfg.PollInterval)*time.Millisecond)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("worker starting", zap.String("upload_dir", cfg.UploadDir))
	sched.Run(ctx)
	logger.Info("worker stopped")
}

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "json"
	}
	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build()
}
