// Package scheduler is the outer poll loop of C8: it claims unprocessed
// concepts from the store one at a time, classifies each, hands it to the
// orchestrator's per-type DAG, and applies the commit/delete-or-rename
// semantics described for the scheduler component. The per-item DAG itself
// (concurrent arms, barrier join) lives in internal/orchestrate; this
// package only owns sequencing between concepts and the store interaction.
package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contentplatform/mediaworker/internal/classify"
	"github.com/contentplatform/mediaworker/internal/domain"
	"github.com/contentplatform/mediaworker/internal/orchestrate"
)

// Scheduler owns the poll loop. Between concepts it runs strictly
// sequentially, bounding total resource use on a single host; parallelism
// happens only within one concept's DAG.
type Scheduler struct {
	store        domain.Store
	classifier   *classify.Classifier
	orchestrator *orchestrate.Orchestrator
	logger       *zap.Logger

	uploadDir    string
	pollInterval time.Duration
}

func New(store domain.Store, classifier *classify.Classifier, orchestrator *orchestrate.Orchestrator, logger *zap.Logger, uploadDir string, pollInterval time.Duration) *Scheduler {
	return &Scheduler{
		store:        store,
		classifier:   classifier,
		orchestrator: orchestrator,
		logger:       logger,
		uploadDir:    uploadDir,
		pollInterval: pollInterval,
	}
}

// Run polls forever until ctx is cancelled, draining the in-flight concept
// (if any) before returning. A poll-time store error is logged and retried
// after the configured interval; it never stops the loop.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

func (s *Scheduler) pollOnce(ctx context.Context) {
	concepts, err := s.store.Poll(ctx)
	if err != nil {
		s.logger.Warn("poll failed, will retry next tick", zap.Error(err))
		return
	}

	for _, c := range concepts {
		if ctx.Err() != nil {
			return
		}
		s.processOne(ctx, c)
	}
}

// processOne runs one concept's full lifecycle: missing-input and
// unknown-type terminal giveups, the classified DAG, and the commit step.
// It never returns an error; every outcome is either a store mutation or a
// logged, retried-next-poll no-op.
func (s *Scheduler) processOne(ctx context.Context, c domain.Concept) {
	logger := s.logger.With(zap.String("concept_id", c.ID), zap.String("run_id", uuid.New().String()))
	inputPath := filepath.Join(s.uploadDir, c.ID)

	if _, err := os.Stat(inputPath); err != nil {
		logger.Info("input file missing, marking processed")
		s.ack(ctx, logger, c.ID)
		return
	}

	conceptType := s.classifier.Detect(ctx, inputPath)
	if conceptType == domain.TypeNone || conceptType == domain.TypeOther {
		logger.Info("unclassifiable input, marking processed", zap.String("type", string(conceptType)))
		s.ack(ctx, logger, c.ID)
		return
	}

	processingDir := filepath.Join(s.uploadDir, c.ProcessingDir())
	if err := os.MkdirAll(processingDir, 0o755); err != nil {
		logger.Warn("create processing dir failed, will retry next poll", zap.Error(err))
		return
	}

	result := s.orchestrator.Process(ctx, conceptType, inputPath, processingDir)
	if !result.Committed {
		logger.Warn("mandatory artifact missing, leaving unprocessed for retry", zap.String("type", string(conceptType)))
		return
	}

	if !s.ack(ctx, logger, c.ID) {
		logger.Warn("commit failed, leaving raw input in place for retry", zap.String("type", string(conceptType)))
		return
	}

	if result.PDF {
		if err := os.Rename(inputPath, filepath.Join(processingDir, "document.pdf")); err != nil {
			logger.Warn("rename pdf input into processing dir failed", zap.Error(err))
		}
		return
	}

	if err := os.Remove(inputPath); err != nil {
		logger.Warn("delete raw input failed", zap.Error(err))
	}
}

// ack reports whether the store accepted the commit. A failed ack must
// never be followed by deleting or renaming the raw input: the concept has
// to come back on the next poll and retry the commit, per the store
// contract's at-most-once guarantee.
func (s *Scheduler) ack(ctx context.Context, logger *zap.Logger, id string) bool {
	if err := s.store.Ack(ctx, id); err != nil {
		logger.Warn("ack failed, will retry next poll", zap.Error(err))
		return false
	}
	return true
}
