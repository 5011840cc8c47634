// Package scheduler runs the ingestion pipeline on a recurring schedule:
// the live pass on a short cron interval and the history backfill nightly.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/bezalele/BetOddsIngestor/internal/ingest"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler owns the cron lifecycle. Runs do not overlap themselves: a live
// run still in flight when the next tick fires causes the tick to be skipped.
type Scheduler struct {
	pipeline     *ingest.Pipeline
	cron         *cron.Cron
	pipelineCron string
	historyCron  string
	runTimeout   time.Duration
	running      chan struct{}
}

func New(pipeline *ingest.Pipeline, pipelineCron, historyCron string, runTimeout time.Duration) *Scheduler {
	return &Scheduler{
		pipeline:     pipeline,
		cron:         cron.New(),
		pipelineCron: pipelineCron,
		historyCron:  historyCron,
		runTimeout:   runTimeout,
		running:      make(chan struct{}, 1),
	}
}

// Start registers both jobs and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.pipelineCron, func() {
		s.runGuarded(ctx, "live", s.pipeline.Run)
	}); err != nil {
		return fmt.Errorf("failed to schedule live pipeline: %w", err)
	}

	if _, err := s.cron.AddFunc(s.historyCron, func() {
		s.runGuarded(ctx, "history", s.pipeline.RunHistory)
	}); err != nil {
		return fmt.Errorf("failed to schedule history backfill: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("pipeline_cron", s.pipelineCron).
		Str("history_cron", s.historyCron).
		Msg("Ingestion jobs scheduled")

	return nil
}

// Stop stops the cron loop. Jobs already running are not interrupted; their
// context deadline bounds them.
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	s.cron.Stop()
	log.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) runGuarded(ctx context.Context, mode string, run func(context.Context) error) {
	select {
	case s.running <- struct{}{}:
	default:
		log.Warn().Str("mode", mode).Msg("Previous run still in progress, skipping tick")
		return
	}
	defer func() { <-s.running }()

	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	if err := run(runCtx); err != nil {
		log.Error().Err(err).Str("mode", mode).Msg("Scheduled run failed")
	}
}
