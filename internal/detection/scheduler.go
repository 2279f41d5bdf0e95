package detection

import (
	"context"
	"sync"
	"time"

	"cashflow-sentinel/internal/logger"

	"github.com/rs/zerolog"
)

type BatchRunner interface {
	RunDetection(ctx context.Context) (int, error)
}

// Scheduler периодически запускает RunDetection. Первый запуск сразу при старте
type Scheduler struct {
	runner   BatchRunner
	interval time.Duration
	log      zerolog.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewScheduler(runner BatchRunner, interval time.Duration, log zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &Scheduler{
		runner:   runner,
		interval: interval,
		log:      log.With().Str("component", "detection_scheduler").Logger(),
		stopCh:   make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info().Dur("interval", s.interval).Msg("scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("context cancelled, scheduler exiting")
			return
		case <-s.stopCh:
			s.log.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *Scheduler) runOnce(ctx context.Context) {
	log := logger.WithFields(s.log, map[string]interface{}{"source": "scheduler"})
	n, err := s.runner.RunDetection(logger.WithContext(ctx, log))
	if err != nil {
		log.Error().Err(err).Msg("detection run failed")
		return
	}
	log.Info().Int("alerts", n).Msg("detection run complete")
}
