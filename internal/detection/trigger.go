package detection

import (
	"context"
	"time"

	"cashflow-sentinel/internal/logger"

	"github.com/rs/zerolog"
)

type BusinessRunner interface {
	RunDetectionForBusiness(ctx context.Context, businessID string) (int, error)
}

// Trigger запускает проверку одного бизнеса в фоне, не блокируя вызывающего
type Trigger struct {
	runner  BusinessRunner
	timeout time.Duration
	log     zerolog.Logger
}

func NewTrigger(runner BusinessRunner, timeout time.Duration, log zerolog.Logger) *Trigger {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Trigger{runner: runner, timeout: timeout, log: log}
}

// Fire возвращается сразу. Ошибки и паники только логируются
func (t *Trigger) Fire(businessID string) {
	go t.run(businessID)
}

func (t *Trigger) run(businessID string) {
	log := logger.WithFields(t.log, map[string]interface{}{
		"business_id": businessID,
		"source":      "trigger",
	})
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("detection trigger panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	n, err := t.runner.RunDetectionForBusiness(ctx, businessID)
	if err != nil {
		log.Error().Err(err).Msg("triggered detection failed")
		return
	}
	log.Debug().Int("alerts", n).Msg("triggered detection completed")
}
