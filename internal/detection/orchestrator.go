// Package detection выбирает бизнесы для проверки, ищет выбросы и превращает их в алерты
package detection

import (
	"context"
	"fmt"
	"time"

	"cashflow-sentinel/internal/config"
	"cashflow-sentinel/internal/isolation"
	"cashflow-sentinel/internal/logger"
	"cashflow-sentinel/internal/models"
	"cashflow-sentinel/internal/storage"

	"github.com/rs/zerolog"
)

type Enricher interface {
	Enrich(ctx context.Context, txs []models.Transaction) []models.AlertDraft
}

type AlertPersister interface {
	Persist(ctx context.Context, businessID string, drafts []models.AlertDraft) (int, error)
}

// Locker не дает двум процессам одновременно сканировать один бизнес
type Locker interface {
	AcquireDetectionLock(ctx context.Context, businessID string) (token string, ok bool, err error)
	ReleaseDetectionLock(ctx context.Context, businessID, token string) error
}

type Repository interface {
	storage.TransactionRepository
	storage.BusinessRepository
}

type Orchestrator struct {
	repo     Repository
	enricher Enricher
	alerts   AlertPersister
	features *FeatureExtractor
	locker   Locker
	cfg      config.DetectionConfig
	service  string
	log      zerolog.Logger
	now      func() time.Time
}

type Option func(*Orchestrator)

func WithLocker(l Locker) Option {
	return func(o *Orchestrator) { o.locker = l }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func NewOrchestrator(repo Repository, enricher Enricher, alerts AlertPersister, cfg config.DetectionConfig, service string, log zerolog.Logger, opts ...Option) (*Orchestrator, error) {
	features, err := NewFeatureExtractor(cfg.Features)
	if err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	o := &Orchestrator{
		repo:     repo,
		enricher: enricher,
		alerts:   alerts,
		features: features,
		cfg:      cfg,
		service:  service,
		log:      log.With().Str("component", "detection").Logger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

func applyDefaults(cfg *config.DetectionConfig) {
	if cfg.BusinessBatch <= 0 {
		cfg.BusinessBatch = 5
	}
	if cfg.TxLimit <= 0 {
		cfg.TxLimit = 50
	}
	if cfg.MinTransactions <= 0 {
		cfg.MinTransactions = 5
	}
	// 0 допустимый порог, отрицательный считаем незаданным
	if cfg.Threshold < 0 {
		cfg.Threshold = 0.5
	}
	if cfg.ThrottleWindow <= 0 {
		cfg.ThrottleWindow = 24 * time.Hour
	}
}

// RunDetection сканирует очередную пачку бизнесов и возвращает число новых алертов.
// Ошибка одного бизнеса не прерывает пачку
func (o *Orchestrator) RunDetection(ctx context.Context) (int, error) {
	var checkedBefore time.Time
	if o.cfg.ThrottleEnabled {
		checkedBefore = o.now().Add(-o.cfg.ThrottleWindow)
	}

	businesses, err := o.repo.ListBusinessesForDetection(ctx, checkedBefore, o.cfg.BusinessBatch)
	if err != nil {
		return 0, fmt.Errorf("list businesses: %w", err)
	}

	logger.LogEvent(logger.EventDetectionStarted, o.service, logger.ComponentDetection, map[string]interface{}{
		"businesses": len(businesses),
	})

	total := 0
	failed := 0
	for _, b := range businesses {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := o.RunDetectionForBusiness(ctx, b.ID)
		total += n
		if err != nil {
			failed++
			log := logger.FromContext(ctx, o.log)
			log.Error().Err(err).Str("business_id", b.ID).Msg("detection failed for business")
			continue
		}
	}

	logger.LogEvent(logger.EventDetectionCompleted, o.service, logger.ComponentDetection, map[string]interface{}{
		"businesses":     len(businesses),
		"failed":         failed,
		"alerts_created": total,
	})
	o.log.Info().Int("businesses", len(businesses)).Int("failed", failed).Int("alerts", total).Msg("detection run completed")
	return total, nil
}

// RunDetectionForBusiness проверяет один бизнес. lastAnomalyCheck обновляется
// и при чистом результате, и при нехватке данных. При частичной ошибке сохранения
// возвращает число уже созданных алертов, а отметку не ставит: повтор отсечет дедупликация
func (o *Orchestrator) RunDetectionForBusiness(ctx context.Context, businessID string) (int, error) {
	log := logger.WithFields(logger.FromContext(ctx, o.log), map[string]interface{}{"business_id": businessID})
	if o.locker != nil {
		token, ok, err := o.locker.AcquireDetectionLock(ctx, businessID)
		if err != nil {
			log.Warn().Err(err).Msg("lock unavailable, scanning without it")
		} else if !ok {
			logger.LogEvent(logger.EventBusinessSkipped, o.service, logger.ComponentDetection, map[string]interface{}{
				"business_id": businessID,
				"reason":      "locked",
			})
			return 0, nil
		} else {
			defer func() {
				if err := o.locker.ReleaseDetectionLock(context.WithoutCancel(ctx), businessID, token); err != nil {
					log.Warn().Err(err).Msg("failed to release detection lock")
				}
			}()
		}
	}

	created, err := o.scan(ctx, businessID)
	if err != nil {
		if created > 0 {
			log.Warn().Err(err).Int("alerts", created).Msg("alerts partially persisted, check not stamped")
		}
		return created, err
	}

	if err := o.repo.UpdateLastAnomalyCheck(ctx, businessID, o.now()); err != nil {
		return created, fmt.Errorf("update last anomaly check: %w", err)
	}
	return created, nil
}

func (o *Orchestrator) scan(ctx context.Context, businessID string) (int, error) {
	txs, err := o.repo.GetRecentTransactions(ctx, businessID, o.cfg.TxLimit)
	if err != nil {
		return 0, fmt.Errorf("recent transactions: %w", err)
	}

	if len(txs) < o.cfg.MinTransactions {
		logger.LogEvent(logger.EventBusinessSkipped, o.service, logger.ComponentDetection, map[string]interface{}{
			"business_id":  businessID,
			"reason":       "insufficient_data",
			"transactions": len(txs),
		})
		return 0, nil
	}

	scores, err := isolation.ScoreBatch(o.features.Extract(txs), isolation.Options{
		Trees:      o.cfg.Trees,
		SampleSize: o.cfg.SampleSize,
		Seed:       o.cfg.Seed,
	})
	if err != nil {
		return 0, fmt.Errorf("score transactions: %w", err)
	}

	selected := isolation.Select(scores, o.cfg.Threshold)
	logger.LogEvent(logger.EventBusinessScanned, o.service, logger.ComponentDetection, map[string]interface{}{
		"business_id":  businessID,
		"transactions": len(txs),
		"outliers":     len(selected),
	})
	if len(selected) == 0 {
		return 0, nil
	}

	anomalous := make([]models.Transaction, 0, len(selected))
	for _, i := range selected {
		anomalous = append(anomalous, txs[i])
	}

	drafts := o.enricher.Enrich(ctx, anomalous)
	if len(drafts) == 0 {
		return 0, nil
	}

	created, err := o.alerts.Persist(ctx, businessID, drafts)
	if err != nil {
		return created, fmt.Errorf("persist alerts: %w", err)
	}
	return created, nil
}
