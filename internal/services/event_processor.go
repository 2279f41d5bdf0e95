package services

import (
	"context"
	"fmt"

	"cashflow-sentinel/internal/models"

	"github.com/rs/zerolog"
)

// EventProcessor обрабатывает события из Kafka на стороне воркера:
// синхронизирует векторный индекс и проверяет бизнес
type EventProcessor struct {
	repo     TransactionReader
	memory   VectorIndexer
	detector BusinessDetector
	service  string
	log      zerolog.Logger
}

type TransactionReader interface {
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
}

func NewEventProcessor(repo TransactionReader, memory VectorIndexer, detector BusinessDetector, service string, log zerolog.Logger) *EventProcessor {
	return &EventProcessor{
		repo:     repo,
		memory:   memory,
		detector: detector,
		service:  service,
		log:      log.With().Str("component", "event_processor").Logger(),
	}
}

// Handle ошибка векторной синхронизации только логируется, ошибка детекции возвращается
func (p *EventProcessor) Handle(ctx context.Context, event *models.TransactionEvent) error {
	if p.memory != nil {
		p.syncVector(ctx, event)
	}

	n, err := p.detector.RunDetectionForBusiness(ctx, event.BusinessID)
	if err != nil {
		return fmt.Errorf("detection for business %s: %w", event.BusinessID, err)
	}
	p.log.Debug().Str("business_id", event.BusinessID).Int("alerts", n).Msg("event processed")
	return nil
}

func (p *EventProcessor) syncVector(ctx context.Context, event *models.TransactionEvent) {
	tx := models.Transaction{ID: event.TransactionID, BusinessID: event.BusinessID}
	if event.EventType != models.EventTransactionDeleted {
		if event.Transaction != nil {
			tx = *event.Transaction
		} else {
			stored, err := p.repo.GetTransaction(ctx, event.TransactionID)
			if err != nil || stored == nil {
				p.log.Warn().Err(err).Str("transaction_id", event.TransactionID).Msg("transaction for event not found")
				return
			}
			tx = *stored
		}
	}

	if err := SyncVector(ctx, p.memory, event.OwnerID, event.EventType, tx); err != nil {
		p.log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("vector sync failed")
		return
	}
	logVectorSync(p.service, event.EventType, tx.ID)
}
