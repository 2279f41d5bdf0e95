package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"cashflow-sentinel/internal/kafka"
	"cashflow-sentinel/internal/logger"
	"cashflow-sentinel/internal/models"
	"cashflow-sentinel/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrBusinessNotFound    = errors.New("no business found for this user")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransaction  = errors.New("invalid transaction")
)

const defaultSyncTimeout = 15 * time.Second

type Repository interface {
	storage.TransactionRepository
	storage.BusinessRepository
}

// TransactionServiceImpl реализует интерфейс TransactionService.
// Запись в хранилище первична, векторная синхронизация и детекция идут после нее и не валят запрос
type TransactionServiceImpl struct {
	repo        Repository
	memory      VectorIndexer
	producer    kafka.Producer
	trigger     DetectionTrigger
	syncTimeout time.Duration
	service     string
	log         zerolog.Logger
	inflight    sync.WaitGroup
}

type Option func(*TransactionServiceImpl)

func WithVectorIndex(m VectorIndexer) Option {
	return func(s *TransactionServiceImpl) { s.memory = m }
}

func WithProducer(p kafka.Producer) Option {
	return func(s *TransactionServiceImpl) { s.producer = p }
}

func WithTrigger(t DetectionTrigger) Option {
	return func(s *TransactionServiceImpl) { s.trigger = t }
}

func WithSyncTimeout(d time.Duration) Option {
	return func(s *TransactionServiceImpl) {
		if d > 0 {
			s.syncTimeout = d
		}
	}
}

// NewTransactionService создает новый сервис транзакций
func NewTransactionService(repo Repository, service string, log zerolog.Logger, opts ...Option) *TransactionServiceImpl {
	s := &TransactionServiceImpl{
		repo:        repo,
		syncTimeout: defaultSyncTimeout,
		service:     service,
		log:         log.With().Str("component", "transactions").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ TransactionService = (*TransactionServiceImpl)(nil)

func (s *TransactionServiceImpl) businessOf(ctx context.Context, userID string) (*models.Business, error) {
	b, err := s.repo.GetBusinessByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}
	if b == nil {
		return nil, ErrBusinessNotFound
	}
	return b, nil
}

func validate(tx *models.Transaction) error {
	if !tx.Type.Valid() {
		return fmt.Errorf("%w: type must be in or out", ErrInvalidTransaction)
	}
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTransaction)
	}
	return nil
}

// Create сохраняет транзакцию. Дата по умолчанию сейчас, категория Lainnya, статус completed
func (s *TransactionServiceImpl) Create(ctx context.Context, userID string, tx *models.Transaction) (*models.Transaction, error) {
	business, err := s.businessOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx.Amount = tx.Amount.Abs()
	if err := validate(tx); err != nil {
		return nil, err
	}
	tx.BusinessID = business.ID
	tx.Category = strings.TrimSpace(tx.Category)
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}

	if err := s.repo.SaveTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("save transaction: %w", err)
	}

	s.afterWrite(business, models.EventTransactionCreated, tx)
	return tx, nil
}

func (s *TransactionServiceImpl) owned(ctx context.Context, userID, id string) (*models.Business, *models.Transaction, error) {
	business, err := s.businessOf(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get transaction: %w", err)
	}
	// Чужая транзакция неотличима от отсутствующей
	if tx == nil || tx.BusinessID != business.ID {
		return nil, nil, ErrTransactionNotFound
	}
	return business, tx, nil
}

func (s *TransactionServiceImpl) Update(ctx context.Context, userID, id string, patch models.TransactionPatch) (*models.Transaction, error) {
	business, tx, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Date != nil {
		tx.Date = *patch.Date
	}
	if patch.Amount != nil {
		tx.Amount = patch.Amount.Abs()
	}
	if patch.Type != nil {
		tx.Type = *patch.Type
	}
	if patch.Category != nil {
		tx.Category = strings.TrimSpace(*patch.Category)
		if tx.Category == "" {
			tx.Category = models.DefaultCategory
		}
	}
	if patch.Description != nil {
		tx.Description = *patch.Description
	}
	if err := validate(tx); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	s.afterWrite(business, models.EventTransactionUpdated, tx)
	return tx, nil
}

func (s *TransactionServiceImpl) Delete(ctx context.Context, userID, id string) error {
	business, tx, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTransaction(ctx, tx.ID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.afterWrite(business, models.EventTransactionDeleted, tx)
	return nil
}

func (s *TransactionServiceImpl) List(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	business, err := s.businessOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	return s.repo.GetRecentTransactions(ctx, business.ID, limit)
}

// Reindex синхронно индексирует последние limit транзакций бизнеса
func (s *TransactionServiceImpl) Reindex(ctx context.Context, businessID string, limit int) (int, error) {
	if s.memory == nil {
		return 0, errors.New("vector index is not configured")
	}
	business, err := s.repo.GetBusiness(ctx, businessID)
	if err != nil {
		return 0, fmt.Errorf("get business: %w", err)
	}
	if business == nil {
		return 0, ErrBusinessNotFound
	}

	txs, err := s.repo.GetRecentTransactions(ctx, businessID, limit)
	if err != nil {
		return 0, fmt.Errorf("recent transactions: %w", err)
	}
	indexed := 0
	for _, tx := range txs {
		if err := s.memory.Index(ctx, business.UserID, tx); err != nil {
			return indexed, err
		}
		indexed++
	}
	return indexed, nil
}

// Wait дожидается фоновых синхронизаций, используется при остановке
func (s *TransactionServiceImpl) Wait() {
	s.inflight.Wait()
}

// afterWrite с Kafka публикует событие для воркера, иначе или при ошибке публикации
// синхронизирует индекс и запускает детекцию в процессе
func (s *TransactionServiceImpl) afterWrite(business *models.Business, eventType models.TransactionEventType, tx *models.Transaction) {
	if s.producer != nil {
		event := &models.TransactionEvent{
			EventID:       "evt_" + uuid.NewString(),
			EventType:     eventType,
			TransactionID: tx.ID,
			BusinessID:    business.ID,
			OwnerID:       business.UserID,
			OccurredAt:    time.Now(),
		}
		if eventType != models.EventTransactionDeleted {
			snapshot := *tx
			event.Transaction = &snapshot
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.syncTimeout)
		err := s.producer.SendTransactionEvent(ctx, event)
		cancel()
		if err == nil {
			logger.LogEvent(logger.EventKafkaSent, s.service, logger.ComponentKafka, map[string]interface{}{
				"event_id":       event.EventID,
				"event_type":     string(eventType),
				"transaction_id": tx.ID,
				"business_id":    business.ID,
			})
			return
		}
		s.log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("kafka publish failed, falling back to in-process sync")
	}

	s.syncVector(business.UserID, eventType, *tx)
	if s.trigger != nil {
		s.trigger.Fire(business.ID)
	}
}

func (s *TransactionServiceImpl) syncVector(ownerID string, eventType models.TransactionEventType, tx models.Transaction) {
	if s.memory == nil {
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.syncTimeout)
		defer cancel()

		if err := SyncVector(ctx, s.memory, ownerID, eventType, tx); err != nil {
			s.log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("vector sync failed")
			logger.LogEvent(logger.EventVectorSyncFailed, s.service, logger.ComponentVector, map[string]interface{}{
				"transaction_id": tx.ID,
				"error":          err.Error(),
			})
			return
		}
		logVectorSync(s.service, eventType, tx.ID)
	}()
}

// SyncVector применяет изменение транзакции к векторному индексу
func SyncVector(ctx context.Context, memory VectorIndexer, ownerID string, eventType models.TransactionEventType, tx models.Transaction) error {
	if eventType == models.EventTransactionDeleted {
		return memory.Remove(ctx, tx.ID)
	}
	return memory.Index(ctx, ownerID, tx)
}

func logVectorSync(service string, eventType models.TransactionEventType, txID string) {
	evt := logger.EventVectorUpserted
	if eventType == models.EventTransactionDeleted {
		evt = logger.EventVectorDeleted
	}
	logger.LogEvent(evt, service, logger.ComponentVector, map[string]interface{}{
		"transaction_id": txID,
	})
}
