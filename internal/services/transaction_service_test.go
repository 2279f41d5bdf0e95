package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	kafkamocks "cashflow-sentinel/internal/kafka/mocks"
	"cashflow-sentinel/internal/logger"
	"cashflow-sentinel/internal/models"
	servicemocks "cashflow-sentinel/internal/services/mocks"
	storagemocks "cashflow-sentinel/internal/storage/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingTrigger struct {
	mu    sync.Mutex
	fired []string
}

func (r *recordingTrigger) Fire(businessID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = append(r.fired, businessID)
}

func (r *recordingTrigger) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.fired...)
}

var testBusiness = &models.Business{ID: "biz-1", UserID: "user-1"}

func TestTransactionService_Create_InProcess(t *testing.T) {
	repo := new(storagemocks.MockRepository)
	memory := new(servicemocks.MockVectorIndexer)
	trigger := &recordingTrigger{}

	repo.On("GetBusinessByUser", mock.Anything, "user-1").Return(testBusiness, nil)
	repo.On("SaveTransaction", mock.Anything, mock.AnythingOfType("*models.Transaction")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Transaction).ID = "tx-1" }).
		Return(nil)
	memory.On("Index", mock.Anything, "user-1", mock.MatchedBy(func(tx models.Transaction) bool { return tx.ID == "tx-1" })).Return(nil)

	svc := NewTransactionService(repo, "test", logger.Nop(), WithVectorIndex(memory), WithTrigger(trigger))
	tx, err := svc.Create(context.Background(), "user-1", &models.Transaction{
		Amount:      decimal.NewFromInt(-25000),
		Type:        models.TransactionOut,
		Description: "Beli kopi",
	})
	require.NoError(t, err)
	svc.Wait()

	assert.Equal(t, "biz-1", tx.BusinessID)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(25000)))
	assert.False(t, tx.Date.IsZero())
	assert.Equal(t, []string{"biz-1"}, trigger.calls())
	memory.AssertExpectations(t)
}

func TestTransactionService_Create_VectorFailureDoesNotFailWrite(t *testing.T) {
	repo := new(storagemocks.MockRepository)
	memory := new(servicemocks.MockVectorIndexer)

	repo.On("GetBusinessByUser", mock.Anything, "user-1").Return(testBusiness, nil)
	repo.On("SaveTransaction", mock.Anything, mock.Anything).Return(nil)
	memory.On("Index", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("qdrant unavailable"))

	svc := NewTransactionService(repo, "test", logger.Nop(), WithVectorIndex(memory))
	_, err := svc.Create(context.Background(), "user-1", &models.Transaction{
		Amount: decimal.NewFromInt(10), Type: models.TransactionIn,
	})
	require.NoError(t, err)
	svc.Wait()

	events := logger.GetEventsByType(logger.EventVectorSyncFailed, 1)
	require.NotEmpty(t, events)
}

func TestTransactionService_Create_Validation(t *testing.T) {
	repo := new(storagemocks.MockRepository)
	repo.On("GetBusinessByUser", mock.Anything, "user-1").Return(testBusiness, nil)
	repo.On("GetBusinessByUser", mock.Anything, "ghost").Return(nil, nil)
	svc := NewTransactionService(repo, "test", logger.Nop())

	_, err := svc.Create(context.Background(), "user-1", &models.Transaction{Amount: decimal.NewFromInt(5), Type: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidTransaction)

	_, err = svc.Create(context.Background(), "user-1", &models.Transaction{Amount: decimal.Zero, Type: models.TransactionIn})
	assert.ErrorIs(t, err, ErrInvalidTransaction)

	_, err = svc.Create(context.Background(), "ghost", &models.Transaction{Amount: decimal.NewFromInt(5), Type: models.TransactionIn})
	assert.ErrorIs(t, err, ErrBusinessNotFound)

	repo.AssertNotCalled(t, "SaveTransaction", mock.Anything, mock.Anything)
}

func TestTransactionService_Create_PublishesToKafka(t *testing.T) {
	repo := new(storagemocks.MockRepository)
	producer := new(kafkamocks.MockProducer)
	trigger := &recordingTrigger{}

	repo.On("GetBusinessByUser", mock.Anything, "user-1").Return(testBusiness, nil)
	repo.On("SaveTransaction", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Transaction).ID = "tx-7" }).
		Return(nil)
	producer.On("SendTransactionEvent", mock.Anything, mock.MatchedBy(func(e *models.TransactionEvent) bool {
		return e.EventType == models.EventTransactionCreated && e.BusinessID == "biz-1" &&
			e.OwnerID == "user-1" && e.Transaction != nil && e.TransactionID == "tx-7"
	})).Return(nil)

	svc := NewTransactionService(repo, "test", logger.Nop(), WithProducer(producer), WithTrigger(trigger))
	_, err := svc.Create(context.Background(), "user-1", &models.Transaction{Amount: decimal.NewFromInt(1), Type: models.TransactionIn})
	require.NoError(t, err)

	producer.AssertExpectations(t)
	assert.Empty(t, trigger.calls())
}

func TestTransactionService_PublishFailureFallsBackToTrigger(t *testing.T) {
	repo := new(storagemocks.MockRepository)
	producer := new(kafkamocks.MockProducer)
	trigger := &recordingTrigger{}

	repo.On("GetBusinessByUser", mock.Anything, "user-1").Return(testBusiness, nil)
	repo.On("SaveTransaction", mock.Anything, mock.Anything).Return(nil)
	producer.On("SendTransactionEvent", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	svc := NewTransactionService(repo, "test", logger.Nop(), WithProducer(producer), WithTrigger(trigger))
	_, err := svc.Create(context.Background(), "user-1", &models.Transaction{Amount: decimal.NewFromInt(1), Type: models.TransactionIn})
	require.NoError(t, err)
	assert.Equal(t, []string{"biz-1"}, trigger.calls())
}

func TestTransactionService_UpdateAndDelete(t *testing.T) {
	repo := new(storagemocks.MockRepository)
	memory := new(servicemocks.MockVectorIndexer)
	trigger := &recordingTrigger{}

	stored := &models.Transaction{ID: "tx-1", BusinessID: "biz-1", Amount: decimal.NewFromInt(100), Type: models.TransactionIn, Category: "Penjualan"}
	repo.On("GetBusinessByUser", mock.Anything, "user-1").Return(testBusiness, nil)
	repo.On("GetTransaction", mock.Anything, "tx-1").Return(stored, nil)
	repo.On("GetTransaction", mock.Anything, "foreign").Return(&models.Transaction{ID: "foreign", BusinessID: "biz-2"}, nil)
	repo.On("UpdateTransaction", mock.Anything, mock.Anything).Return(nil)
	repo.On("DeleteTransaction", mock.Anything, "tx-1").Return(nil)
	memory.On("Index", mock.Anything, "user-1", mock.Anything).Return(nil)
	memory.On("Remove", mock.Anything, "tx-1").Return(nil)

	svc := NewTransactionService(repo, "test", logger.Nop(), WithVectorIndex(memory), WithTrigger(trigger))
	ctx := context.Background()

	amount := decimal.NewFromInt(300)
	empty := ""
	updated, err := svc.Update(ctx, "user-1", "tx-1", models.TransactionPatch{Amount: &amount, Category: &empty})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(amount))
	assert.Equal(t, models.DefaultCategory, updated.Category)

	_, err = svc.Update(ctx, "user-1", "foreign", models.TransactionPatch{Amount: &amount})
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	require.NoError(t, svc.Delete(ctx, "user-1", "tx-1"))
	assert.ErrorIs(t, svc.Delete(ctx, "user-1", "foreign"), ErrTransactionNotFound)

	svc.Wait()
	memory.AssertExpectations(t)
	assert.Equal(t, []string{"biz-1", "biz-1"}, trigger.calls())
}

func TestTransactionService_Reindex(t *testing.T) {
	repo := new(storagemocks.MockRepository)
	memory := new(servicemocks.MockVectorIndexer)

	repo.On("GetBusiness", mock.Anything, "biz-1").Return(testBusiness, nil)
	repo.On("GetRecentTransactions", mock.Anything, "biz-1", 50).Return([]models.Transaction{{ID: "a"}, {ID: "b"}}, nil)
	memory.On("Index", mock.Anything, "user-1", mock.Anything).Return(nil)

	svc := NewTransactionService(repo, "test", logger.Nop(), WithVectorIndex(memory))
	n, err := svc.Reindex(context.Background(), "biz-1", 50)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = NewTransactionService(repo, "test", logger.Nop()).Reindex(context.Background(), "biz-1", 50)
	assert.Error(t, err)
}

type detectorFunc func(ctx context.Context, businessID string) (int, error)

func (f detectorFunc) RunDetectionForBusiness(ctx context.Context, id string) (int, error) {
	return f(ctx, id)
}

func TestEventProcessor_Handle(t *testing.T) {
	repo := new(storagemocks.MockRepository)
	memory := new(servicemocks.MockVectorIndexer)
	var detected []string
	detector := detectorFunc(func(_ context.Context, id string) (int, error) {
		detected = append(detected, id)
		return 1, nil
	})

	repo.On("GetTransaction", mock.Anything, "tx-2").Return(&models.Transaction{ID: "tx-2", BusinessID: "biz-1"}, nil)
	memory.On("Index", mock.Anything, "user-1", mock.MatchedBy(func(tx models.Transaction) bool { return tx.ID == "tx-2" })).Return(nil)
	memory.On("Remove", mock.Anything, "tx-3").Return(errors.New("gone"))

	p := NewEventProcessor(repo, memory, detector, "test", logger.Nop())
	ctx := context.Background()

	require.NoError(t, p.Handle(ctx, &models.TransactionEvent{
		EventType: models.EventTransactionUpdated, TransactionID: "tx-2", BusinessID: "biz-1", OwnerID: "user-1",
		OccurredAt: time.Now(),
	}))
	require.NoError(t, p.Handle(ctx, &models.TransactionEvent{
		EventType: models.EventTransactionDeleted, TransactionID: "tx-3", BusinessID: "biz-1", OwnerID: "user-1",
	}))

	assert.Equal(t, []string{"biz-1", "biz-1"}, detected)
	memory.AssertExpectations(t)

	failing := NewEventProcessor(repo, nil, detectorFunc(func(context.Context, string) (int, error) {
		return 0, errors.New("db locked")
	}), "test", logger.Nop())
	assert.Error(t, failing.Handle(ctx, &models.TransactionEvent{BusinessID: "biz-1"}))
}
