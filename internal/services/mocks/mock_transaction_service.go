package mocks

import (
	"context"

	"cashflow-sentinel/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockTransactionService является моком для services.TransactionService интерфейса
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Create(ctx context.Context, userID string, tx *models.Transaction) (*models.Transaction, error) {
	args := m.Called(ctx, userID, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionService) Update(ctx context.Context, userID, id string, patch models.TransactionPatch) (*models.Transaction, error) {
	args := m.Called(ctx, userID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockTransactionService) List(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockTransactionService) Reindex(ctx context.Context, businessID string, limit int) (int, error) {
	args := m.Called(ctx, businessID, limit)
	return args.Int(0), args.Error(1)
}

// MockVectorIndexer является моком для services.VectorIndexer
type MockVectorIndexer struct {
	mock.Mock
}

func (m *MockVectorIndexer) Index(ctx context.Context, ownerID string, tx models.Transaction) error {
	args := m.Called(ctx, ownerID, tx)
	return args.Error(0)
}

func (m *MockVectorIndexer) Remove(ctx context.Context, txID string) error {
	args := m.Called(ctx, txID)
	return args.Error(0)
}
