package mocks

import (
	"context"
	"time"

	"cashflow-sentinel/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockRepository является моком для storage.Repository интерфейса
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SaveTransaction(ctx context.Context, tx *models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRepository) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRepository) DeleteTransaction(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockRepository) GetRecentTransactions(ctx context.Context, businessID string, limit int) ([]models.Transaction, error) {
	args := m.Called(ctx, businessID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockRepository) SaveBusiness(ctx context.Context, b *models.Business) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockRepository) GetBusiness(ctx context.Context, id string) (*models.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Business), args.Error(1)
}

func (m *MockRepository) GetBusinessByUser(ctx context.Context, userID string) (*models.Business, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Business), args.Error(1)
}

func (m *MockRepository) ListBusinessesForDetection(ctx context.Context, checkedBefore time.Time, limit int) ([]models.Business, error) {
	args := m.Called(ctx, checkedBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Business), args.Error(1)
}

func (m *MockRepository) UpdateLastAnomalyCheck(ctx context.Context, businessID string, at time.Time) error {
	args := m.Called(ctx, businessID, at)
	return args.Error(0)
}

func (m *MockRepository) CreateAlert(ctx context.Context, alert *models.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockRepository) GetAlert(ctx context.Context, id string) (*models.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

func (m *MockRepository) FindRecentAlertByTitle(ctx context.Context, businessID, title string, since time.Time) (*models.Alert, error) {
	args := m.Called(ctx, businessID, title, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

func (m *MockRepository) UpdateAlert(ctx context.Context, alert *models.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockRepository) ListAlerts(ctx context.Context, businessID string, limit int) ([]models.Alert, error) {
	args := m.Called(ctx, businessID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Alert), args.Error(1)
}

func (m *MockRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}
