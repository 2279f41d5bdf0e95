package mocks

import (
	"context"

	"cashflow-sentinel/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockClientInterface является моком для redis.ClientInterface интерфейса
type MockClientInterface struct {
	mock.Mock
}

func (m *MockClientInterface) AcquireDetectionLock(ctx context.Context, businessID string) (string, bool, error) {
	args := m.Called(ctx, businessID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockClientInterface) ReleaseDetectionLock(ctx context.Context, businessID, token string) error {
	args := m.Called(ctx, businessID, token)
	return args.Error(0)
}

func (m *MockClientInterface) IncrementAlertStats(ctx context.Context, severity models.Severity) error {
	args := m.Called(ctx, severity)
	return args.Error(0)
}

func (m *MockClientInterface) GetAlertStats(ctx context.Context) (map[models.Severity]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.Severity]int64), args.Error(1)
}

func (m *MockClientInterface) ResetAlertStats(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close мок для Close
func (m *MockClientInterface) Close() error {
	args := m.Called()
	return args.Error(0)
}
