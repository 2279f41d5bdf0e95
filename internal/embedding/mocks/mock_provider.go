package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider является моком для embedding.Provider интерфейса
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockProvider) Dimension() int {
	args := m.Called()
	return args.Int(0)
}
