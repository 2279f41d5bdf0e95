package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider является моком для llm.Provider интерфейса
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Generate(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}
