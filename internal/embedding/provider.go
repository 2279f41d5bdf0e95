// Package embedding переводит текст в вектор фиксированной размерности
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cashflow-sentinel/internal/config"
)

var ErrEmptyEmbedding = errors.New("embedding: empty vector returned")

// Provider возвращает вектор размерности Dimension() для текста
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// NewProvider создает клиента по EMBEDDING_PROVIDER
func NewProvider(ctx context.Context, cfg config.EmbeddingConfig, dim int) (Provider, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiEmbedder(ctx, cfg.APIKey, cfg.Model, dim, cfg.Timeout)
	case "openai":
		return NewOpenAIEmbedder(cfg.APIKey, cfg.BaseURL, cfg.Model, dim, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
