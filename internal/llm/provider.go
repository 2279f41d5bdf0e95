// Package llm содержит клиентов генерации текста. Оба клиента отдают сырой текст,
// разбор ответа остается на вызывающей стороне
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cashflow-sentinel/internal/config"
)

var ErrEmptyResponse = errors.New("llm: empty response")

// Provider генерирует текст по системной инструкции и пользовательскому сообщению
type Provider interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// NewProvider создает клиента по LLM_PROVIDER
func NewProvider(ctx context.Context, cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.Timeout)
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
