// Package enrichment превращает статистически аномальные транзакции в понятные черновики алертов
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"

	"cashflow-sentinel/internal/llm"
	"cashflow-sentinel/internal/logger"
	"cashflow-sentinel/internal/models"

	"github.com/rs/zerolog"
)

const SystemInstruction = "You are a financial fraud detection expert."

const promptTemplate = `Analyze the following transactions for anomalies (fraud, unusual spending, spikes, etc.):
%s

Return a JSON array of anomalies found. Each object should have:
- title: Short title of the anomaly
- description: Detailed description
- severity: 'high', 'medium', or 'low'
- recommendation: Actionable advice
- impact: Potential financial impact
- suggestedActions: Array of strings (actions to take)
- amount: The amount involved (if applicable)

If no anomalies are found, return an empty array [].
Output ONLY the JSON array.`

type Enricher struct {
	provider llm.Provider
	service  string
	log      zerolog.Logger
}

func NewEnricher(provider llm.Provider, service string, log zerolog.Logger) *Enricher {
	return &Enricher{
		provider: provider,
		service:  service,
		log:      log.With().Str("component", "enrichment").Logger(),
	}
}

// BuildPrompt формирует пользовательское сообщение для модели
func BuildPrompt(txs []models.Transaction) (string, error) {
	summaries := make([]models.TransactionSummary, 0, len(txs))
	for _, tx := range txs {
		summaries = append(summaries, tx.Summary())
	}
	payload, err := json.Marshal(summaries)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(promptTemplate, payload), nil
}

// Enrich никогда не возвращает ошибку: сбой провайдера или разбора дает пустой список
func (e *Enricher) Enrich(ctx context.Context, txs []models.Transaction) []models.AlertDraft {
	if len(txs) == 0 {
		return nil
	}

	prompt, err := BuildPrompt(txs)
	if err != nil {
		e.fail("prompt", err)
		return nil
	}

	raw, err := e.provider.Generate(ctx, SystemInstruction, prompt)
	if err != nil {
		e.fail("provider", err)
		return nil
	}

	drafts, err := ExtractDrafts(raw)
	if err != nil {
		e.fail("parse", err)
		return nil
	}

	e.log.Debug().Int("transactions", len(txs)).Int("drafts", len(drafts)).Msg("enrichment completed")
	return drafts
}

func (e *Enricher) fail(stage string, err error) {
	e.log.Warn().Err(err).Str("stage", stage).Msg("enrichment degraded to empty result")
	logger.LogEvent(logger.EventEnrichmentFailed, e.service, logger.ComponentLLM, map[string]interface{}{
		"stage": stage,
		"error": err.Error(),
	})
}
