package tools

import (
	"context"
	"encoding/json"
	"errors"

	"cashflow-sentinel/internal/alerts"
	"cashflow-sentinel/internal/logger"
	"cashflow-sentinel/internal/models"

	"github.com/rs/zerolog"
)

const (
	CheckAnomaliesName = "check_anomalies"
	recentAlertsLimit  = 5

	noBusinessText  = "No business found for this user."
	noAnomaliesText = "No anomalies detected recently."
	checkFailedText = "Error checking anomalies."
)

type AlertLister interface {
	Recent(ctx context.Context, userID string, limit int) ([]models.Alert, error)
}

type CheckAnomalies struct {
	alerts AlertLister
	log    zerolog.Logger
}

func NewCheckAnomalies(lister AlertLister, log zerolog.Logger) *CheckAnomalies {
	return &CheckAnomalies{alerts: lister, log: log}
}

func (t *CheckAnomalies) Name() string { return CheckAnomaliesName }

func (t *CheckAnomalies) Description() string {
	return "Check for financial anomalies or alerts. Use this when user asks about fraud, unusual spending, or alerts."
}

func (t *CheckAnomalies) Parameters() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{}}`)
}

func (t *CheckAnomalies) Invoke(ctx context.Context, ownerID string, _ json.RawMessage) (string, error) {
	list, err := t.alerts.Recent(ctx, ownerID, recentAlertsLimit)
	switch {
	case errors.Is(err, alerts.ErrBusinessNotFound):
		return noBusinessText, nil
	case err != nil:
		t.log.Error().Err(err).Str("component", logger.ComponentLLM).Str("tool", t.Name()).Msg("Tool failed")
		return checkFailedText, nil
	case len(list) == 0:
		return noAnomaliesText, nil
	}

	out, err := json.Marshal(list)
	if err != nil {
		return checkFailedText, nil
	}
	return string(out), nil
}
