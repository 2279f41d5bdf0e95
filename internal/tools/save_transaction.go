package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cashflow-sentinel/internal/logger"
	"cashflow-sentinel/internal/models"
	"cashflow-sentinel/internal/services"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	SaveTransactionName = "save_transaction"

	saveNoBusinessText = "No business found. Cannot save transaction."
	saveFailedText     = "Error saving transaction."
)

type TransactionCreator interface {
	Create(ctx context.Context, userID string, tx *models.Transaction) (*models.Transaction, error)
}

type SaveTransaction struct {
	creator TransactionCreator
	log     zerolog.Logger
	now     func() time.Time
}

func NewSaveTransaction(creator TransactionCreator, log zerolog.Logger) *SaveTransaction {
	return &SaveTransaction{creator: creator, log: log, now: time.Now}
}

func (t *SaveTransaction) Name() string { return SaveTransactionName }

func (t *SaveTransaction) Description() string {
	return "Save a new transaction (expense or income). Use this when user explicitly asks to record/save a transaction."
}

func (t *SaveTransaction) Parameters() json.RawMessage {
	return json.RawMessage(`{"type":"object","properties":{` +
		`"amount":{"type":"number","description":"The amount of the transaction"},` +
		`"type":{"type":"string","enum":["in","out"],"description":"Type of transaction: 'in' for income, 'out' for expense"},` +
		`"description":{"type":"string","description":"Description of the transaction"},` +
		`"category":{"type":"string","description":"Category of the transaction (e.g., Food, Transport, Salary). Default to 'Lainnya' if unknown."}},` +
		`"required":["amount","type","description"]}`)
}

type saveArgs struct {
	Amount      decimal.Decimal        `json:"amount"`
	Type        models.TransactionType `json:"type"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
}

func (t *SaveTransaction) Invoke(ctx context.Context, ownerID string, args json.RawMessage) (string, error) {
	var in saveArgs
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if !in.Type.Valid() || !in.Amount.IsPositive() || strings.TrimSpace(in.Description) == "" {
		return "", ErrInvalidArgs
	}
	if strings.TrimSpace(in.Category) == "" {
		in.Category = models.DefaultCategory
	}

	tx := &models.Transaction{
		Date:        t.now(),
		Amount:      in.Amount,
		Type:        in.Type,
		Category:    in.Category,
		Description: in.Description,
		Status:      models.DefaultTransactionStatus,
	}
	saved, err := t.creator.Create(ctx, ownerID, tx)
	switch {
	case errors.Is(err, services.ErrBusinessNotFound):
		return saveNoBusinessText, nil
	case err != nil:
		t.log.Error().Err(err).Str("component", logger.ComponentLLM).Str("tool", t.Name()).Msg("Tool failed")
		return saveFailedText, nil
	}

	kind := "Expense"
	if saved.Type == models.TransactionIn {
		kind = "Income"
	}
	return fmt.Sprintf("Transaction saved successfully: %s Rp%s - %s", kind, saved.Amount.String(), saved.Description), nil
}
