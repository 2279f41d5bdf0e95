package sqlite

import (
	"context"
	"fmt"
	"time"

	"cashflow-sentinel/internal/models"

	"github.com/google/uuid"
)

// SaveTransaction сохраняет транзакцию, заполняя ID, статус и категорию по умолчанию
func (r *Repository) SaveTransaction(ctx context.Context, tx *models.Transaction) error {
	now := time.Now()
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Category == "" {
		tx.Category = models.DefaultCategory
	}
	if tx.Status == "" {
		tx.Status = models.DefaultTransactionStatus
	}
	if tx.Date.IsZero() {
		tx.Date = now
	}
	tx.CreatedAt, tx.UpdatedAt = now, now

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.exec(ctx, query,
		tx.ID, tx.BusinessID, formatTime(tx.Date), tx.Amount.Abs().String(), string(tx.Type),
		tx.Category, tx.Description, tx.Status, formatTime(tx.CreatedAt), formatTime(tx.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// SaveBusiness создает бизнес или обновляет владельца и имя существующего
func (r *Repository) SaveBusiness(ctx context.Context, b *models.Business) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}

	var lastCheck interface{}
	if b.LastAnomalyCheck != nil {
		lastCheck = formatTime(*b.LastAnomalyCheck)
	}

	query := `
		INSERT INTO businesses (` + businessColumns + `)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, name = excluded.name
	`
	_, err := r.exec(ctx, query, b.ID, b.UserID, b.Name, lastCheck, formatTime(b.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save business: %w", err)
	}
	return nil
}

// CreateAlert сохраняет новый алерт
func (r *Repository) CreateAlert(ctx context.Context, a *models.Alert) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	if a.Date.IsZero() {
		a.Date = a.CreatedAt
	}

	actions, err := encodeActions(a.SuggestedActions)
	if err != nil {
		return fmt.Errorf("failed to encode suggested actions: %w", err)
	}

	query := `
		INSERT INTO alerts (` + alertColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.exec(ctx, query,
		a.ID, a.BusinessID, a.Title, a.Description, string(a.Severity), string(a.Status),
		nullableDecimal(a.Amount), a.Recommendation, a.Impact, actions, nullableString(a.UserNotes),
		formatTime(a.Date), formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}
