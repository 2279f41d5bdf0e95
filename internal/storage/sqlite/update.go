package sqlite

import (
	"context"
	"fmt"
	"time"

	"cashflow-sentinel/internal/models"
)

// UpdateTransaction применяет корректирующую правку транзакции
func (r *Repository) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	tx.UpdatedAt = time.Now()
	query := `
		UPDATE transactions
		SET date = ?, amount = ?, type = ?, category = ?, description = ?, status = ?, updated_at = ?
		WHERE id = ?
	`

	n, err := r.exec(ctx, query,
		formatTime(tx.Date), tx.Amount.Abs().String(), string(tx.Type), tx.Category,
		tx.Description, tx.Status, formatTime(tx.UpdatedAt), tx.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", tx.ID, ErrNotFound)
	}
	return nil
}

// UpdateLastAnomalyCheck отмечает время последней проверки бизнеса
func (r *Repository) UpdateLastAnomalyCheck(ctx context.Context, businessID string, at time.Time) error {
	query := `UPDATE businesses SET last_anomaly_check = ? WHERE id = ?`

	n, err := r.exec(ctx, query, formatTime(at), businessID)
	if err != nil {
		return fmt.Errorf("failed to update last anomaly check: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("business %s: %w", businessID, ErrNotFound)
	}
	return nil
}

// UpdateAlert сохраняет статус и заметки алерта
func (r *Repository) UpdateAlert(ctx context.Context, a *models.Alert) error {
	a.UpdatedAt = time.Now()
	query := `UPDATE alerts SET status = ?, user_notes = ?, updated_at = ? WHERE id = ?`

	n, err := r.exec(ctx, query, string(a.Status), nullableString(a.UserNotes), formatTime(a.UpdatedAt), a.ID)
	if err != nil {
		return fmt.Errorf("failed to update alert: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("alert %s: %w", a.ID, ErrNotFound)
	}
	return nil
}
