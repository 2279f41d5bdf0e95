package sqlite

import (
	"context"
	"database/sql"
	"time"

	"cashflow-sentinel/internal/models"
)

// GetTransaction получает транзакцию по id
func (r *Repository) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

	tx, err := scanTransaction(r.storage.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return tx, err
}

// GetRecentTransactions получает последние транзакции бизнеса
func (r *Repository) GetRecentTransactions(ctx context.Context, businessID string, limit int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE business_id = ?
		ORDER BY date DESC, created_at DESC
		LIMIT ?
	`

	rows, err := r.storage.DB.QueryContext(ctx, query, businessID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}
	return txs, rows.Err()
}

// GetBusiness получает бизнес по id
func (r *Repository) GetBusiness(ctx context.Context, id string) (*models.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = ?`

	b, err := scanBusiness(r.storage.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return b, err
}

// GetBusinessByUser получает первый бизнес пользователя
func (r *Repository) GetBusinessByUser(ctx context.Context, userID string) (*models.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE user_id = ? ORDER BY created_at LIMIT 1`

	b, err := scanBusiness(r.storage.DB.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return b, err
}

// ListBusinessesForDetection выбирает бизнесы для очередного прогона детекции
func (r *Repository) ListBusinessesForDetection(ctx context.Context, checkedBefore time.Time, limit int) ([]models.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses`
	var args []interface{}
	if !checkedBefore.IsZero() {
		query += ` WHERE last_anomaly_check IS NULL OR last_anomaly_check < ?`
		args = append(args, formatTime(checkedBefore))
	}
	query += ` ORDER BY last_anomaly_check IS NOT NULL, last_anomaly_check, created_at LIMIT ?`
	args = append(args, limit)

	rows, err := r.storage.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var businesses []models.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, *b)
	}
	return businesses, rows.Err()
}

// GetAlert получает алерт по id
func (r *Repository) GetAlert(ctx context.Context, id string) (*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = ?`

	a, err := scanAlert(r.storage.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// FindRecentAlertByTitle ищет дубликат алерта в окне дедупликации
func (r *Repository) FindRecentAlertByTitle(ctx context.Context, businessID, title string, since time.Time) (*models.Alert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM alerts
		WHERE business_id = ? AND title = ? AND created_at >= ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	a, err := scanAlert(r.storage.DB.QueryRowContext(ctx, query, businessID, title, formatTime(since)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// ListAlerts получает последние алерты бизнеса
func (r *Repository) ListAlerts(ctx context.Context, businessID string, limit int) ([]models.Alert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM alerts
		WHERE business_id = ?
		ORDER BY date DESC, created_at DESC
		LIMIT ?
	`

	rows, err := r.storage.DB.QueryContext(ctx, query, businessID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}
