package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cashflow-sentinel/internal/models"
	"cashflow-sentinel/internal/storage"

	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02 15:04:05.000000000"

// ErrNotFound возвращается при обновлении несуществующей записи
var ErrNotFound = errors.New("sqlite: record not found")

// Repository реализует storage.Repository для SQLite
type Repository struct {
	storage *SQLiteStorage
}

// NewRepository создает новый репозиторий SQLite
func NewRepository(s *SQLiteStorage) storage.Repository {
	return &Repository{storage: s}
}

// Close закрывает соединение с БД
func (r *Repository) Close() error {
	return r.storage.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.UTC)
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

const transactionColumns = `id, business_id, date, amount, type, category, description, status, created_at, updated_at`

func scanTransaction(row scanner) (*models.Transaction, error) {
	var tx models.Transaction
	var date, amount, txType, created, upd string
	if err := row.Scan(&tx.ID, &tx.BusinessID, &date, &amount, &txType, &tx.Category,
		&tx.Description, &tx.Status, &created, &upd); err != nil {
		return nil, err
	}

	var err error
	tx.Type = models.TransactionType(txType)
	if tx.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if tx.Date, err = parseTime(date); err != nil {
		return nil, err
	}
	if tx.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if tx.UpdatedAt, err = parseTime(upd); err != nil {
		return nil, err
	}
	return &tx, nil
}

const businessColumns = `id, user_id, name, last_anomaly_check, created_at`

func scanBusiness(row scanner) (*models.Business, error) {
	var b models.Business
	var lastCheck sql.NullString
	var created string
	if err := row.Scan(&b.ID, &b.UserID, &b.Name, &lastCheck, &created); err != nil {
		return nil, err
	}

	var err error
	if b.LastAnomalyCheck, err = parseNullTime(lastCheck); err != nil {
		return nil, err
	}
	if b.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &b, nil
}

const alertColumns = `id, business_id, title, description, severity, status, amount, recommendation,
	impact, suggested_actions, user_notes, date, created_at, updated_at`

func scanAlert(row scanner) (*models.Alert, error) {
	var a models.Alert
	var severity, status, actions, date, created, updated string
	var amount, notes sql.NullString
	if err := row.Scan(&a.ID, &a.BusinessID, &a.Title, &a.Description, &severity, &status, &amount,
		&a.Recommendation, &a.Impact, &actions, &notes, &date, &created, &updated); err != nil {
		return nil, err
	}

	a.Severity = models.Severity(severity)
	a.Status = models.AlertStatus(status)
	if amount.Valid {
		d, err := decimal.NewFromString(amount.String)
		if err != nil {
			return nil, fmt.Errorf("invalid alert amount %q: %w", amount.String, err)
		}
		a.Amount = &d
	}
	if notes.Valid {
		n := notes.String
		a.UserNotes = &n
	}
	if err := json.Unmarshal([]byte(actions), &a.SuggestedActions); err != nil {
		return nil, fmt.Errorf("invalid suggested actions: %w", err)
	}

	var err error
	if a.Date, err = parseTime(date); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &a, nil
}

func nullableDecimal(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func encodeActions(actions []string) (string, error) {
	if actions == nil {
		actions = []string{}
	}
	data, err := json.Marshal(actions)
	return string(data), err
}
