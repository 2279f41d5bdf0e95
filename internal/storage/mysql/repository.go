package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cashflow-sentinel/internal/models"
	"cashflow-sentinel/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("mysql: record not found")

// Repository реализует storage.Repository поверх gorm
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) storage.Repository {
	return &Repository{db: db}
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *Repository) SaveTransaction(ctx context.Context, tx *models.Transaction) error {
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
		tx.Date = time.Now()
	}

	rec := toTransactionRecord(tx)
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	tx.CreatedAt, tx.UpdatedAt = rec.CreatedAt, rec.UpdatedAt
	return nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	res := r.db.WithContext(ctx).Model(&transactionRecord{}).Where("id = ?", tx.ID).Updates(map[string]interface{}{
		"date":        tx.Date,
		"amount":      tx.Amount.Abs(),
		"type":        string(tx.Type),
		"category":    tx.Category,
		"description": tx.Description,
		"status":      tx.Status,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("transaction %s: %w", tx.ID, ErrNotFound)
	}
	return nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&transactionRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (r *Repository) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var rec transactionRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	tx := rec.model()
	return &tx, nil
}

func (r *Repository) GetRecentTransactions(ctx context.Context, businessID string, limit int) ([]models.Transaction, error) {
	var recs []transactionRecord
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("date DESC").Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0, len(recs))
	for i := range recs {
		txs = append(txs, recs[i].model())
	}
	return txs, nil
}

func (r *Repository) SaveBusiness(ctx context.Context, b *models.Business) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	rec := toBusinessRecord(b)
	if err := r.db.WithContext(ctx).Save(rec).Error; err != nil {
		return fmt.Errorf("failed to save business: %w", err)
	}
	b.CreatedAt = rec.CreatedAt
	return nil
}

func (r *Repository) GetBusiness(ctx context.Context, id string) (*models.Business, error) {
	return r.firstBusiness(ctx, r.db.Where("id = ?", id))
}

func (r *Repository) GetBusinessByUser(ctx context.Context, userID string) (*models.Business, error) {
	return r.firstBusiness(ctx, r.db.Where("user_id = ?", userID).Order("created_at"))
}

func (r *Repository) firstBusiness(ctx context.Context, q *gorm.DB) (*models.Business, error) {
	var rec businessRecord
	err := q.WithContext(ctx).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.model(), nil
}

func (r *Repository) ListBusinessesForDetection(ctx context.Context, checkedBefore time.Time, limit int) ([]models.Business, error) {
	q := r.db.WithContext(ctx).Model(&businessRecord{})
	if !checkedBefore.IsZero() {
		q = q.Where("last_anomaly_check IS NULL OR last_anomaly_check < ?", checkedBefore)
	}

	var recs []businessRecord
	err := q.Order("last_anomaly_check IS NOT NULL").
		Order("last_anomaly_check").
		Order("created_at").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.Business, 0, len(recs))
	for i := range recs {
		out = append(out, *recs[i].model())
	}
	return out, nil
}

func (r *Repository) UpdateLastAnomalyCheck(ctx context.Context, businessID string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&businessRecord{}).Where("id = ?", businessID).Update("last_anomaly_check", at)
	if res.Error != nil {
		return fmt.Errorf("failed to update last anomaly check: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("business %s: %w", businessID, ErrNotFound)
	}
	return nil
}

func (r *Repository) CreateAlert(ctx context.Context, a *models.Alert) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if a.Date.IsZero() {
		a.Date = a.CreatedAt
	}
	if a.SuggestedActions == nil {
		a.SuggestedActions = []string{}
	}

	rec := toAlertRecord(a)
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	a.UpdatedAt = rec.UpdatedAt
	return nil
}

func (r *Repository) GetAlert(ctx context.Context, id string) (*models.Alert, error) {
	var rec alertRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a := rec.model()
	return &a, nil
}

func (r *Repository) FindRecentAlertByTitle(ctx context.Context, businessID, title string, since time.Time) (*models.Alert, error) {
	var rec alertRecord
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND title = ? AND created_at >= ?", businessID, title, since).
		Order("created_at DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a := rec.model()
	return &a, nil
}

func (r *Repository) UpdateAlert(ctx context.Context, a *models.Alert) error {
	res := r.db.WithContext(ctx).Model(&alertRecord{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"status":     string(a.Status),
		"user_notes": a.UserNotes,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update alert: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("alert %s: %w", a.ID, ErrNotFound)
	}
	return nil
}

func (r *Repository) ListAlerts(ctx context.Context, businessID string, limit int) ([]models.Alert, error) {
	var recs []alertRecord
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("date DESC").Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.Alert, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].model())
	}
	return out, nil
}
