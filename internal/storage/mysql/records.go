package mysql

import (
	"time"

	"cashflow-sentinel/internal/models"

	"github.com/shopspring/decimal"
)

type businessRecord struct {
	ID               string     `gorm:"type:varchar(64);primaryKey"`
	UserID           string     `gorm:"type:varchar(64);index;not null"`
	Name             string     `gorm:"type:varchar(255)"`
	LastAnomalyCheck *time.Time `gorm:"index"`
	CreatedAt        time.Time  `gorm:"autoCreateTime"`
}

func (businessRecord) TableName() string {
	return "businesses"
}

type transactionRecord struct {
	ID          string          `gorm:"type:varchar(64);primaryKey"`
	BusinessID  string          `gorm:"type:varchar(64);index:idx_tx_business_date;not null"`
	Date        time.Time       `gorm:"index:idx_tx_business_date;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Type        string          `gorm:"type:varchar(8);not null"`
	Category    string          `gorm:"type:varchar(128);not null"`
	Description string          `gorm:"type:text"`
	Status      string          `gorm:"type:varchar(32);not null"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (transactionRecord) TableName() string {
	return "transactions"
}

type alertRecord struct {
	ID               string           `gorm:"type:varchar(64);primaryKey"`
	BusinessID       string           `gorm:"type:varchar(64);index:idx_alert_dedup;not null"`
	Title            string           `gorm:"type:varchar(255);index:idx_alert_dedup;not null"`
	Description      string           `gorm:"type:text"`
	Severity         string           `gorm:"type:varchar(16);not null"`
	Status           string           `gorm:"type:varchar(16);index;not null"`
	Amount           *decimal.Decimal `gorm:"type:decimal(20,2)"`
	Recommendation   string           `gorm:"type:text"`
	Impact           string           `gorm:"type:text"`
	SuggestedActions []string         `gorm:"type:json;serializer:json"`
	UserNotes        *string          `gorm:"type:text"`
	Date             time.Time        `gorm:"index;not null"`
	CreatedAt        time.Time        `gorm:"index:idx_alert_dedup"`
	UpdatedAt        time.Time
}

func (alertRecord) TableName() string {
	return "alerts"
}

func toBusinessRecord(b *models.Business) *businessRecord {
	return &businessRecord{
		ID:               b.ID,
		UserID:           b.UserID,
		Name:             b.Name,
		LastAnomalyCheck: b.LastAnomalyCheck,
		CreatedAt:        b.CreatedAt,
	}
}

func (r *businessRecord) model() *models.Business {
	return &models.Business{
		ID:               r.ID,
		UserID:           r.UserID,
		Name:             r.Name,
		LastAnomalyCheck: r.LastAnomalyCheck,
		CreatedAt:        r.CreatedAt,
	}
}

func toTransactionRecord(tx *models.Transaction) *transactionRecord {
	return &transactionRecord{
		ID:          tx.ID,
		BusinessID:  tx.BusinessID,
		Date:        tx.Date,
		Amount:      tx.Amount.Abs(),
		Type:        string(tx.Type),
		Category:    tx.Category,
		Description: tx.Description,
		Status:      tx.Status,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

func (r *transactionRecord) model() models.Transaction {
	return models.Transaction{
		ID:          r.ID,
		BusinessID:  r.BusinessID,
		Date:        r.Date,
		Amount:      r.Amount,
		Type:        models.TransactionType(r.Type),
		Category:    r.Category,
		Description: r.Description,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toAlertRecord(a *models.Alert) *alertRecord {
	return &alertRecord{
		ID:               a.ID,
		BusinessID:       a.BusinessID,
		Title:            a.Title,
		Description:      a.Description,
		Severity:         string(a.Severity),
		Status:           string(a.Status),
		Amount:           a.Amount,
		Recommendation:   a.Recommendation,
		Impact:           a.Impact,
		SuggestedActions: a.SuggestedActions,
		UserNotes:        a.UserNotes,
		Date:             a.Date,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func (r *alertRecord) model() models.Alert {
	return models.Alert{
		ID:               r.ID,
		BusinessID:       r.BusinessID,
		Title:            r.Title,
		Description:      r.Description,
		Severity:         models.Severity(r.Severity),
		Status:           models.AlertStatus(r.Status),
		Amount:           r.Amount,
		Recommendation:   r.Recommendation,
		Impact:           r.Impact,
		SuggestedActions: r.SuggestedActions,
		UserNotes:        r.UserNotes,
		Date:             r.Date,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
