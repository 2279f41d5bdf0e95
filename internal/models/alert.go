package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Severity уровень важности алерта
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// ParseSeverity нормализует значение от модели, неизвестное сводится к medium
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityHigh:
		return SeverityHigh
	case SeverityLow:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// AlertStatus состояние жизненного цикла алерта
type AlertStatus string

const (
	AlertNew        AlertStatus = "new"
	AlertInProgress AlertStatus = "in_progress"
	AlertResolved   AlertStatus = "resolved"
)

// AlertDraft результат обогащения, еще не сохраненный алерт
type AlertDraft struct {
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Severity         Severity         `json:"severity"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	Recommendation   string           `json:"recommendation"`
	Impact           string           `json:"impact,omitempty"`
	SuggestedActions []string         `json:"suggestedActions"`
}

// Alert сохраненный алерт. Не удаляется, только меняет состояние
type Alert struct {
	ID               string           `json:"id"`
	BusinessID       string           `json:"businessId"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Severity         Severity         `json:"severity"`
	Status           AlertStatus      `json:"status"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	Recommendation   string           `json:"recommendation"`
	Impact           string           `json:"impact,omitempty"`
	SuggestedActions []string         `json:"suggestedActions"`
	UserNotes        *string          `json:"userNotes,omitempty"`
	Date             time.Time        `json:"date"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// AlertUpdate пользовательское изменение алерта
type AlertUpdate struct {
	Status    *AlertStatus `json:"status,omitempty"`
	UserNotes *string      `json:"userNotes,omitempty"`
}
