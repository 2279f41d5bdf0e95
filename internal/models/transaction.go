package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType направление движения денег
type TransactionType string

const (
	TransactionIn  TransactionType = "in"
	TransactionOut TransactionType = "out"
)

const (
	DefaultCategory          = "Lainnya"
	DefaultTransactionStatus = "completed"
)

// Transaction представляет операцию бизнеса. Amount хранится по модулю, знак задает Type
type Transaction struct {
	ID          string          `json:"id"`
	BusinessID  string          `json:"businessId"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// SignedAmount возвращает сумму со знаком: расходы отрицательные
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionOut {
		return t.Amount.Abs().Neg()
	}
	return t.Amount.Abs()
}

// Valid проверяет тип операции
func (tt TransactionType) Valid() bool {
	return tt == TransactionIn || tt == TransactionOut
}

// Business владеет транзакциями и алертами
type Business struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	Name             string     `json:"name"`
	LastAnomalyCheck *time.Time `json:"lastAnomalyCheck,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// TransactionSummary упрощенное представление транзакции для LLM (без скоров)
type TransactionSummary struct {
	Date        string          `json:"date"`
	Amount      json.Number     `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

// Summary сокращает транзакцию до полей, которые видит обогащение
func (t Transaction) Summary() TransactionSummary {
	return TransactionSummary{
		Date:        t.Date.Format("2006-01-02"),
		Amount:      json.Number(t.Amount.Abs().String()),
		Type:        t.Type,
		Category:    t.Category,
		Description: t.Description,
	}
}

// TransactionPatch частичное изменение транзакции, nil поля не трогаются
type TransactionPatch struct {
	Date        *time.Time       `json:"date,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Type        *TransactionType `json:"type,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
}
