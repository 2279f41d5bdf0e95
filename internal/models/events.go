package models

import "time"

// TransactionEventType тип события изменения транзакции
type TransactionEventType string

const (
	EventTransactionCreated TransactionEventType = "transaction.created"
	EventTransactionUpdated TransactionEventType = "transaction.updated"
	EventTransactionDeleted TransactionEventType = "transaction.deleted"
)

// TransactionEvent событие в Kafka, по которому воркер переиндексирует вектор и запускает детекцию
type TransactionEvent struct {
	EventID       string               `json:"event_id"`
	EventType     TransactionEventType `json:"event_type"`
	TransactionID string               `json:"transaction_id"`
	BusinessID    string               `json:"business_id"`
	OwnerID       string               `json:"owner_id"`
	Transaction   *Transaction         `json:"transaction,omitempty"`
	OccurredAt    time.Time            `json:"occurred_at"`
}
