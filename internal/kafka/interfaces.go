package kafka

import (
	"context"

	"cashflow-sentinel/internal/models"
)

// Producer определяет интерфейс для отправки событий изменения транзакций в Kafka
type Producer interface {
	SendTransactionEvent(ctx context.Context, event *models.TransactionEvent) error

	Close() error
}

// Consumer читает события до отмены контекста
type Consumer interface {
	Start(ctx context.Context) error

	Close() error
}

// EventHandler обрабатывает одно событие. Ошибка логируется, сообщение все равно коммитится
type EventHandler func(ctx context.Context, event *models.TransactionEvent) error
