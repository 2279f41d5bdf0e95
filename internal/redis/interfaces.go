package redis

import (
	"context"

	"cashflow-sentinel/internal/models"
)

// ClientInterface определяет интерфейс для работы с Redis
// Это позволяет легко создавать моки для тестирования
// Реализуется типом Client
type ClientInterface interface {
	// AcquireDetectionLock блокирует сканирование бизнеса
	AcquireDetectionLock(ctx context.Context, businessID string) (string, bool, error)

	// ReleaseDetectionLock снимает блокировку, если токен совпадает
	ReleaseDetectionLock(ctx context.Context, businessID, token string) error

	// IncrementAlertStats увеличивает счетчик алертов
	IncrementAlertStats(ctx context.Context, severity models.Severity) error

	// GetAlertStats возвращает счетчики алертов
	GetAlertStats(ctx context.Context) (map[models.Severity]int64, error)

	ResetAlertStats(ctx context.Context) error

	// Close закрывает соединение с Redis
	Close() error
}

// Убеждаемся, что Client реализует ClientInterface
var _ ClientInterface = (*Client)(nil)
