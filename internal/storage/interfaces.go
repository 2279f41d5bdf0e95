package storage

import (
	"context"
	"time"

	"cashflow-sentinel/internal/models"
)

// TransactionRepository определяет интерфейс для работы с транзакциями в хранилище.
// Методы Get* возвращают nil, nil если запись не найдена
type TransactionRepository interface {
	// SaveTransaction создает транзакцию, при пустом ID генерирует его
	SaveTransaction(ctx context.Context, tx *models.Transaction) error

	UpdateTransaction(ctx context.Context, tx *models.Transaction) error

	DeleteTransaction(ctx context.Context, id string) error

	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)

	// GetRecentTransactions возвращает последние limit транзакций бизнеса, новые первыми
	GetRecentTransactions(ctx context.Context, businessID string, limit int) ([]models.Transaction, error)
}

// BusinessRepository определяет интерфейс для работы с бизнесами
type BusinessRepository interface {
	SaveBusiness(ctx context.Context, b *models.Business) error

	GetBusiness(ctx context.Context, id string) (*models.Business, error)

	GetBusinessByUser(ctx context.Context, userID string) (*models.Business, error)

	// ListBusinessesForDetection возвращает до limit бизнесов, непроверенные первыми,
	// затем по возрастанию last_anomaly_check. Нулевой checkedBefore отключает фильтр
	ListBusinessesForDetection(ctx context.Context, checkedBefore time.Time, limit int) ([]models.Business, error)

	UpdateLastAnomalyCheck(ctx context.Context, businessID string, at time.Time) error
}

// AlertRepository определяет интерфейс для работы с алертами. Удаления нет
type AlertRepository interface {
	CreateAlert(ctx context.Context, alert *models.Alert) error

	GetAlert(ctx context.Context, id string) (*models.Alert, error)

	// FindRecentAlertByTitle ищет алерт бизнеса с тем же заголовком, созданный не раньше since
	FindRecentAlertByTitle(ctx context.Context, businessID, title string, since time.Time) (*models.Alert, error)

	UpdateAlert(ctx context.Context, alert *models.Alert) error

	// ListAlerts возвращает последние алерты бизнеса по убыванию даты
	ListAlerts(ctx context.Context, businessID string, limit int) ([]models.Alert, error)
}

// Repository объединяет все хранилища одного драйвера
type Repository interface {
	TransactionRepository
	BusinessRepository
	AlertRepository

	Close() error
}
