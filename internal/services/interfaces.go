package services

import (
	"context"

	"cashflow-sentinel/internal/models"
)

// TransactionService определяет интерфейс для изменения транзакций пользователем
type TransactionService interface {
	// Create сохраняет транзакцию в бизнесе пользователя
	Create(ctx context.Context, userID string, tx *models.Transaction) (*models.Transaction, error)

	// Update меняет переданные поля транзакции
	Update(ctx context.Context, userID, id string, patch models.TransactionPatch) (*models.Transaction, error)

	Delete(ctx context.Context, userID, id string) error

	// List возвращает последние транзакции бизнеса пользователя
	List(ctx context.Context, userID string, limit int) ([]models.Transaction, error)

	// Reindex заново индексирует последние транзакции бизнеса
	Reindex(ctx context.Context, businessID string, limit int) (int, error)
}

// VectorIndexer синхронизирует транзакции с векторным индексом
type VectorIndexer interface {
	Index(ctx context.Context, ownerID string, tx models.Transaction) error
	Remove(ctx context.Context, txID string) error
}

// DetectionTrigger запускает проверку бизнеса в фоне
type DetectionTrigger interface {
	Fire(businessID string)
}

// BusinessDetector синхронная проверка одного бизнеса
type BusinessDetector interface {
	RunDetectionForBusiness(ctx context.Context, businessID string) (int, error)
}
