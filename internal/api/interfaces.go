package api

import (
	"context"
	"encoding/json"

	"cashflow-sentinel/internal/models"
)

// Detector запускает поиск аномалий
type Detector interface {
	RunDetection(ctx context.Context) (int, error)
	RunDetectionForBusiness(ctx context.Context, businessID string) (int, error)
}

// AlertService дает пользователю читать и менять свои алерты
type AlertService interface {
	Recent(ctx context.Context, userID string, limit int) ([]models.Alert, error)
	Update(ctx context.Context, userID, alertID string, upd models.AlertUpdate) (*models.Alert, error)
}

// BusinessLookup нужен для проверки владельца перед ручным запуском детекции
type BusinessLookup interface {
	GetBusiness(ctx context.Context, id string) (*models.Business, error)
}

// Retriever семантический поиск по транзакциям и памяти чата
type Retriever interface {
	SearchTransactions(ctx context.Context, ownerID, query string, limit int) ([]models.MemoryHit, error)
	RelevantTurns(ctx context.Context, ownerID, message string, k int) ([]models.MemoryHit, error)
	History(ctx context.Context, ownerID string, limit int) ([]models.ChatTurn, error)
	Remember(ctx context.Context, ownerID string, role models.ChatRole, content string) (*models.ChatTurn, error)
}

// ToolInvoker вызывает инструмент агента по имени
type ToolInvoker interface {
	Invoke(ctx context.Context, name, ownerID string, args json.RawMessage) (string, error)
}
